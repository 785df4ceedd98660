package outline

// ViewState is the per-document display state persisted next to the
// Markdown content. Each collapsed path is the list of child indices from
// the roots down to a collapsed node.
//
// Paths are positional. Reapplying a view state to a forest whose shape
// changed since it was captured (for example a hand-edited file) may
// collapse the wrong nodes or drop entries.
type ViewState struct {
	CollapsedPaths [][]int `json:"collapsedPaths"`
}

// CaptureViewState records the path of every collapsed node, including
// collapsed nodes nested inside other collapsed subtrees.
func CaptureViewState(f Forest) ViewState {
	vs := ViewState{CollapsedPaths: [][]int{}}
	var visit func(nodes []*Node, prefix []int)
	visit = func(nodes []*Node, prefix []int) {
		for i, n := range nodes {
			path := append(prefix[:len(prefix):len(prefix)], i)
			if n.IsCollapsed {
				vs.CollapsedPaths = append(vs.CollapsedPaths, path)
			}
			visit(n.Children, path)
		}
	}
	visit(f, nil)
	return vs
}

// ApplyViewState returns a clone of f with every node addressed by a
// collapsed path marked collapsed. Paths that do not resolve are ignored.
func ApplyViewState(f Forest, vs ViewState) Forest {
	out := f.Clone()
	for _, path := range vs.CollapsedPaths {
		if n := nodeAt(out, path); n != nil {
			n.IsCollapsed = true
		}
	}
	return out
}

func nodeAt(f Forest, path []int) *Node {
	if len(path) == 0 {
		return nil
	}
	nodes := []*Node(f)
	var n *Node
	for _, i := range path {
		if i < 0 || i >= len(nodes) {
			return nil
		}
		n = nodes[i]
		nodes = n.Children
	}
	return n
}
