package outline

type locateEntry struct {
	node     *Node
	parent   *Node
	siblings *[]*Node
	index    int
}

// Locate searches the forest breadth-first for id and returns visit's result
// for the first match. ok is false when no node has that id.
//
// visit receives the node with its structural context: the parent (nil for
// roots), a pointer to the sibling slice holding the node, and the node's
// index in it. The references are live, so visit may splice siblings or
// reparent nodes in place.
func Locate[R any](f *Forest, id string, visit func(node, parent *Node, siblings *[]*Node, index int) R) (result R, ok bool) {
	roots := (*[]*Node)(f)
	queue := make([]locateEntry, 0, len(*roots))
	for i, n := range *roots {
		queue = append(queue, locateEntry{node: n, siblings: roots, index: i})
	}

	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if e.node.ID == id {
			return visit(e.node, e.parent, e.siblings, e.index), true
		}
		for i, child := range e.node.Children {
			queue = append(queue, locateEntry{node: child, parent: e.node, siblings: &e.node.Children, index: i})
		}
	}
	return result, false
}
