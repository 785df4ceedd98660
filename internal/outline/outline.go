package outline

// Node is a single outline entry. Its heading level is never stored: it is
// the node's depth in the forest plus one.
type Node struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	IsCollapsed bool    `json:"isCollapsed"`
	Children    []*Node `json:"children"`
}

// Forest is the ordered list of root nodes that makes up a document.
type Forest []*Node

// Document is a forest plus the title it was imported under.
type Document struct {
	Title  string `json:"title"` // from metadata or filename
	Forest Forest `json:"forest"`
}

// NewNode returns an empty node with a fresh id.
func NewNode(text string) *Node {
	return &Node{ID: NewID(), Text: text, Children: []*Node{}}
}

// Clone returns a deep copy of the forest. Ids are preserved.
func (f Forest) Clone() Forest {
	out := make(Forest, len(f))
	for i, n := range f {
		out[i] = n.Clone()
	}
	return out
}

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	c := &Node{
		ID:          n.ID,
		Text:        n.Text,
		IsCollapsed: n.IsCollapsed,
		Children:    make([]*Node, len(n.Children)),
	}
	for i, child := range n.Children {
		c.Children[i] = child.Clone()
	}
	return c
}

// Walk visits every node in depth-first pre-order, including the contents of
// collapsed subtrees. depth is 0 for roots. Returning false from fn skips the
// node's children.
func (f Forest) Walk(fn func(n *Node, depth int) bool) {
	walk(f, 0, fn)
}

func walk(nodes []*Node, depth int, fn func(*Node, int) bool) {
	for _, n := range nodes {
		if fn(n, depth) {
			walk(n.Children, depth+1, fn)
		}
	}
}

// Count returns the total number of nodes at all depths.
func (f Forest) Count() int {
	total := 0
	f.Walk(func(*Node, int) bool {
		total++
		return true
	})
	return total
}

// Find returns the node with the given id, or nil.
func (f Forest) Find(id string) *Node {
	n, _ := Locate(&f, id, func(n, _ *Node, _ *[]*Node, _ int) *Node { return n })
	return n
}
