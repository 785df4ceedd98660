package outline

import "slices"

// Every edit clones the forest first and applies the change to the clone, so
// the forest passed in is never modified. An id that matches no node leaves
// the clone unchanged; no error is reported.

// Add creates an empty node and returns the new forest with the new node's
// id. An empty parentID appends the node as the last root. Otherwise, if the
// parent node is a leaf the new node becomes its next sibling; if it has
// children it is expanded and the new node becomes its first child. The
// returned id is empty when parentID is not found.
func Add(f Forest, parentID string) (Forest, string) {
	out := f.Clone()
	n := NewNode("")

	if parentID == "" {
		return append(out, n), n.ID
	}

	_, ok := Locate(&out, parentID, func(node, _ *Node, siblings *[]*Node, index int) struct{} {
		if len(node.Children) == 0 {
			*siblings = slices.Insert(*siblings, index+1, n)
			return struct{}{}
		}
		node.IsCollapsed = false
		node.Children = slices.Insert(node.Children, 0, n)
		return struct{}{}
	})
	if !ok {
		return out, ""
	}
	return out, n.ID
}

// Delete removes the node and promotes its children into its place, in
// order, with their subtrees intact.
func Delete(f Forest, id string) Forest {
	out := f.Clone()
	Locate(&out, id, func(node, _ *Node, siblings *[]*Node, index int) struct{} {
		s := slices.Delete(*siblings, index, index+1)
		*siblings = slices.Insert(s, index, node.Children...)
		return struct{}{}
	})
	return out
}

// Indent makes the node the last child of its preceding sibling, expanding
// that sibling. A node that is first among its siblings is left in place.
func Indent(f Forest, id string) Forest {
	out := f.Clone()
	Locate(&out, id, func(node, _ *Node, siblings *[]*Node, index int) struct{} {
		if index == 0 {
			return struct{}{}
		}
		prev := (*siblings)[index-1]
		*siblings = slices.Delete(*siblings, index, index+1)
		prev.Children = append(prev.Children, node)
		prev.IsCollapsed = false
		return struct{}{}
	})
	return out
}

// Outdent moves the node into its parent's sibling list, directly after the
// parent. Siblings that followed the node become its trailing children. Root
// nodes are left in place.
func Outdent(f Forest, id string) Forest {
	out := f.Clone()
	Locate(&out, id, func(node, parent *Node, siblings *[]*Node, index int) struct{} {
		if parent == nil {
			return struct{}{}
		}
		Locate(&out, parent.ID, func(_, _ *Node, parentSiblings *[]*Node, parentIndex int) struct{} {
			trailing := slices.Clone((*siblings)[index+1:])
			*siblings = slices.Clone((*siblings)[:index])
			node.Children = append(node.Children, trailing...)
			*parentSiblings = slices.Insert(*parentSiblings, parentIndex+1, node)
			return struct{}{}
		})
		return struct{}{}
	})
	return out
}

// ToggleCollapse flips the node's collapsed flag.
func ToggleCollapse(f Forest, id string) Forest {
	out := f.Clone()
	Locate(&out, id, func(node, _ *Node, _ *[]*Node, _ int) struct{} {
		node.IsCollapsed = !node.IsCollapsed
		return struct{}{}
	})
	return out
}

// UpdateText replaces the node's text.
func UpdateText(f Forest, id, text string) Forest {
	out := f.Clone()
	Locate(&out, id, func(node, _ *Node, _ *[]*Node, _ int) struct{} {
		node.Text = text
		return struct{}{}
	})
	return out
}
