package outline

// Builder assembles a forest from a flat sequence of headings and text
// blocks, nesting each heading under the nearest open heading of a lower
// level. Text blocks attach to the most recently opened heading.
type Builder struct {
	roots Forest
	stack []builderEntry
}

type builderEntry struct {
	node  *Node
	level int
}

// Heading opens a heading node at level (1 = top) and returns it.
func (b *Builder) Heading(level int, text string) *Node {
	n := NewNode(text)

	// Pop stack until the top is a heading of a lower level.
	for len(b.stack) > 0 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	b.attach(n)
	b.stack = append(b.stack, builderEntry{node: n, level: level})
	return n
}

// Paragraph appends a leaf under the current heading, or as a root when no
// heading is open.
func (b *Builder) Paragraph(text string) *Node {
	n := NewNode(text)
	b.attach(n)
	return n
}

// Forest returns the roots built so far. Never nil.
func (b *Builder) Forest() Forest {
	if b.roots == nil {
		return Forest{}
	}
	return b.roots
}

func (b *Builder) attach(n *Node) {
	if len(b.stack) == 0 {
		b.roots = append(b.roots, n)
		return
	}
	top := b.stack[len(b.stack)-1].node
	top.Children = append(top.Children, n)
}
