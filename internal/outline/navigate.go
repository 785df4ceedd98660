package outline

import "fmt"

// Direction is a focus movement through the visible outline.
type Direction int

const (
	Up Direction = iota
	Down
)

// ParseDirection accepts "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Flatten returns the ids of all visible nodes in depth-first pre-order.
// Descendants of collapsed nodes are omitted.
func Flatten(f Forest) []string {
	ids := make([]string, 0, len(f))
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			ids = append(ids, n.ID)
			if !n.IsCollapsed {
				visit(n.Children)
			}
		}
	}
	visit(f)
	return ids
}

// Index is the visible order of a forest, computed once for repeated focus
// lookups against the same forest value.
type Index struct {
	ids []string
	pos map[string]int
}

// NewIndex flattens f.
func NewIndex(f Forest) *Index {
	ids := Flatten(f)
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	return &Index{ids: ids, pos: pos}
}

// IDs returns the visible order.
func (ix *Index) IDs() []string {
	return ix.ids
}

// Len returns the number of visible nodes.
func (ix *Index) Len() int {
	return len(ix.ids)
}

// Next returns the id adjacent to currentID in the given direction. ok is
// false at either boundary or when currentID is not visible.
func (ix *Index) Next(currentID string, dir Direction) (string, bool) {
	i, found := ix.pos[currentID]
	if !found {
		return "", false
	}
	if dir == Up {
		i--
	} else {
		i++
	}
	if i < 0 || i >= len(ix.ids) {
		return "", false
	}
	return ix.ids[i], true
}

// Navigate is NewIndex(f).Next(currentID, dir).
func Navigate(f Forest, currentID string, dir Direction) (string, bool) {
	return NewIndex(f).Next(currentID, dir)
}
