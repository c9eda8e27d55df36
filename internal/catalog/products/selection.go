package products

import (
	"slices"

	"github.com/logiparts/logiparts-admin/internal/catalog/vehicles"
)

// Selection is the set of vehicle ids associated with a product draft.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection builds a set from ids; duplicates and blanks collapse.
func NewSelection(ids ...string) Selection {
	s := Selection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// SelectionFrom builds the set from a product's current vehicles.
func SelectionFrom(list []vehicles.Vehicle) Selection {
	s := NewSelection()
	for _, v := range list {
		s.ids[v.ID] = struct{}{}
	}
	return s
}

// Toggle adds id when absent and removes it when present.
func (s *Selection) Toggle(id string) {
	if id == "" {
		return
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the selected ids in ascending order.
func (s Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Len is the number of selected vehicles.
func (s Selection) Len() int {
	return len(s.ids)
}
