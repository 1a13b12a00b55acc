package analytics

import "github.com/ChicagoDave/floorplanner/pkg/group"

// Index caches every group's top collaborators. It depends only on the
// matrix and registry, so floor placement never invalidates it.
type Index struct {
	limit int
	top   map[group.ID][]Collaborator
}

// BuildIndex ranks collaborators for every registry group once.
func BuildIndex(s *Scorer, limit int) *Index {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	all := s.registry.All()
	idx := &Index{
		limit: limit,
		top:   make(map[group.ID][]Collaborator, len(all)),
	}
	for _, g := range all {
		idx.top[g.ID] = s.TopCollaborators(g.ID, all, limit)
	}
	return idx
}

// Limit returns the list length the index was built with.
func (idx *Index) Limit() int {
	return idx.limit
}

// Top returns a copy of the ranked collaborators of id, or nil when the
// group is unknown.
func (idx *Index) Top(id group.ID) []Collaborator {
	list, ok := idx.top[id]
	if !ok {
		return nil
	}
	out := make([]Collaborator, len(list))
	copy(out, list)
	return out
}

// IsTop reports whether other is among id's top collaborators.
func (idx *Index) IsTop(id, other group.ID) bool {
	for _, c := range idx.top[id] {
		if c.GroupID == other {
			return true
		}
	}
	return false
}
