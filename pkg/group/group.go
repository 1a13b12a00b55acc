package group

import (
	"errors"
	"fmt"
	"strings"
)

// ID is the stable key of a group, assigned by the registry in load order.
// The zero ID never refers to a group.
type ID int

// Group is an organizational unit that can be placed on a floor.
type Group struct {
	ID              ID      `json:"id"`
	Name            string  `json:"name"`
	PeopleCount     int     `json:"people_count"`
	InternalTraffic float64 `json:"internal_traffic"`
	OrgTraffic      float64 `json:"org_traffic"`
	ExternalTraffic float64 `json:"external_traffic"`
	AvgScore        float64 `json:"avg_score"`
	ScoresAbove10   int     `json:"scores_above_10"`
}

// TrafficTotal returns the sum of the three traffic percentages.
func (g Group) TrafficTotal() float64 {
	return g.InternalTraffic + g.OrgTraffic + g.ExternalTraffic
}

var (
	// ErrEmptyName is returned when a group has no display name.
	ErrEmptyName = errors.New("group: empty name")
	// ErrDuplicateName is returned when two groups share a display name.
	ErrDuplicateName = errors.New("group: duplicate name")
	// ErrNegativePeople is returned for a negative people count.
	ErrNegativePeople = errors.New("group: negative people count")
)

// Registry holds the static attributes of every loaded group.
// It is read-only once built.
type Registry struct {
	groups []Group
	byName map[string]ID
}

// NewRegistry builds a registry from groups in load order. IDs on the
// input are ignored; the registry assigns 1..n.
func NewRegistry(groups []Group) (*Registry, error) {
	r := &Registry{
		groups: make([]Group, 0, len(groups)),
		byName: make(map[string]ID, len(groups)),
	}
	for i, g := range groups {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return nil, fmt.Errorf("group %d: %w", i+1, ErrEmptyName)
		}
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("%q: %w", name, ErrDuplicateName)
		}
		if g.PeopleCount < 0 {
			return nil, fmt.Errorf("%q has %d people: %w", name, g.PeopleCount, ErrNegativePeople)
		}
		g.Name = name
		g.ID = ID(len(r.groups) + 1)
		r.groups = append(r.groups, g)
		r.byName[name] = g.ID
	}
	return r, nil
}

// Len returns the number of groups.
func (r *Registry) Len() int {
	return len(r.groups)
}

// Get returns the group with the given ID.
func (r *Registry) Get(id ID) (Group, bool) {
	if id < 1 || int(id) > len(r.groups) {
		return Group{}, false
	}
	return r.groups[id-1], true
}

// Lookup returns the group with the given display name.
func (r *Registry) Lookup(name string) (Group, bool) {
	id, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return Group{}, false
	}
	return r.groups[id-1], true
}

// All returns a copy of every group in load order.
func (r *Registry) All() []Group {
	out := make([]Group, len(r.groups))
	copy(out, r.groups)
	return out
}

// TotalPeople sums the people count over every group.
func (r *Registry) TotalPeople() int {
	total := 0
	for _, g := range r.groups {
		total += g.PeopleCount
	}
	return total
}
