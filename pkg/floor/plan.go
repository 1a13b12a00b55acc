package floor

import (
	"fmt"

	"github.com/ChicagoDave/floorplanner/pkg/group"
)

// ID identifies a floor. Floors are numbered from 1 when a store is created
// and keep their ID when reordered.
type ID int

// Placement is a group placed on a floor, with a display snapshot of its
// attributes and its score against the rest of the floor.
type Placement struct {
	GroupID            group.ID `json:"group_id"`
	Name               string   `json:"name"`
	PeopleCount        int      `json:"people_count"`
	AvgScore           float64  `json:"avg_score"`
	CollaborationScore float64  `json:"collaboration_score"`
}

// Floor is one floor of a plan.
type Floor struct {
	ID                 ID          `json:"id"`
	Name               string      `json:"name"`
	Groups             []Placement `json:"groups"`
	PeopleCount        int         `json:"people_count"`
	CollaborationScore float64     `json:"collaboration_score"`
}

// Has reports whether the group is placed on this floor.
func (f Floor) Has(id group.ID) bool {
	return f.indexOf(id) >= 0
}

func (f Floor) indexOf(id group.ID) int {
	for i, p := range f.Groups {
		if p.GroupID == id {
			return i
		}
	}
	return -1
}

// Plan is an immutable snapshot of every floor in display order.
// Stores never modify a plan once published; each mutation builds a new one.
type Plan struct {
	Floors   []Floor `json:"floors"`
	Capacity int     `json:"capacity"`
}

// Floor returns the floor with the given ID.
func (p *Plan) Floor(id ID) (Floor, bool) {
	if i := p.position(id); i >= 0 {
		return p.Floors[i], true
	}
	return Floor{}, false
}

func (p *Plan) position(id ID) int {
	for i, f := range p.Floors {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Holder returns the floor the group is placed on.
func (p *Plan) Holder(id group.ID) (ID, bool) {
	for _, f := range p.Floors {
		if f.Has(id) {
			return f.ID, true
		}
	}
	return 0, false
}

// PlacedCount returns the number of groups placed across all floors.
func (p *Plan) PlacedCount() int {
	n := 0
	for _, f := range p.Floors {
		n += len(f.Groups)
	}
	return n
}

// Check verifies the placement invariants: no group on two floors (or twice
// on one) and no floor above capacity.
func (p *Plan) Check() error {
	seen := make(map[group.ID]ID)
	for _, f := range p.Floors {
		people := 0
		for _, g := range f.Groups {
			if other, dup := seen[g.GroupID]; dup {
				return fmt.Errorf("group %q on floors %d and %d: %w", g.Name, other, f.ID, ErrInvariant)
			}
			seen[g.GroupID] = f.ID
			people += g.PeopleCount
		}
		if people > p.Capacity {
			return fmt.Errorf("floor %d holds %d people, capacity %d: %w", f.ID, people, p.Capacity, ErrInvariant)
		}
	}
	return nil
}

// clone copies the floor slice; floors themselves are shared until replaced.
func (p *Plan) clone() *Plan {
	floors := make([]Floor, len(p.Floors))
	copy(floors, p.Floors)
	return &Plan{Floors: floors, Capacity: p.Capacity}
}
