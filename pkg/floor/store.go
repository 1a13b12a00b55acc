package floor

import (
	"fmt"
	"log/slog"

	"github.com/ChicagoDave/floorplanner/pkg/analytics"
	"github.com/ChicagoDave/floorplanner/pkg/group"
)

const (
	// DefaultCapacity is the people ceiling per floor.
	DefaultCapacity = 500
	// DefaultHistory is how many previous plans Undo can restore.
	DefaultHistory = 100
)

// Option configures a Store.
type Option func(*Store)

// WithCapacity sets the per-floor people ceiling. Non-positive values keep
// the default.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithFloorNames names floors in order; floors without a name are "Floor N".
func WithFloorNames(names []string) Option {
	return func(s *Store) {
		s.names = names
	}
}

// WithHistory bounds the undo stack. Zero disables undo.
func WithHistory(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.history = n
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store owns the mutable assignment of groups to floors. Every mutation
// publishes a new Plan and recomputes the scores of the floors it touched.
// A Store is not safe for concurrent use.
type Store struct {
	scorer   *analytics.Scorer
	registry *group.Registry
	capacity int
	names    []string
	history  int
	logger   *slog.Logger

	plan *Plan
	undo []*Plan
	redo []*Plan
}

// NewStore creates a store with floors empty floors, IDs 1..floors.
func NewStore(scorer *analytics.Scorer, floors int, opts ...Option) *Store {
	s := &Store{
		scorer:   scorer,
		registry: scorer.Registry(),
		capacity: DefaultCapacity,
		history:  DefaultHistory,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "floor_store"))

	if floors < 0 {
		floors = 0
	}
	plan := &Plan{Floors: make([]Floor, floors), Capacity: s.capacity}
	for i := range plan.Floors {
		name := fmt.Sprintf("Floor %d", i+1)
		if i < len(s.names) && s.names[i] != "" {
			name = s.names[i]
		}
		plan.Floors[i] = Floor{ID: ID(i + 1), Name: name, Groups: []Placement{}}
	}
	s.plan = plan
	return s
}

// Snapshot returns the current plan. Callers must not modify it.
func (s *Store) Snapshot() *Plan {
	return s.plan
}

// Capacity returns the per-floor people ceiling.
func (s *Store) Capacity() int {
	return s.capacity
}

// Scorer returns the scorer used for recomputation.
func (s *Store) Scorer() *analytics.Scorer {
	return s.scorer
}

// Assign places a group on a floor. A duplicate placement or a capacity
// overflow returns a Violation and leaves the plan unchanged. Unknown floor
// or group IDs are caller bugs and return an error.
func (s *Store) Assign(gid group.ID, fid ID) (*Violation, error) {
	g, pos, err := s.resolve(gid, fid)
	if err != nil {
		return nil, err
	}
	if v := s.check(s.plan, g, pos); v != nil {
		s.logger.Debug("assignment rejected",
			slog.String("kind", string(v.Kind)), slog.String("group", g.Name), slog.Int("floor", int(fid)))
		return v, nil
	}

	next := s.plan.clone()
	next.Floors[pos] = s.withGroup(next.Floors[pos], g)
	s.commit(next)
	s.logger.Debug("group assigned", slog.String("group", g.Name), slog.Int("floor", int(fid)))
	return nil, nil
}

// Move places a group on a floor, taking it off any floor that holds it.
// The move is all or nothing: a violation leaves the plan unchanged.
func (s *Store) Move(gid group.ID, fid ID) (*Violation, error) {
	g, pos, err := s.resolve(gid, fid)
	if err != nil {
		return nil, err
	}
	from, placed := s.plan.Holder(gid)
	if !placed {
		return s.Assign(gid, fid)
	}
	if from == fid {
		return s.check(s.plan, g, pos), nil
	}

	next := s.plan.clone()
	fromPos := next.position(from)
	next.Floors[fromPos] = s.withoutGroup(next.Floors[fromPos], gid)
	if v := s.check(next, g, pos); v != nil {
		return v, nil
	}
	next.Floors[pos] = s.withGroup(next.Floors[pos], g)
	s.commit(next)
	s.logger.Debug("group moved", slog.String("group", g.Name),
		slog.Int("from", int(from)), slog.Int("to", int(fid)))
	return nil, nil
}

// Remove takes a group off whichever floor holds it. It reports whether
// anything changed; removing an unplaced group is a no-op.
func (s *Store) Remove(gid group.ID) bool {
	fid, ok := s.plan.Holder(gid)
	if !ok {
		return false
	}
	next := s.plan.clone()
	pos := next.position(fid)
	next.Floors[pos] = s.withoutGroup(next.Floors[pos], gid)
	s.commit(next)
	s.logger.Debug("group removed", slog.Int("group_id", int(gid)), slog.Int("floor", int(fid)))
	return true
}

// Clear removes every group from a floor and resets its score.
func (s *Store) Clear(fid ID) error {
	pos := s.plan.position(fid)
	if pos < 0 {
		return fmt.Errorf("clear floor %d: %w", fid, ErrUnknownFloor)
	}
	if len(s.plan.Floors[pos].Groups) == 0 {
		return nil
	}
	next := s.plan.clone()
	f := next.Floors[pos]
	f.Groups = []Placement{}
	f.PeopleCount = 0
	f.CollaborationScore = 0
	next.Floors[pos] = f
	s.commit(next)
	s.logger.Debug("floor cleared", slog.Int("floor", int(fid)))
	return nil
}

// Reorder moves the floor at display position from to position to,
// shifting the floors in between. Scores are unaffected.
func (s *Store) Reorder(from, to int) error {
	n := len(s.plan.Floors)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("reorder %d -> %d of %d floors: %w", from, to, n, ErrBadIndex)
	}
	if from == to {
		return nil
	}
	next := s.plan.clone()
	moved := next.Floors[from]
	if from < to {
		copy(next.Floors[from:to], next.Floors[from+1:to+1])
	} else {
		copy(next.Floors[to+1:from+1], next.Floors[to:from])
	}
	next.Floors[to] = moved
	s.commit(next)
	return nil
}

// Undo restores the previous plan. It reports whether there was one.
func (s *Store) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, s.plan)
	s.plan = prev
	return true
}

// Redo reapplies the plan most recently undone.
func (s *Store) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, s.plan)
	s.plan = next
	return true
}

// FloorPairScore compares two floors of the current plan.
func (s *Store) FloorPairScore(a, b ID) (float64, error) {
	fa, ok := s.plan.Floor(a)
	if !ok {
		return 0, fmt.Errorf("floor pair score: floor %d: %w", a, ErrUnknownFloor)
	}
	fb, ok := s.plan.Floor(b)
	if !ok {
		return 0, fmt.Errorf("floor pair score: floor %d: %w", b, ErrUnknownFloor)
	}
	return s.scorer.FloorPairScore(s.groupsOf(fa), s.groupsOf(fb)), nil
}

func (s *Store) resolve(gid group.ID, fid ID) (group.Group, int, error) {
	pos := s.plan.position(fid)
	if pos < 0 {
		return group.Group{}, -1, fmt.Errorf("floor %d: %w", fid, ErrUnknownFloor)
	}
	g, ok := s.registry.Get(gid)
	if !ok {
		return group.Group{}, -1, fmt.Errorf("group %d: %w", gid, ErrUnknownGroup)
	}
	return g, pos, nil
}

// check applies the placement rules for g on the floor at pos of plan.
func (s *Store) check(plan *Plan, g group.Group, pos int) *Violation {
	target := plan.Floors[pos]
	v := &Violation{
		GroupID:     g.ID,
		GroupName:   g.Name,
		FloorID:     target.ID,
		FloorName:   target.Name,
		PeopleCount: g.PeopleCount,
		FloorPeople: target.PeopleCount,
		Capacity:    plan.Capacity,
	}
	if holder, ok := plan.Holder(g.ID); ok {
		held, _ := plan.Floor(holder)
		v.Kind = ViolationDuplicate
		v.HeldBy = holder
		v.HeldByName = held.Name
		return v
	}
	if target.PeopleCount+g.PeopleCount > plan.Capacity {
		v.Kind = ViolationCapacity
		return v
	}
	return nil
}

func (s *Store) withGroup(f Floor, g group.Group) Floor {
	groups := make([]Placement, len(f.Groups), len(f.Groups)+1)
	copy(groups, f.Groups)
	groups = append(groups, Placement{
		GroupID:     g.ID,
		Name:        g.Name,
		PeopleCount: g.PeopleCount,
		AvgScore:    g.AvgScore,
	})
	f.Groups = groups
	return s.rescore(f)
}

func (s *Store) withoutGroup(f Floor, gid group.ID) Floor {
	groups := make([]Placement, 0, len(f.Groups))
	for _, p := range f.Groups {
		if p.GroupID != gid {
			groups = append(groups, p)
		}
	}
	f.Groups = groups
	return s.rescore(f)
}

// rescore recomputes the floor's people count, floor score and every
// placement's per-group score. f.Groups must be a fresh slice.
func (s *Store) rescore(f Floor) Floor {
	groups := s.groupsOf(f)
	perGroup, score := s.scorer.FloorBreakdown(groups)
	f.PeopleCount = 0
	for i := range f.Groups {
		f.Groups[i].CollaborationScore = perGroup[i]
		f.PeopleCount += f.Groups[i].PeopleCount
	}
	f.CollaborationScore = score
	return f
}

func (s *Store) groupsOf(f Floor) []group.Group {
	out := make([]group.Group, 0, len(f.Groups))
	for _, p := range f.Groups {
		g, ok := s.registry.Get(p.GroupID)
		if !ok {
			g = group.Group{ID: p.GroupID, Name: p.Name, PeopleCount: p.PeopleCount}
		}
		out = append(out, g)
	}
	return out
}

func (s *Store) commit(next *Plan) {
	if s.history > 0 {
		s.undo = append(s.undo, s.plan)
		if len(s.undo) > s.history {
			s.undo = s.undo[len(s.undo)-s.history:]
		}
	}
	s.redo = nil
	s.plan = next
}
