package analytics

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/ChicagoDave/floorplanner/pkg/group"
	"github.com/ChicagoDave/floorplanner/pkg/matrix"
	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

// DefaultTopLimit is the number of collaborators kept per group.
const DefaultTopLimit = 5

// Scorer derives collaboration scores from the static matrix and registry.
// It holds no mutable state; every method is a pure function of its inputs.
type Scorer struct {
	registry *group.Registry
	table    *matrix.Table
	// rows maps a group ID to its matrix row; -1 when the matrix has no row.
	rows   []int
	logger *slog.Logger
}

// Collaborator is one entry of a ranked collaborator list.
type Collaborator struct {
	GroupID group.ID `json:"group_id"`
	Name    string   `json:"name"`
	Score   float64  `json:"score"`
}

// NewScorer binds registry groups to matrix rows by name. Groups absent from
// the matrix score 0 against everyone and are reported as warnings; matrix
// rows with no registry group are reported as info.
func NewScorer(reg *group.Registry, tbl *matrix.Table, logger *slog.Logger) (*Scorer, *validation.Report) {
	if logger == nil {
		logger = slog.Default()
	}
	report := validation.NewReport()
	s := &Scorer{
		registry: reg,
		table:    tbl,
		rows:     make([]int, reg.Len()+1),
		logger:   logger.With(slog.String("component", "scorer")),
	}
	s.rows[0] = -1
	for _, g := range reg.All() {
		row, ok := tbl.Index(g.Name)
		if !ok {
			row = -1
			report.AddWarning(validation.Result{
				Level:       validation.LevelMatrix,
				Message:     fmt.Sprintf("group %q has no matrix row; it scores 0 against every group", g.Name),
				Location:    g.Name,
				Substituted: 0,
				Suggestions: []string{"Check that group names match between the attribute table and the matrix"},
			})
		}
		s.rows[g.ID] = row
	}
	for _, name := range tbl.Names() {
		if _, ok := reg.Lookup(name); !ok {
			report.AddInfo(validation.Result{
				Level:    validation.LevelMatrix,
				Message:  fmt.Sprintf("matrix group %q has no attributes and cannot be placed", name),
				Location: name,
			})
		}
	}
	return s, report
}

// Registry returns the registry the scorer was built from.
func (s *Scorer) Registry() *group.Registry {
	return s.registry
}

func (s *Scorer) row(id group.ID) int {
	if id < 1 || int(id) >= len(s.rows) {
		s.logger.Debug("unknown group id", slog.Int("group_id", int(id)))
		return -1
	}
	return s.rows[id]
}

// PairScore returns the symmetric score max(M[a][b], M[b][a]).
// A group paired with itself, or with an unknown group, scores 0.
func (s *Scorer) PairScore(a, b group.ID) float64 {
	if a == b {
		return 0
	}
	i, j := s.row(a), s.row(b)
	if i < 0 || j < 0 {
		return 0
	}
	return math.Max(s.table.Score(i, j), s.table.Score(j, i))
}

// GroupWeightedScore is the people-weighted mean of target's pair scores
// against every peer other than itself, rounded to the nearest integer.
// It is 0 when there are no other peers or their total weight is 0.
func (s *Scorer) GroupWeightedScore(target group.ID, peers []group.Group) float64 {
	var sum, weight float64
	for _, p := range peers {
		if p.ID == target {
			continue
		}
		w := float64(p.PeopleCount)
		sum += s.PairScore(target, p.ID) * w
		weight += w
	}
	if weight == 0 {
		return 0
	}
	return math.Round(sum / weight)
}

// FloorBreakdown returns each group's weighted score against the rest of
// the floor, in input order, and the floor score: the people-weighted mean
// of those per-group scores, rounded. Floors with fewer than two groups
// score 0 throughout.
func (s *Scorer) FloorBreakdown(groups []group.Group) ([]float64, float64) {
	perGroup := make([]float64, len(groups))
	if len(groups) < 2 {
		return perGroup, 0
	}
	var sum, weight float64
	for i, g := range groups {
		perGroup[i] = s.GroupWeightedScore(g.ID, groups)
		w := float64(g.PeopleCount)
		sum += perGroup[i] * w
		weight += w
	}
	if weight == 0 {
		return perGroup, 0
	}
	return perGroup, math.Round(sum / weight)
}

// FloorScore returns the floor score of FloorBreakdown.
func (s *Scorer) FloorScore(groups []group.Group) float64 {
	_, score := s.FloorBreakdown(groups)
	return score
}

// TopCollaborators ranks every group in all other than target by pair score,
// highest first. Ties keep the order of all. A limit <= 0 means
// DefaultTopLimit.
func (s *Scorer) TopCollaborators(target group.ID, all []group.Group, limit int) []Collaborator {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	ranked := make([]Collaborator, 0, len(all))
	for _, g := range all {
		if g.ID == target {
			continue
		}
		ranked = append(ranked, Collaborator{
			GroupID: g.ID,
			Name:    g.Name,
			Score:   s.PairScore(target, g.ID),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// FloorPairScore compares two floors: every cross pair contributes its pair
// score weighted by the combined people count of both groups. The result is
// rounded to two decimals, and is 0 when either floor is empty or the total
// weight is 0.
func (s *Scorer) FloorPairScore(a, b []group.Group) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var sum, weight float64
	for _, x := range a {
		for _, y := range b {
			w := float64(x.PeopleCount + y.PeopleCount)
			sum += s.PairScore(x.ID, y.ID) * w
			weight += w
		}
	}
	if weight == 0 {
		return 0
	}
	return round2(sum / weight)
}

// PairMatrix returns FloorPairScore for every ordered pair of floors.
// The diagonal is 0.
func (s *Scorer) PairMatrix(floors [][]group.Group) [][]float64 {
	out := make([][]float64, len(floors))
	for i := range floors {
		out[i] = make([]float64, len(floors))
		for j := range floors {
			if i == j {
				continue
			}
			out[i][j] = s.FloorPairScore(floors[i], floors[j])
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
