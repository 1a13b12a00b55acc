package floor

import (
	"fmt"

	"github.com/ChicagoDave/floorplanner/pkg/group"
)

// Matrix is the floor-pair score grid of a plan, in display order.
type Matrix struct {
	Floors []ID        `json:"floors"`
	Names  []string    `json:"names"`
	Scores [][]float64 `json:"scores"`
}

// Comparison lists two floors side by side with their pair score.
type Comparison struct {
	First  Floor   `json:"first"`
	Second Floor   `json:"second"`
	Score  float64 `json:"score"`
}

// Matrix scores every ordered pair of floors in the current plan. The
// diagonal is 0.
func (s *Store) Matrix() Matrix {
	plan := s.plan
	m := Matrix{
		Floors: make([]ID, len(plan.Floors)),
		Names:  make([]string, len(plan.Floors)),
	}
	sets := make([][]group.Group, len(plan.Floors))
	for i, f := range plan.Floors {
		m.Floors[i] = f.ID
		m.Names[i] = f.Name
		sets[i] = s.groupsOf(f)
	}
	m.Scores = s.scorer.PairMatrix(sets)
	return m
}

// Compare returns two floors of the current plan and their pair score.
func (s *Store) Compare(a, b ID) (Comparison, error) {
	score, err := s.FloorPairScore(a, b)
	if err != nil {
		return Comparison{}, fmt.Errorf("compare: %w", err)
	}
	first, _ := s.plan.Floor(a)
	second, _ := s.plan.Floor(b)
	return Comparison{First: first, Second: second, Score: score}, nil
}
