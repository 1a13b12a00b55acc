package analytics

import (
	"log/slog"

	"github.com/ChicagoDave/floorplanner/pkg/group"
	"github.com/ChicagoDave/floorplanner/pkg/matrix"
	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

// Resolved bundles everything derived once from the static inputs.
type Resolved struct {
	Scorer      *Scorer `json:"-"`
	Top         *Index  `json:"-"`
	GroupCount  int     `json:"group_count"`
	MatrixSize  int     `json:"matrix_size"`
	TotalPeople int     `json:"total_people"`
	// MeanPairScore is the mean of PairScore over all unordered group pairs.
	MeanPairScore float64 `json:"mean_pair_score"`
}

// Resolve binds the registry to the matrix and builds the top-collaborator
// index. Name mismatches between the two inputs are reported, not fatal.
func Resolve(reg *group.Registry, tbl *matrix.Table, topLimit int, logger *slog.Logger) (*Resolved, *validation.Report) {
	scorer, report := NewScorer(reg, tbl, logger)

	all := reg.All()
	var sum float64
	pairs := 0
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			sum += scorer.PairScore(all[i].ID, all[j].ID)
			pairs++
		}
	}
	mean := 0.0
	if pairs > 0 {
		mean = round2(sum / float64(pairs))
	}

	return &Resolved{
		Scorer:        scorer,
		Top:           BuildIndex(scorer, topLimit),
		GroupCount:    reg.Len(),
		MatrixSize:    tbl.Size(),
		TotalPeople:   reg.TotalPeople(),
		MeanPairScore: mean,
	}, report
}
