// Package matrix holds the static group-to-group collaboration table.
//
// A Table is built once from parsed cells and never changes afterwards.
// Rows and columns are addressed by an explicit index assigned from the
// header order at load time; header strings are carried only as names.
// Every lookup fails soft: bad indexes and unknown names score 0.
package matrix

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

// Table is an immutable square collaboration table.
type Table struct {
	names  []string
	index  map[string]int
	cells  [][]float64
	logger *slog.Logger
}

// Option configures table construction.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func gatherOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With(slog.String("component", "matrix"))
	return o
}

// New builds a table from group names and raw cells with the header row and
// column already stripped. cells[i][j] is the score of names[i] toward
// names[j]. Unparseable, non-finite and negative cells become 0; missing
// cells are 0; surplus rows and columns are dropped. Every substitution is
// recorded as a warning in the returned report.
func New(names []string, cells [][]string, opts ...Option) (*Table, *validation.Report) {
	o := gatherOptions(opts)
	report := validation.NewReport()
	t := newTable(names, o.logger, report)
	n := len(t.names)

	if len(cells) > n {
		report.AddWarning(validation.Result{
			Level:       validation.LevelMatrix,
			Message:     fmt.Sprintf("%d rows for %d groups; surplus rows ignored", len(cells), n),
			Location:    "rows",
			ActualValue: len(cells),
		})
	}
	if len(cells) < n {
		report.AddWarning(validation.Result{
			Level:       validation.LevelMatrix,
			Message:     fmt.Sprintf("%d rows for %d groups; missing rows score 0", len(cells), n),
			Location:    "rows",
			ActualValue: len(cells),
			Substituted: 0,
		})
	}

	for i := 0; i < n && i < len(cells); i++ {
		row := cells[i]
		if len(row) != n {
			report.AddWarning(validation.Result{
				Level:       validation.LevelMatrix,
				Message:     fmt.Sprintf("row %q has %d cells, want %d", t.names[i], len(row), n),
				Location:    fmt.Sprintf("row %d", i+1),
				ActualValue: len(row),
			})
		}
		for j := 0; j < n && j < len(row); j++ {
			v, ok := parseCell(row[j])
			if !ok {
				report.AddWarning(validation.Result{
					Level:       validation.LevelMatrix,
					Message:     fmt.Sprintf("%s -> %s: %q is not a non-negative number", t.names[i], t.names[j], row[j]),
					Location:    fmt.Sprintf("row %d, column %d", i+1, j+1),
					ActualValue: row[j],
					Substituted: 0,
				})
				continue
			}
			t.cells[i][j] = v
		}
	}
	return t, report
}

// FromValues builds a table from numeric cells. Non-finite and negative
// values become 0.
func FromValues(names []string, values [][]float64, opts ...Option) *Table {
	o := gatherOptions(opts)
	t := newTable(names, o.logger, validation.NewReport())
	for i := 0; i < len(t.names) && i < len(values); i++ {
		for j := 0; j < len(t.names) && j < len(values[i]); j++ {
			v := values[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				continue
			}
			t.cells[i][j] = v
		}
	}
	return t
}

func newTable(names []string, logger *slog.Logger, report *validation.Report) *Table {
	t := &Table{
		names:  make([]string, len(names)),
		index:  make(map[string]int, len(names)),
		logger: logger,
	}
	for i, name := range names {
		name = strings.TrimSpace(name)
		t.names[i] = name
		if _, dup := t.index[name]; dup {
			report.AddWarning(validation.Result{
				Level:    validation.LevelMatrix,
				Message:  fmt.Sprintf("group %q repeated in header; first occurrence is used", name),
				Location: fmt.Sprintf("column %d", i+1),
			})
			continue
		}
		t.index[name] = i
	}
	t.cells = make([][]float64, len(names))
	for i := range t.cells {
		t.cells[i] = make([]float64, len(names))
	}
	return t
}

// Size returns the number of rows (and columns).
func (t *Table) Size() int {
	return len(t.names)
}

// Names returns the header names in index order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Index resolves a group name to its row index.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.index[strings.TrimSpace(name)]
	return i, ok
}

// Score returns the raw directed score of row a toward column b.
// Indexes outside the table score 0. Self-scores are returned as stored.
func (t *Table) Score(a, b int) float64 {
	if a < 0 || b < 0 || a >= len(t.cells) || b >= len(t.cells) {
		t.logger.Debug("matrix index out of range",
			slog.Int("row", a), slog.Int("col", b), slog.Int("size", len(t.cells)))
		return 0
	}
	return t.cells[a][b]
}

// ScoreByName is Score addressed by group names. Unknown names score 0.
func (t *Table) ScoreByName(a, b string) float64 {
	i, ok := t.Index(a)
	if !ok {
		t.logger.Debug("unknown group in matrix lookup", slog.String("group", a))
		return 0
	}
	j, ok := t.Index(b)
	if !ok {
		t.logger.Debug("unknown group in matrix lookup", slog.String("group", b))
		return 0
	}
	return t.Score(i, j)
}

func parseCell(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
