package group

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

// Attribute columns recognised in a group table, keyed by normalized header.
const (
	colPeople   = "peoplecount"
	colInternal = "internaltraffic"
	colOrg      = "orgtraffic"
	colExternal = "externaltraffic"
	colAvg      = "avgscore"
	colAbove10  = "scoresabove10"
)

var attributeColumns = []string{colPeople, colInternal, colOrg, colExternal, colAvg, colAbove10}

// trafficTolerance is how far the three traffic percentages may drift from 100
// before an info finding is recorded.
const trafficTolerance = 1.0

// FromRecords builds a registry from an already-parsed attribute table.
// The first header column names the group; the remaining columns are matched
// ignoring case, spaces and underscores. Bad cells become zero and are
// reported, never returned as errors. Rows without a name and repeated names
// are skipped with a warning.
func FromRecords(header []string, rows [][]string) (*Registry, *validation.Report) {
	report := validation.NewReport()

	cols := make(map[string]int, len(attributeColumns))
	for i, h := range header {
		if i == 0 {
			continue
		}
		cols[normalizeHeader(h)] = i
	}
	for _, c := range attributeColumns {
		if _, ok := cols[c]; !ok {
			report.AddWarning(validation.Result{
				Level:       validation.LevelGroups,
				Message:     fmt.Sprintf("column %q not found; every group defaults to 0", c),
				Location:    "header",
				Substituted: 0,
			})
		}
	}

	var groups []Group
	seen := make(map[string]int)
	for i, row := range rows {
		line := i + 2
		name := ""
		if len(row) > 0 {
			name = strings.TrimSpace(row[0])
		}
		if name == "" {
			report.AddWarning(validation.Result{
				Level:    validation.LevelGroups,
				Message:  "row has no group name; skipped",
				Location: fmt.Sprintf("row %d", line),
			})
			continue
		}
		if first, dup := seen[name]; dup {
			report.AddWarning(validation.Result{
				Level:       validation.LevelGroups,
				Message:     fmt.Sprintf("group %q repeated; keeping row %d", name, first),
				Location:    fmt.Sprintf("row %d", line),
				Suggestions: []string{"Remove or rename the repeated row"},
			})
			continue
		}
		seen[name] = line

		cell := func(col string) float64 {
			idx, ok := cols[col]
			if !ok {
				return 0
			}
			raw := ""
			if idx < len(row) {
				raw = row[idx]
			}
			v, ok := parseNumber(raw)
			if !ok {
				report.AddWarning(validation.Result{
					Level:       validation.LevelGroups,
					Message:     fmt.Sprintf("%s: %s is not a number", name, header[idx]),
					Location:    fmt.Sprintf("row %d, column %q", line, header[idx]),
					ActualValue: raw,
					Substituted: 0,
				})
				return 0
			}
			return v
		}

		g := Group{
			Name:            name,
			PeopleCount:     int(math.Round(cell(colPeople))),
			InternalTraffic: cell(colInternal),
			OrgTraffic:      cell(colOrg),
			ExternalTraffic: cell(colExternal),
			AvgScore:        cell(colAvg),
			ScoresAbove10:   int(math.Round(cell(colAbove10))),
		}
		if g.PeopleCount < 0 {
			report.AddWarning(validation.Result{
				Level:       validation.LevelGroups,
				Message:     fmt.Sprintf("%s: people count cannot be negative", name),
				Location:    fmt.Sprintf("row %d", line),
				ActualValue: g.PeopleCount,
				Substituted: 0,
			})
			g.PeopleCount = 0
		}
		if total := g.TrafficTotal(); total != 0 && math.Abs(total-100) > trafficTolerance {
			report.AddInfo(validation.Result{
				Level:       validation.LevelGroups,
				Message:     fmt.Sprintf("%s: traffic percentages sum to %.1f", name, total),
				Location:    fmt.Sprintf("row %d", line),
				ActualValue: total,
			})
		}
		groups = append(groups, g)
	}

	// Names are unique and counts non-negative at this point.
	reg, err := NewRegistry(groups)
	if err != nil {
		report.AddError(validation.Result{
			Level:   validation.LevelGroups,
			Message: err.Error(),
		})
		reg, _ = NewRegistry(nil)
	}
	return reg, report
}

// parseNumber accepts plain numbers and percentages ("42%").
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
