package main

import (
	"fmt"
	"strings"

	"github.com/ChicagoDave/floorplanner/pkg/analytics"
	"github.com/ChicagoDave/floorplanner/pkg/floor"
	"github.com/ChicagoDave/floorplanner/pkg/roster"
	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(e)
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			printResult(w)
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(res validation.Result) {
	fmt.Printf("  [%s] %s\n", res.Level, res.Message)
	if res.Location != "" {
		fmt.Printf("    -> %s = %v\n", res.Location, res.ActualValue)
	}
	if res.Substituted != nil {
		fmt.Printf("    using: %v\n", res.Substituted)
	}
	for _, s := range res.Suggestions {
		fmt.Printf("    * %s\n", s)
	}
}

func printTop(name string, top []analytics.Collaborator) {
	fmt.Printf("%s\n", name)
	if len(top) == 0 {
		fmt.Println("  (no collaborators)")
		return
	}
	for i, c := range top {
		fmt.Printf("  %d. %-24s %8.2f\n", i+1, c.Name, c.Score)
	}
}

func printFloors(plan *floor.Plan, seating *roster.Seating) {
	fmt.Printf("%-20s %8s %8s  %s\n", "Floor", "People", "Score", "Groups")
	fmt.Printf("%-20s %8s %8s  %s\n", "--------------------", "--------", "--------", "------")
	for _, f := range plan.Floors {
		names := make([]string, len(f.Groups))
		for i, g := range f.Groups {
			names[i] = fmt.Sprintf("%s (%d, %.0f)", g.Name, g.PeopleCount, g.CollaborationScore)
		}
		fmt.Printf("%-20s %8s %8.0f  %s\n", f.Name,
			fmt.Sprintf("%d/%d", f.PeopleCount, plan.Capacity), f.CollaborationScore, strings.Join(names, ", "))
		if seated := seating.OnFloor(f.ID); len(seated) > 0 {
			fmt.Printf("%-20s %d employees seated\n", "", len(seated))
		}
	}
	fmt.Printf("\n%d groups placed\n", plan.PlacedCount())
}

func printViolations(vs []*floor.Violation) {
	if len(vs) == 0 {
		return
	}
	fmt.Printf("\nREJECTED (%d):\n", len(vs))
	for _, v := range vs {
		fmt.Printf("  [%s] %s\n", v.Kind, v.Message())
	}
}

func printMatrix(m floor.Matrix) {
	fmt.Printf("%-16s", "")
	for _, name := range m.Names {
		fmt.Printf(" %12s", truncate(name, 12))
	}
	fmt.Println()
	for i, row := range m.Scores {
		fmt.Printf("%-16s", truncate(m.Names[i], 16))
		for j, v := range row {
			if i == j {
				fmt.Printf(" %12s", "-")
				continue
			}
			fmt.Printf(" %12.2f", v)
		}
		fmt.Println()
	}
}

func printComparison(c floor.Comparison) {
	fmt.Printf("%s vs %s: %.2f\n\n", c.First.Name, c.Second.Name, c.Score)
	rows := max(len(c.First.Groups), len(c.Second.Groups))
	fmt.Printf("%-32s %-32s\n", c.First.Name, c.Second.Name)
	for i := 0; i < rows; i++ {
		fmt.Printf("%-32s %-32s\n", placementCell(c.First.Groups, i), placementCell(c.Second.Groups, i))
	}
}

func placementCell(groups []floor.Placement, i int) string {
	if i >= len(groups) {
		return ""
	}
	return fmt.Sprintf("%s (%d)", groups[i].Name, groups[i].PeopleCount)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
