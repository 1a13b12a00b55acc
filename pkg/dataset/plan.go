package dataset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ChicagoDave/floorplanner/pkg/floor"
	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

// PlanFile is a saved set of floor assignments.
type PlanFile struct {
	Floors []PlanFloor `yaml:"floors" json:"floors"`
}

// PlanFloor lists the group names to place on one floor, in order.
type PlanFloor struct {
	ID     int      `yaml:"id" json:"id"`
	Groups []string `yaml:"groups" json:"groups"`
}

// LoadPlan reads a plan from a YAML file.
func LoadPlan(path string) (*PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	var plan PlanFile
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan YAML: %w", err)
	}
	return &plan, nil
}

// Apply assigns the plan's groups through the store, floor by floor.
// Unknown floors and group names are reported and skipped. Rejected
// placements are returned in order; the plan keeps going after one.
func (p *PlanFile) Apply(store *floor.Store) (*validation.Report, []*floor.Violation, error) {
	report := validation.NewReport()
	registry := store.Scorer().Registry()
	var violations []*floor.Violation

	for i, pf := range p.Floors {
		if _, ok := store.Snapshot().Floor(floor.ID(pf.ID)); !ok {
			report.AddError(validation.Result{
				Level:       validation.LevelPlan,
				Message:     fmt.Sprintf("floor %d does not exist", pf.ID),
				Location:    fmt.Sprintf("floors[%d].id", i),
				ActualValue: pf.ID,
				Suggestions: []string{"Increase building.floors in the configuration"},
			})
			continue
		}
		for j, name := range pf.Groups {
			g, ok := registry.Lookup(name)
			if !ok {
				report.AddWarning(validation.Result{
					Level:       validation.LevelPlan,
					Message:     fmt.Sprintf("unknown group %q; skipped", name),
					Location:    fmt.Sprintf("floors[%d].groups[%d]", i, j),
					ActualValue: name,
				})
				continue
			}
			v, err := store.Assign(g.ID, floor.ID(pf.ID))
			if err != nil {
				return report, violations, fmt.Errorf("applying plan: %w", err)
			}
			if v != nil {
				violations = append(violations, v)
			}
		}
	}
	return report, violations, nil
}

// FromPlan captures a store's plan as a PlanFile.
func FromPlan(plan *floor.Plan) *PlanFile {
	out := &PlanFile{Floors: make([]PlanFloor, 0, len(plan.Floors))}
	for _, f := range plan.Floors {
		pf := PlanFloor{ID: int(f.ID), Groups: make([]string, 0, len(f.Groups))}
		for _, g := range f.Groups {
			pf.Groups = append(pf.Groups, g.Name)
		}
		out.Floors = append(out.Floors, pf)
	}
	return out
}

// Marshal renders the plan as YAML.
func (p *PlanFile) Marshal() ([]byte, error) {
	if p == nil {
		return nil, errors.New("dataset: nil plan")
	}
	return yaml.Marshal(p)
}
