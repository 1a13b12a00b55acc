// Package roster seats individual employees at numbered desks on floors.
package roster

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ChicagoDave/floorplanner/pkg/floor"
	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

// AllTeams is the team filter value matching every team.
const AllTeams = "all"

// Employee is a person seated at a desk. Desk and Floor are 0 when unseated.
type Employee struct {
	Name  string   `json:"name"`
	Team  string   `json:"team"`
	Desk  int      `json:"desk"`
	Floor floor.ID `json:"floor"`
}

// Seated reports whether the employee has a desk.
func (e Employee) Seated() bool {
	return e.Floor != 0 && e.Desk > 0
}

// Seating is the employee list. Mutations replace the backing slice, so
// slices returned earlier are never modified.
type Seating struct {
	employees []Employee
}

// New builds a seating from employees in the given order. Team names are
// lower-cased.
func New(employees []Employee) *Seating {
	out := make([]Employee, len(employees))
	for i, e := range employees {
		e.Name = strings.TrimSpace(e.Name)
		e.Team = normalizeTeam(e.Team)
		out[i] = e
	}
	return &Seating{employees: out}
}

// FromRecords builds a seating from a parsed employee table with columns
// employee_name, team, desk and floor. Unparseable desk or floor cells leave
// the employee unseated and are reported.
func FromRecords(header []string, rows [][]string) (*Seating, *validation.Report) {
	report := validation.NewReport()
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	get := func(row []string, col string) string {
		if i, ok := cols[col]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var employees []Employee
	for i, row := range rows {
		line := i + 2
		e := Employee{Name: get(row, "employee_name"), Team: get(row, "team")}
		if e.Name == "" {
			report.AddWarning(validation.Result{
				Level:    validation.LevelEmployees,
				Message:  "employee row has no name; skipped",
				Location: fmt.Sprintf("row %d", line),
			})
			continue
		}
		desk, deskErr := strconv.Atoi(get(row, "desk"))
		fl, floorErr := strconv.Atoi(get(row, "floor"))
		if deskErr != nil || floorErr != nil || desk < 1 || fl < 1 {
			report.AddWarning(validation.Result{
				Level:       validation.LevelEmployees,
				Message:     fmt.Sprintf("%s has no valid desk/floor; left unseated", e.Name),
				Location:    fmt.Sprintf("row %d", line),
				ActualValue: get(row, "desk") + "/" + get(row, "floor"),
			})
		} else {
			e.Desk, e.Floor = desk, floor.ID(fl)
		}
		employees = append(employees, e)
	}
	return New(employees), report
}

// All returns every employee in list order.
func (s *Seating) All() []Employee {
	return s.employees
}

// Seat places the named employee on a floor at the next free desk number:
// one past the highest desk in use there, or 1 on an empty floor. An
// employee already on the list is moved; otherwise a new entry is added.
func (s *Seating) Seat(name, team string, fid floor.ID) Employee {
	name = strings.TrimSpace(name)
	next := make([]Employee, 0, len(s.employees)+1)
	var seated Employee
	found := false
	for _, e := range s.employees {
		if e.Name == name && !found {
			found = true
			seated = e
			continue
		}
		next = append(next, e)
	}
	if !found {
		seated = Employee{Name: name, Team: normalizeTeam(team)}
	}
	seated.Floor = fid
	seated.Desk = nextDesk(next, fid)
	s.employees = append(next, seated)
	return seated
}

// Unseat clears the named employee's desk. It reports whether the employee
// was seated.
func (s *Seating) Unseat(name string) bool {
	for i, e := range s.employees {
		if e.Name != name || !e.Seated() {
			continue
		}
		next := make([]Employee, len(s.employees))
		copy(next, s.employees)
		next[i].Desk, next[i].Floor = 0, 0
		s.employees = next
		return true
	}
	return false
}

// OnFloor lists the employees on a floor ordered by desk.
func (s *Seating) OnFloor(fid floor.ID) []Employee {
	var out []Employee
	for _, e := range s.employees {
		if e.Floor == fid && e.Seated() {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Desk < out[j].Desk })
	return out
}

// Filter returns employees whose name contains query, ignoring case, and
// whose team matches. An empty team or AllTeams matches every team.
func (s *Seating) Filter(query, team string) []Employee {
	query = strings.ToLower(strings.TrimSpace(query))
	team = normalizeTeam(team)
	var out []Employee
	for _, e := range s.employees {
		if !strings.Contains(strings.ToLower(e.Name), query) {
			continue
		}
		if team != "" && team != AllTeams && e.Team != team {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Teams returns the distinct team names, sorted.
func (s *Seating) Teams() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range s.employees {
		if e.Team != "" && !seen[e.Team] {
			seen[e.Team] = true
			out = append(out, e.Team)
		}
	}
	sort.Strings(out)
	return out
}

func nextDesk(employees []Employee, fid floor.ID) int {
	highest := 0
	for _, e := range employees {
		if e.Floor == fid && e.Desk > highest {
			highest = e.Desk
		}
	}
	return highest + 1
}

func normalizeTeam(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
