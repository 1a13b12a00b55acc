package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChicagoDave/floorplanner/pkg/analytics"
	"github.com/ChicagoDave/floorplanner/pkg/floor"
	"github.com/ChicagoDave/floorplanner/pkg/group"
	"github.com/ChicagoDave/floorplanner/pkg/matrix"
	"github.com/ChicagoDave/floorplanner/pkg/roster"
	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg, err := group.NewRegistry([]group.Group{
		{Name: "A", PeopleCount: 100},
		{Name: "B", PeopleCount: 200},
		{Name: "C", PeopleCount: 300},
	})
	require.NoError(t, err)
	tbl := matrix.FromValues([]string{"A", "B", "C"}, [][]float64{
		{0, 6, 8},
		{6, 0, 5},
		{8, 5, 0},
	})
	resolved, report := analytics.Resolve(reg, tbl, 5, logger)
	require.True(t, report.Valid)

	store := floor.NewStore(resolved.Scorer, 2, floor.WithCapacity(500), floor.WithLogger(logger))
	srv := New(Session{
		Store: store,
		Top:   resolved.Top,
		Seating: roster.New([]roster.Employee{
			{Name: "Alice", Team: "Sales", Desk: 1, Floor: 1},
			{Name: "Bob", Team: "Dev"},
		}),
		Report: validation.NewReport(),
	}, 0, logger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestGroups(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, ts, http.MethodGet, "/api/groups", "")
	require.Equal(t, http.StatusOK, status)
	groups := decode[[]map[string]any](t, body)
	require.Len(t, groups, 3)
	assert.Equal(t, "A", groups[0]["name"])
	assert.NotContains(t, groups[0], "floor", "unplaced groups have no floor")

	do(t, ts, http.MethodPost, "/api/floors/2/groups", `{"group":1}`)
	_, body = do(t, ts, http.MethodGet, "/api/groups", "")
	groups = decode[[]map[string]any](t, body)
	assert.Equal(t, 2.0, groups[0]["floor"])
}

func TestTop(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, ts, http.MethodGet, "/api/groups/1/top", "")
	require.Equal(t, http.StatusOK, status)
	resp := decode[struct {
		Collaborators []analytics.Collaborator `json:"collaborators"`
	}](t, body)
	require.Len(t, resp.Collaborators, 2)
	assert.Equal(t, "C", resp.Collaborators[0].Name)
	assert.Equal(t, 8.0, resp.Collaborators[0].Score)
	assert.Equal(t, "B", resp.Collaborators[1].Name)

	status, _ = do(t, ts, http.MethodGet, "/api/groups/99/top", "")
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = do(t, ts, http.MethodGet, "/api/groups/x/top", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAssignAndViolations(t *testing.T) {
	ts := newTestServer(t)

	status, _ := do(t, ts, http.MethodPost, "/api/floors/1/groups", `{"group":1}`)
	require.Equal(t, http.StatusOK, status)
	status, body := do(t, ts, http.MethodPost, "/api/floors/1/groups", `{"group":2}`)
	require.Equal(t, http.StatusOK, status)

	plan := decode[floor.Plan](t, body)
	assert.Equal(t, 300, plan.Floors[0].PeopleCount)
	assert.Equal(t, 6.0, plan.Floors[0].CollaborationScore)

	status, body = do(t, ts, http.MethodPost, "/api/floors/1/groups", `{"group":3}`)
	require.Equal(t, http.StatusConflict, status)
	conflict := decode[struct {
		Error     string          `json:"error"`
		Violation floor.Violation `json:"violation"`
	}](t, body)
	assert.Equal(t, floor.ViolationCapacity, conflict.Violation.Kind)
	assert.Contains(t, conflict.Error, "exceeds capacity 500")

	status, body = do(t, ts, http.MethodPost, "/api/floors/1/groups", `{"group":1}`)
	require.Equal(t, http.StatusConflict, status)
	conflict = decode[struct {
		Error     string          `json:"error"`
		Violation floor.Violation `json:"violation"`
	}](t, body)
	assert.Equal(t, floor.ViolationDuplicate, conflict.Violation.Kind)

	// A group on another floor is a duplicate too; assign never moves.
	status, body = do(t, ts, http.MethodPost, "/api/floors/2/groups", `{"group":1}`)
	require.Equal(t, http.StatusConflict, status)
	conflict = decode[struct {
		Error     string          `json:"error"`
		Violation floor.Violation `json:"violation"`
	}](t, body)
	assert.Equal(t, floor.ViolationDuplicate, conflict.Violation.Kind)
	assert.Equal(t, floor.ID(1), conflict.Violation.HeldBy)
	assert.Equal(t, "A is already placed on Floor 1", conflict.Error)

	_, body = do(t, ts, http.MethodGet, "/api/floors", "")
	plan = decode[floor.Plan](t, body)
	assert.Equal(t, 300, plan.Floors[0].PeopleCount)
	assert.Empty(t, plan.Floors[1].Groups)
}

func TestMoveGroup(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, http.MethodPost, "/api/floors/1/groups", `{"group":1}`)
	do(t, ts, http.MethodPost, "/api/floors/1/groups", `{"group":2}`)

	status, body := do(t, ts, http.MethodPost, "/api/groups/1/move", `{"floor":2}`)
	require.Equal(t, http.StatusOK, status)
	plan := decode[floor.Plan](t, body)
	assert.Equal(t, 200, plan.Floors[0].PeopleCount)
	assert.Equal(t, 100, plan.Floors[1].PeopleCount)

	// Unplaced groups are simply assigned.
	status, body = do(t, ts, http.MethodPost, "/api/groups/3/move", `{"floor":2}`)
	require.Equal(t, http.StatusOK, status)
	plan = decode[floor.Plan](t, body)
	assert.Equal(t, 400, plan.Floors[1].PeopleCount)

	// B (200) cannot join A and C (400) without exceeding 500.
	status, body = do(t, ts, http.MethodPost, "/api/groups/2/move", `{"floor":2}`)
	require.Equal(t, http.StatusConflict, status)
	conflict := decode[struct {
		Violation floor.Violation `json:"violation"`
	}](t, body)
	assert.Equal(t, floor.ViolationCapacity, conflict.Violation.Kind)

	status, _ = do(t, ts, http.MethodPost, "/api/groups/3/move", `{"floor":9}`)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = do(t, ts, http.MethodPost, "/api/groups/3/move", `{floor`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAssignBadRequests(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown floor", "/api/floors/9/groups", `{"group":1}`, http.StatusNotFound},
		{"unknown group", "/api/floors/1/groups", `{"group":42}`, http.StatusNotFound},
		{"bad floor id", "/api/floors/one/groups", `{"group":1}`, http.StatusBadRequest},
		{"bad body", "/api/floors/1/groups", `{group`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := do(t, ts, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestRemoveClearUndoRedo(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, http.MethodPost, "/api/floors/1/groups", `{"group":1}`)
	do(t, ts, http.MethodPost, "/api/floors/1/groups", `{"group":2}`)

	status, body := do(t, ts, http.MethodDelete, "/api/groups/2/placement", "")
	require.Equal(t, http.StatusOK, status)
	removed := decode[struct {
		Removed bool       `json:"removed"`
		Plan    floor.Plan `json:"plan"`
	}](t, body)
	assert.True(t, removed.Removed)
	assert.Equal(t, 100, removed.Plan.Floors[0].PeopleCount)
	assert.Equal(t, 0.0, removed.Plan.Floors[0].CollaborationScore)

	status, _ = do(t, ts, http.MethodDelete, "/api/groups/77/placement", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = do(t, ts, http.MethodDelete, "/api/floors/1/groups", "")
	require.Equal(t, http.StatusOK, status)
	plan := decode[floor.Plan](t, body)
	assert.Empty(t, plan.Floors[0].Groups)

	_, body = do(t, ts, http.MethodPost, "/api/undo", "")
	undone := decode[struct {
		Changed bool       `json:"changed"`
		Plan    floor.Plan `json:"plan"`
	}](t, body)
	assert.True(t, undone.Changed)
	assert.Len(t, undone.Plan.Floors[0].Groups, 1)

	_, body = do(t, ts, http.MethodPost, "/api/redo", "")
	redone := decode[struct {
		Changed bool       `json:"changed"`
		Plan    floor.Plan `json:"plan"`
	}](t, body)
	assert.True(t, redone.Changed)
	assert.Empty(t, redone.Plan.Floors[0].Groups)

	_, body = do(t, ts, http.MethodPost, "/api/redo", "")
	redone = decode[struct {
		Changed bool       `json:"changed"`
		Plan    floor.Plan `json:"plan"`
	}](t, body)
	assert.False(t, redone.Changed)
}

func TestReorder(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, ts, http.MethodPost, "/api/floors/reorder", `{"from":0,"to":1}`)
	require.Equal(t, http.StatusOK, status)
	plan := decode[floor.Plan](t, body)
	assert.Equal(t, floor.ID(2), plan.Floors[0].ID)
	assert.Equal(t, floor.ID(1), plan.Floors[1].ID)

	status, _ = do(t, ts, http.MethodPost, "/api/floors/reorder", `{"from":0,"to":5}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCompareAndMatrix(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, http.MethodPost, "/api/floors/1/groups", `{"group":1}`)
	do(t, ts, http.MethodPost, "/api/floors/2/groups", `{"group":2}`)

	status, body := do(t, ts, http.MethodGet, "/api/floors/1/compare/2", "")
	require.Equal(t, http.StatusOK, status)
	c := decode[floor.Comparison](t, body)
	assert.Equal(t, 6.0, c.Score)
	assert.Equal(t, "Floor 1", c.First.Name)

	status, _ = do(t, ts, http.MethodGet, "/api/floors/1/compare/8", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = do(t, ts, http.MethodGet, "/api/matrix", "")
	require.Equal(t, http.StatusOK, status)
	m := decode[floor.Matrix](t, body)
	assert.Equal(t, [][]float64{{0, 6}, {6, 0}}, m.Scores)
}

func TestPlanExport(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, http.MethodPost, "/api/floors/1/groups", `{"group":3}`)

	status, body := do(t, ts, http.MethodGet, "/api/plan", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "- C")
}

func TestValidation(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, ts, http.MethodGet, "/api/validation", "")
	require.Equal(t, http.StatusOK, status)
	report := decode[validation.Report](t, body)
	assert.True(t, report.Valid)
	assert.Equal(t, "0 errors, 0 warnings, 0 info", report.Summary)
}

func TestEmployees(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, ts, http.MethodGet, "/api/employees?team=sales", "")
	require.Equal(t, http.StatusOK, status)
	list := decode[struct {
		Employees []roster.Employee `json:"employees"`
		Teams     []string          `json:"teams"`
	}](t, body)
	require.Len(t, list.Employees, 1)
	assert.Equal(t, "Alice", list.Employees[0].Name)
	assert.Equal(t, []string{"dev", "sales"}, list.Teams)

	status, body = do(t, ts, http.MethodPost, "/api/employees", `{"name":"Bob","floor":1}`)
	require.Equal(t, http.StatusOK, status)
	seated := decode[roster.Employee](t, body)
	assert.Equal(t, 2, seated.Desk)
	assert.Equal(t, "dev", seated.Team)

	_, body = do(t, ts, http.MethodGet, "/api/floors/1/employees", "")
	onFloor := decode[[]roster.Employee](t, body)
	require.Len(t, onFloor, 2)
	assert.Equal(t, "Alice", onFloor[0].Name)

	status, _ = do(t, ts, http.MethodPost, "/api/employees", `{"name":"Eve","floor":7}`)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = do(t, ts, http.MethodPost, "/api/employees", `{"floor":1}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, ts, http.MethodDelete, "/api/employees/Bob", "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, ts, http.MethodDelete, "/api/employees/Bob", "")
	assert.Equal(t, http.StatusNotFound, status)

	_, body = do(t, ts, http.MethodGet, "/api/floors/2/employees", "")
	assert.JSONEq(t, "[]", string(body))
}
