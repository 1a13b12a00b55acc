package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ChicagoDave/floorplanner/pkg/analytics"
	"github.com/ChicagoDave/floorplanner/pkg/dataset"
	"github.com/ChicagoDave/floorplanner/pkg/floor"
	"github.com/ChicagoDave/floorplanner/pkg/group"
	"github.com/ChicagoDave/floorplanner/pkg/roster"
	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

// Session is the state one planning server works on.
type Session struct {
	Store   *floor.Store
	Top     *analytics.Index
	Seating *roster.Seating
	// Report is the load report served by /api/validation.
	Report *validation.Report
}

// Server is the HTTP API over a single planning session.
type Server struct {
	mu      sync.Mutex
	session Session
	port    int
	logger  *slog.Logger
}

// New creates a server for the given session.
func New(session Session, port int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if session.Seating == nil {
		session.Seating = roster.New(nil)
	}
	if session.Report == nil {
		session.Report = validation.NewReport()
	}
	return &Server{
		session: session,
		port:    port,
		logger:  logger.With(slog.String("component", "server")),
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/groups", s.handleGroups)
	mux.HandleFunc("GET /api/groups/{id}/top", s.handleTop)
	mux.HandleFunc("POST /api/groups/{id}/move", s.handleMove)
	mux.HandleFunc("DELETE /api/groups/{id}/placement", s.handleRemove)
	mux.HandleFunc("GET /api/floors", s.handleFloors)
	mux.HandleFunc("POST /api/floors/{id}/groups", s.handleAssign)
	mux.HandleFunc("DELETE /api/floors/{id}/groups", s.handleClear)
	mux.HandleFunc("GET /api/floors/{id}/employees", s.handleFloorEmployees)
	mux.HandleFunc("POST /api/floors/reorder", s.handleReorder)
	mux.HandleFunc("GET /api/floors/{a}/compare/{b}", s.handleCompare)
	mux.HandleFunc("GET /api/matrix", s.handleMatrix)
	mux.HandleFunc("POST /api/undo", s.handleUndo)
	mux.HandleFunc("POST /api/redo", s.handleRedo)
	mux.HandleFunc("GET /api/plan", s.handlePlan)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/employees", s.handleEmployees)
	mux.HandleFunc("POST /api/employees", s.handleSeat)
	mux.HandleFunc("DELETE /api/employees/{name}", s.handleUnseat)

	return s.logRequests(mux)
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("floorplanner server starting", slog.String("addr", "http://localhost"+addr))

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleGroups(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan := s.session.Store.Snapshot()
	type groupView struct {
		group.Group
		Floor floor.ID `json:"floor,omitempty"`
	}
	all := s.session.Store.Scorer().Registry().All()
	out := make([]groupView, len(all))
	for i, g := range all {
		fid, _ := plan.Holder(g.ID)
		out[i] = groupView{Group: g, Floor: fid}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, known := s.session.Store.Scorer().Registry().Get(group.ID(id)); !known {
		writeError(w, http.StatusNotFound, fmt.Sprintf("group %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"group":         id,
		"collaborators": nonNil(s.session.Top.Top(group.ID(id))),
	})
}

func (s *Server) handleFloors(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.session.Store.Snapshot())
}

type assignRequest struct {
	Group int `json:"group"`
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	fid, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req assignRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.session.Store.Assign(group.ID(req.Group), floor.ID(fid))
	s.writePlacement(w, v, err)
}

type moveRequest struct {
	Floor int `json:"floor"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	gid, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req moveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.session.Store.Move(group.ID(gid), floor.ID(req.Floor))
	s.writePlacement(w, v, err)
}

// writePlacement answers an assign or move: 409 with the violation when the
// store rejected it, the new plan otherwise. Callers hold s.mu.
func (s *Server) writePlacement(w http.ResponseWriter, v *floor.Violation, err error) {
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if v != nil {
		s.logger.Warn("placement rejected", slog.String("kind", string(v.Kind)), slog.String("detail", v.Message()))
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     v.Message(),
			"violation": v,
		})
		return
	}
	writeJSON(w, http.StatusOK, s.session.Store.Snapshot())
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	gid, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, known := s.session.Store.Scorer().Registry().Get(group.ID(gid)); !known {
		writeError(w, http.StatusNotFound, fmt.Sprintf("group %d not found", gid))
		return
	}
	removed := s.session.Store.Remove(group.ID(gid))
	writeJSON(w, http.StatusOK, map[string]any{
		"removed": removed,
		"plan":    s.session.Store.Snapshot(),
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	fid, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Store.Clear(floor.ID(fid)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Store.Snapshot())
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Store.Reorder(req.From, req.To); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Store.Snapshot())
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	a, ok := pathInt(w, r, "a")
	if !ok {
		return
	}
	b, ok := pathInt(w, r, "b")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.session.Store.Compare(floor.ID(a), floor.ID(b))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleMatrix(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.session.Store.Matrix())
}

func (s *Server) handleUndo(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.session.Store.Undo()
	writeJSON(w, http.StatusOK, map[string]any{
		"changed": changed,
		"plan":    s.session.Store.Snapshot(),
	})
}

func (s *Server) handleRedo(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.session.Store.Redo()
	writeJSON(w, http.StatusOK, map[string]any{
		"changed": changed,
		"plan":    s.session.Store.Snapshot(),
	})
}

func (s *Server) handlePlan(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out, err := dataset.FromPlan(s.session.Store.Snapshot()).Marshal()
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(out)
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Report)
}

func (s *Server) handleEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"employees": nonNil(s.session.Seating.Filter(q.Get("q"), q.Get("team"))),
		"teams":     nonNil(s.session.Seating.Teams()),
	})
}

func (s *Server) handleFloorEmployees(w http.ResponseWriter, r *http.Request) {
	fid, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, known := s.session.Store.Snapshot().Floor(floor.ID(fid)); !known {
		writeError(w, http.StatusNotFound, fmt.Sprintf("floor %d not found", fid))
		return
	}
	writeJSON(w, http.StatusOK, nonNil(s.session.Seating.OnFloor(floor.ID(fid))))
}

type seatRequest struct {
	Name  string `json:"name"`
	Team  string `json:"team"`
	Floor int    `json:"floor"`
}

func (s *Server) handleSeat(w http.ResponseWriter, r *http.Request) {
	var req seatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, known := s.session.Store.Snapshot().Floor(floor.ID(req.Floor)); !known {
		writeError(w, http.StatusNotFound, fmt.Sprintf("floor %d not found", req.Floor))
		return
	}
	writeJSON(w, http.StatusOK, s.session.Seating.Seat(req.Name, req.Team, floor.ID(req.Floor)))
}

func (s *Server) handleUnseat(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Seating.Unseat(name) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s is not seated", name))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathInt(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	n, err := strconv.Atoi(r.PathValue(key))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be an integer", key))
		return 0, false
	}
	return n, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// writeStoreError maps store errors to HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, floor.ErrUnknownFloor), errors.Is(err, floor.ErrUnknownGroup):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, floor.ErrBadIndex):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
