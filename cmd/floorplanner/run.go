package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ChicagoDave/floorplanner/internal/config"
	"github.com/ChicagoDave/floorplanner/internal/server"
	"github.com/ChicagoDave/floorplanner/pkg/analytics"
	"github.com/ChicagoDave/floorplanner/pkg/dataset"
	"github.com/ChicagoDave/floorplanner/pkg/floor"
	"github.com/ChicagoDave/floorplanner/pkg/matrix"
	"github.com/ChicagoDave/floorplanner/pkg/roster"
	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

// project is everything loaded once from the configured inputs.
type project struct {
	cfg      *config.Config
	logger   *slog.Logger
	resolved *analytics.Resolved
	seating  *roster.Seating
	report   *validation.Report
}

// loadProject reads the config, the data files and derives the scorer.
func loadProject(flags *globalFlags) (*project, error) {
	cfg, err := config.LoadFromPath(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flags.logLevel != "" {
		if !config.IsValidLogLevel(flags.logLevel) {
			return nil, fmt.Errorf("%w: --log-level %q", config.ErrInvalidConfig, flags.logLevel)
		}
		cfg.Log.Level = flags.logLevel
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	groupsPath := override(flags.groups, cfg.Path(cfg.Data.Groups))
	reg, report, err := dataset.LoadGroups(groupsPath)
	if err != nil {
		return nil, fmt.Errorf("loading groups: %w", err)
	}

	matrixPath := override(flags.matrix, cfg.Path(cfg.Data.Matrix))
	tbl, matrixReport, err := dataset.LoadMatrix(matrixPath, matrix.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("loading matrix: %w", err)
	}
	report.Merge(matrixReport)

	resolved, resolveReport := analytics.Resolve(reg, tbl, cfg.Scoring.TopLimit, logger)
	report.Merge(resolveReport)

	seating := roster.New(nil)
	if path := override(flags.employees, cfg.Path(cfg.Data.Employees)); path != "" {
		loaded, employeeReport, err := dataset.LoadEmployees(path)
		if err != nil {
			return nil, fmt.Errorf("loading employees: %w", err)
		}
		seating = loaded
		report.Merge(employeeReport)
	}

	logger.Info("project loaded",
		slog.Int("groups", resolved.GroupCount),
		slog.Int("matrix_size", resolved.MatrixSize),
		slog.Int("people", resolved.TotalPeople),
		slog.String("report", report.Summary))

	return &project{
		cfg:      cfg,
		logger:   logger,
		resolved: resolved,
		seating:  seating,
		report:   report,
	}, nil
}

func override(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

// newStore returns an empty plan sized by the building config.
func (p *project) newStore() *floor.Store {
	return floor.NewStore(p.resolved.Scorer, p.cfg.Building.Floors,
		floor.WithCapacity(p.cfg.Building.Capacity),
		floor.WithFloorNames(p.cfg.Building.FloorNames),
		floor.WithLogger(p.logger))
}

// applyPlanFile loads a plan file into a fresh store.
func (p *project) applyPlanFile(path string) (*floor.Store, []*floor.Violation, error) {
	planFile, err := dataset.LoadPlan(path)
	if err != nil {
		return nil, nil, err
	}
	store := p.newStore()
	planReport, violations, err := planFile.Apply(store)
	if err != nil {
		return nil, nil, err
	}
	p.report.Merge(planReport)
	for _, v := range violations {
		p.logger.Warn("placement rejected", slog.String("kind", string(v.Kind)), slog.String("detail", v.Message()))
	}
	return store, violations, nil
}

func runValidate(flags *globalFlags) error {
	p, err := loadProject(flags)
	if err != nil {
		return err
	}

	printValidationReport(p.report)

	if !p.report.Valid {
		os.Exit(1)
	}
	return nil
}

func runTop(flags *globalFlags, name string) error {
	p, err := loadProject(flags)
	if err != nil {
		return err
	}
	reg := p.resolved.Scorer.Registry()

	if name != "" {
		g, ok := reg.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown group %q", name)
		}
		printTop(g.Name, p.resolved.Top.Top(g.ID))
		return nil
	}
	for _, g := range reg.All() {
		printTop(g.Name, p.resolved.Top.Top(g.ID))
	}
	return nil
}

func runPlan(flags *globalFlags, planPath string, asJSON bool) error {
	p, err := loadProject(flags)
	if err != nil {
		return err
	}
	store, violations, err := p.applyPlanFile(planPath)
	if err != nil {
		return err
	}

	if asJSON {
		output := map[string]any{
			"summary":    p.resolved,
			"plan":       store.Snapshot(),
			"violations": violationList(violations),
			"validation": p.report,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	printFloors(store.Snapshot(), p.seating)
	printViolations(violations)
	if p.report.Count() > 0 {
		fmt.Println()
		printValidationReport(p.report)
	}
	return nil
}

func runMatrix(flags *globalFlags, planPath string, compare []int) error {
	if len(compare) != 0 && len(compare) != 2 {
		return errors.New("--compare takes exactly two floor IDs")
	}
	p, err := loadProject(flags)
	if err != nil {
		return err
	}
	store, violations, err := p.applyPlanFile(planPath)
	if err != nil {
		return err
	}

	if len(compare) == 2 {
		c, err := store.Compare(floor.ID(compare[0]), floor.ID(compare[1]))
		if err != nil {
			return err
		}
		printComparison(c)
	} else {
		printMatrix(store.Matrix())
	}
	printViolations(violations)
	return nil
}

func runServe(flags *globalFlags, port int) error {
	p, err := loadProject(flags)
	if err != nil {
		return err
	}
	if port == 0 {
		port = p.cfg.Server.Port
	}

	srv := server.New(server.Session{
		Store:   p.newStore(),
		Top:     p.resolved.Top,
		Seating: p.seating,
		Report:  p.report,
	}, port, p.logger)
	return srv.Start()
}

// violationList keeps JSON output an array when nothing was rejected.
func violationList(vs []*floor.Violation) []*floor.Violation {
	if vs == nil {
		return []*floor.Violation{}
	}
	return vs
}
