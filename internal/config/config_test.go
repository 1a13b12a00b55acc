package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 6, cfg.Building.Floors)
	assert.Equal(t, 500, cfg.Building.Capacity)
	assert.Equal(t, 5, cfg.Scoring.TopLimit)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, Validate(cfg))
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Building.Capacity)
	assert.Equal(t, filepath.Join(dir, "groups.csv"), cfg.Path(cfg.Data.Groups))
}

func TestLoadMergesWithDefaults(t *testing.T) {
	path := writeConfig(t, `
building:
  floors: 3
  floor_names: [Ground]
scoring:
  top_limit: 2
log:
  level: debug
`)
	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Building.Floors)
	assert.Equal(t, []string{"Ground"}, cfg.Building.FloorNames)
	assert.Equal(t, 500, cfg.Building.Capacity, "default fills missing field")
	assert.Equal(t, 2, cfg.Scoring.TopLimit)
	assert.Equal(t, "matrix.csv", cfg.Data.Matrix)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadExampleProject(t *testing.T) {
	cfg, err := Load("../../examples/default-office")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Building.Floors)
	assert.Equal(t, 3, cfg.Scoring.TopLimit)
	assert.Equal(t, "employees.csv", cfg.Data.Employees)
	assert.Equal(t, filepath.Join("../../examples/default-office", "matrix.csv"), cfg.Path(cfg.Data.Matrix))
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative floors", "building:\n  floors: -1\n"},
		{"negative capacity", "building:\n  capacity: -5\n"},
		{"too many names", "building:\n  floors: 1\n  floor_names: [a, b]\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"negative top", "scoring:\n  top_limit: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromPath(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "building: [unclosed"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestPath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "rel.csv", cfg.Path("rel.csv"), "no base dir")

	cfg.SetBaseDir("/srv/office")
	assert.Equal(t, "/srv/office/rel.csv", cfg.Path("rel.csv"))
	assert.Equal(t, "/abs.csv", cfg.Path("/abs.csv"))
	assert.Equal(t, "", cfg.Path(""))
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	for level, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	} {
		cfg.Log.Level = level
		assert.Equal(t, want, cfg.SlogLevel(), level)
	}
	assert.True(t, IsValidLogLevel("WARN"))
	assert.False(t, IsValidLogLevel("trace"))
}
