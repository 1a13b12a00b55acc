package matrix

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesCells(t *testing.T) {
	tbl, report := New([]string{"A", "B"}, [][]string{
		{"0", "6"},
		{"4", " 0 "},
	})
	require.True(t, report.Valid)
	assert.Equal(t, 0, report.Count())
	assert.Equal(t, 2, tbl.Size())
	assert.Equal(t, 6.0, tbl.Score(0, 1))
	assert.Equal(t, 4.0, tbl.Score(1, 0))
	assert.Equal(t, 6.0, tbl.ScoreByName("A", "B"))
}

func TestNewSubstitutesBadCells(t *testing.T) {
	tbl, report := New([]string{"A", "B", "C"}, [][]string{
		{"0", "abc", "-3"},
		{"NaN", "0"},
		{"1", "2", "3", "99"},
		{"7", "7", "7"},
	})
	require.True(t, report.Valid, "malformed cells never invalidate the table")

	assert.Equal(t, 0.0, tbl.Score(0, 1))
	assert.Equal(t, 0.0, tbl.Score(0, 2))
	assert.Equal(t, 0.0, tbl.Score(1, 0))
	assert.Equal(t, 0.0, tbl.Score(1, 2), "short row pads with 0")
	assert.Equal(t, 2.0, tbl.Score(2, 1))
	// abc, -3, NaN, short row, long row, surplus rows
	assert.Len(t, report.Warnings, 6)
}

func TestNewMissingRows(t *testing.T) {
	tbl, report := New([]string{"A", "B"}, [][]string{{"0", "1"}})
	assert.Equal(t, 1.0, tbl.Score(0, 1))
	assert.Equal(t, 0.0, tbl.Score(1, 0))
	assert.Len(t, report.Warnings, 1)
}

func TestScoreFailsSoft(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tbl := FromValues([]string{"A", "B"}, [][]float64{{0, 1}, {2, 0}}, WithLogger(logger))

	for _, tc := range []struct{ a, b int }{{-1, 0}, {0, -1}, {2, 0}, {0, 2}, {100, 100}} {
		assert.Equal(t, 0.0, tbl.Score(tc.a, tc.b))
	}
	assert.Equal(t, 0.0, tbl.ScoreByName("A", "Z"))
	assert.Equal(t, 0.0, tbl.ScoreByName("Z", "A"))
	assert.Contains(t, buf.String(), "matrix index out of range")
	assert.Contains(t, buf.String(), "unknown group in matrix lookup")
}

func TestFromValuesSanitizes(t *testing.T) {
	tbl := FromValues([]string{"A", "B"}, [][]float64{{0, math.Inf(1)}, {-2, math.NaN()}})
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.Equal(t, 0.0, tbl.Score(i, j))
		}
	}
}

func TestIndexAndNames(t *testing.T) {
	tbl, report := New([]string{"A", " B ", "A"}, nil)
	i, ok := tbl.Index("B")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	i, ok = tbl.Index("A")
	require.True(t, ok)
	assert.Equal(t, 0, i, "first occurrence of a repeated header wins")

	_, ok = tbl.Index("C")
	assert.False(t, ok)

	names := tbl.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"A", "B", "A"}, tbl.Names())
	// repeated header + missing rows
	assert.Len(t, report.Warnings, 2)
}
