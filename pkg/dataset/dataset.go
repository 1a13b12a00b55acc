// Package dataset loads the tabular inputs of a floor plan from disk.
//
// Group attributes, the collaboration matrix and the employee roster are CSV
// files with a header row. Plans are YAML. Cell-level problems are absorbed
// into validation reports by the packages that interpret the cells; only I/O
// and CSV syntax errors are returned as errors.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ChicagoDave/floorplanner/pkg/group"
	"github.com/ChicagoDave/floorplanner/pkg/matrix"
	"github.com/ChicagoDave/floorplanner/pkg/roster"
	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

// ErrEmptyTable is returned for a CSV input without a header row.
var ErrEmptyTable = errors.New("dataset: table has no header row")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readTable returns the header row and the data rows, skipping blank lines.
func readTable(r io.Reader) ([]string, [][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading table: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing CSV: %w", err)
	}

	var rows [][]string
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyTable
	}
	return rows[0], rows[1:], nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func openAndParse[T any](path string, parse func(io.Reader) (T, *validation.Report, error)) (T, *validation.Report, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	v, report, err := parse(f)
	if err != nil {
		return zero, nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, report, nil
}

// ParseGroups reads a group attribute table.
func ParseGroups(r io.Reader) (*group.Registry, *validation.Report, error) {
	header, rows, err := readTable(r)
	if err != nil {
		return nil, nil, err
	}
	reg, report := group.FromRecords(header, rows)
	return reg, report, nil
}

// LoadGroups reads a group attribute table from a file.
func LoadGroups(path string) (*group.Registry, *validation.Report, error) {
	return openAndParse(path, ParseGroups)
}

// ParseMatrix reads a collaboration matrix whose first row and first column
// name the groups. Rows are matched to columns by name, so row order need not
// follow column order. Rows naming no column are reported and dropped.
func ParseMatrix(r io.Reader, opts ...matrix.Option) (*matrix.Table, *validation.Report, error) {
	header, rows, err := readTable(r)
	if err != nil {
		return nil, nil, err
	}
	names := header[1:]
	position := make(map[string]int, len(names))
	for i, n := range names {
		n = strings.TrimSpace(n)
		if _, dup := position[n]; !dup {
			position[n] = i
		}
	}

	pre := validation.NewReport()
	cells := make([][]string, len(names))
	for i, row := range rows {
		name := strings.TrimSpace(row[0])
		pos, ok := position[name]
		if !ok {
			pre.AddWarning(validation.Result{
				Level:    validation.LevelMatrix,
				Message:  fmt.Sprintf("row %q matches no column; dropped", name),
				Location: fmt.Sprintf("row %d", i+2),
			})
			continue
		}
		if cells[pos] != nil {
			pre.AddWarning(validation.Result{
				Level:    validation.LevelMatrix,
				Message:  fmt.Sprintf("row %q repeated; first row kept", name),
				Location: fmt.Sprintf("row %d", i+2),
			})
			continue
		}
		cells[pos] = row[1:]
	}

	tbl, report := matrix.New(names, cells, opts...)
	pre.Merge(report)
	return tbl, pre, nil
}

// LoadMatrix reads a collaboration matrix from a file.
func LoadMatrix(path string, opts ...matrix.Option) (*matrix.Table, *validation.Report, error) {
	return openAndParse(path, func(r io.Reader) (*matrix.Table, *validation.Report, error) {
		return ParseMatrix(r, opts...)
	})
}

// ParseEmployees reads an employee roster.
func ParseEmployees(r io.Reader) (*roster.Seating, *validation.Report, error) {
	header, rows, err := readTable(r)
	if err != nil {
		return nil, nil, err
	}
	s, report := roster.FromRecords(header, rows)
	return s, report, nil
}

// LoadEmployees reads an employee roster from a file.
func LoadEmployees(path string) (*roster.Seating, *validation.Report, error) {
	return openAndParse(path, ParseEmployees)
}
