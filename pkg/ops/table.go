// Package ops is the operation library available to generated scripts.
// Every function works on one rectangular table loaded from an .xlsx or
// .csv artifact. Mutating operations never write back to their source:
// they require an explicit save path, and refuse one that resolves inside
// the session's input directory.
package ops

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is a rectangular block of cells with a header row. All cells are
// kept as strings; numeric operations parse on demand.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of a named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, c := range t.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("column %q does not exist", name)
}

// columnIndices resolves several column names at once.
func (t *Table) columnIndices(names []string) ([]int, error) {
	idx := make([]int, 0, len(names))
	var missing []string
	for _, name := range names {
		i, err := t.ColumnIndex(name)
		if err != nil {
			missing = append(missing, name)
			continue
		}
		idx = append(idx, i)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("columns do not exist: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// normalize pads or truncates every row to the header width.
func (t *Table) normalize() {
	width := len(t.Columns)
	for i, row := range t.Rows {
		switch {
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			t.Rows[i] = padded
		case len(row) > width:
			t.Rows[i] = row[:width]
		}
	}
}

// matches reports whether the row satisfies every column=value condition.
func (t *Table) matches(row []string, where map[string]string) (bool, error) {
	for col, val := range where {
		i, err := t.ColumnIndex(col)
		if err != nil {
			return false, fmt.Errorf("condition column %q does not exist", col)
		}
		if row[i] != val {
			return false, nil
		}
	}
	return true, nil
}

// columnFloats parses a column as float64. ok is false when any non-empty
// cell fails to parse; empty cells are skipped either way.
func (t *Table) columnFloats(col int) (values []float64, ok bool) {
	ok = true
	for _, row := range t.Rows {
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			ok = false
			continue
		}
		values = append(values, v)
	}
	return values, ok
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
