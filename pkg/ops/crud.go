package ops

import (
	"fmt"
	"sort"
	"strings"
)

// AddRow appends one row, given as column name to value, and saves the
// result to savePath. Unknown columns in the row are rejected.
func AddRow(path, sheet string, row map[string]string, savePath string) (string, error) {
	return loadAndSave(path, sheet, savePath, func(t *Table) (string, error) {
		newRow := make([]string, len(t.Columns))
		for col, val := range row {
			i, err := t.ColumnIndex(col)
			if err != nil {
				return "", err
			}
			newRow[i] = val
		}
		t.Rows = append(t.Rows, newRow)
		return fmt.Sprintf("added 1 row, %d rows total", len(t.Rows)), nil
	})
}

// AddColumn appends a new column. When values is non-nil its length must
// match the row count; otherwise every cell gets defaultValue.
func AddColumn(path, sheet, column string, values []string, defaultValue, savePath string) (string, error) {
	return loadAndSave(path, sheet, savePath, func(t *Table) (string, error) {
		if _, err := t.ColumnIndex(column); err == nil {
			return "", fmt.Errorf("column %q already exists", column)
		}
		if values != nil && len(values) != len(t.Rows) {
			return "", fmt.Errorf("column data length (%d) does not match row count (%d)", len(values), len(t.Rows))
		}
		t.Columns = append(t.Columns, column)
		for i := range t.Rows {
			cell := defaultValue
			if values != nil {
				cell = values[i]
			}
			t.Rows[i] = append(t.Rows[i], cell)
		}
		return fmt.Sprintf("added column %q", column), nil
	})
}

// DeleteRows removes every row matching all column=value conditions.
func DeleteRows(path, sheet string, where map[string]string, savePath string) (string, error) {
	return loadAndSave(path, sheet, savePath, func(t *Table) (string, error) {
		if len(where) == 0 {
			return "", fmt.Errorf("delete condition must not be empty")
		}
		kept := t.Rows[:0]
		deleted := 0
		for _, row := range t.Rows {
			ok, err := t.matches(row, where)
			if err != nil {
				return "", err
			}
			if ok {
				deleted++
				continue
			}
			kept = append(kept, row)
		}
		t.Rows = kept
		return fmt.Sprintf("deleted %d rows", deleted), nil
	})
}

// DeleteRowIndices removes rows by zero-based index. Out-of-range indices
// are ignored.
func DeleteRowIndices(path, sheet string, indices []int, savePath string) (string, error) {
	return loadAndSave(path, sheet, savePath, func(t *Table) (string, error) {
		drop := make(map[int]bool, len(indices))
		for _, i := range indices {
			drop[i] = true
		}
		kept := t.Rows[:0]
		deleted := 0
		for i, row := range t.Rows {
			if drop[i] {
				deleted++
				continue
			}
			kept = append(kept, row)
		}
		t.Rows = kept
		return fmt.Sprintf("deleted %d rows", deleted), nil
	})
}

// DeleteColumns removes the named columns.
func DeleteColumns(path, sheet string, columns []string, savePath string) (string, error) {
	return loadAndSave(path, sheet, savePath, func(t *Table) (string, error) {
		idx, err := t.columnIndices(columns)
		if err != nil {
			return "", err
		}
		sort.Sort(sort.Reverse(sort.IntSlice(idx)))
		for _, i := range idx {
			t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
			for r := range t.Rows {
				t.Rows[r] = append(t.Rows[r][:i], t.Rows[r][i+1:]...)
			}
		}
		return fmt.Sprintf("deleted columns: %s", strings.Join(columns, ", ")), nil
	})
}

// DropEmptyRows removes rows whose cells are all empty.
func DropEmptyRows(path, sheet, savePath string) (string, error) {
	return loadAndSave(path, sheet, savePath, func(t *Table) (string, error) {
		kept := t.Rows[:0]
		dropped := 0
		for _, row := range t.Rows {
			empty := true
			for _, cell := range row {
				if strings.TrimSpace(cell) != "" {
					empty = false
					break
				}
			}
			if empty {
				dropped++
				continue
			}
			kept = append(kept, row)
		}
		t.Rows = kept
		return fmt.Sprintf("dropped %d empty rows", dropped), nil
	})
}

// SetCell replaces the value at (rowIndex, column). rowIndex is zero-based
// and counts data rows, not the header.
func SetCell(path, sheet string, rowIndex int, column, value, savePath string) (string, error) {
	return loadAndSave(path, sheet, savePath, func(t *Table) (string, error) {
		if rowIndex < 0 || rowIndex >= len(t.Rows) {
			return "", fmt.Errorf("row index %d out of range (0-%d)", rowIndex, len(t.Rows)-1)
		}
		i, err := t.ColumnIndex(column)
		if err != nil {
			return "", err
		}
		old := t.Rows[rowIndex][i]
		t.Rows[rowIndex][i] = value
		return fmt.Sprintf("cell [%d, %q]: %q -> %q", rowIndex, column, old, value), nil
	})
}

// UpdateColumn sets column to value on every row matching all conditions.
func UpdateColumn(path, sheet, column string, where map[string]string, value, savePath string) (string, error) {
	return loadAndSave(path, sheet, savePath, func(t *Table) (string, error) {
		i, err := t.ColumnIndex(column)
		if err != nil {
			return "", err
		}
		updated := 0
		for r, row := range t.Rows {
			ok, err := t.matches(row, where)
			if err != nil {
				return "", err
			}
			if ok {
				t.Rows[r][i] = value
				updated++
			}
		}
		return fmt.Sprintf("updated %d cells", updated), nil
	})
}
