package ops

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterValues keeps only the rows whose column value is in keep.
func FilterValues(path, sheet, column string, keep []string, savePath string) (string, error) {
	return loadAndSave(path, sheet, savePath, func(t *Table) (string, error) {
		i, err := t.ColumnIndex(column)
		if err != nil {
			return "", err
		}
		allowed := make(map[string]bool, len(keep))
		for _, v := range keep {
			allowed[v] = true
		}
		original := len(t.Rows)
		kept := t.Rows[:0]
		for _, row := range t.Rows {
			if allowed[row[i]] {
				kept = append(kept, row)
			}
		}
		t.Rows = kept
		return fmt.Sprintf("filter kept %d/%d rows", len(t.Rows), original), nil
	})
}

// FilterRange keeps rows whose numeric column value lies in [min, max],
// both bounds inclusive. Non-numeric cells never match.
func FilterRange(path, sheet, column string, min, max float64, savePath string) (string, error) {
	return loadAndSave(path, sheet, savePath, func(t *Table) (string, error) {
		i, err := t.ColumnIndex(column)
		if err != nil {
			return "", err
		}
		original := len(t.Rows)
		kept := t.Rows[:0]
		for _, row := range t.Rows {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				continue
			}
			if v >= min && v <= max {
				kept = append(kept, row)
			}
		}
		t.Rows = kept
		return fmt.Sprintf("range filter kept %d/%d rows", len(t.Rows), original), nil
	})
}

// SearchText keeps rows containing text (case-insensitive) in any of the
// given columns, or in any column when columns is empty.
func SearchText(path, sheet, text string, columns []string, savePath string) (string, error) {
	return loadAndSave(path, sheet, savePath, func(t *Table) (string, error) {
		idx, err := t.columnIndices(columns)
		if err != nil {
			return "", err
		}
		if len(columns) == 0 {
			idx = make([]int, len(t.Columns))
			for i := range t.Columns {
				idx[i] = i
			}
		}
		needle := strings.ToLower(text)
		original := len(t.Rows)
		kept := t.Rows[:0]
		for _, row := range t.Rows {
			for _, i := range idx {
				if strings.Contains(strings.ToLower(row[i]), needle) {
					kept = append(kept, row)
					break
				}
			}
		}
		t.Rows = kept
		return fmt.Sprintf("search matched %d/%d rows", len(t.Rows), original), nil
	})
}

// UniqueValues returns the distinct values of a column in first-seen order.
func UniqueValues(path, sheet, column string) ([]string, error) {
	t, err := Load(path, sheet)
	if err != nil {
		return nil, err
	}
	i, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var values []string
	for _, row := range t.Rows {
		if !seen[row[i]] {
			seen[row[i]] = true
			values = append(values, row[i])
		}
	}
	return values, nil
}

// SelectColumns keeps only the named columns, in the given order.
func SelectColumns(path, sheet string, columns []string, savePath string) (string, error) {
	return loadAndSave(path, sheet, savePath, func(t *Table) (string, error) {
		idx, err := t.columnIndices(columns)
		if err != nil {
			return "", err
		}
		rows := make([][]string, len(t.Rows))
		for r, row := range t.Rows {
			selected := make([]string, len(idx))
			for j, i := range idx {
				selected[j] = row[i]
			}
			rows[r] = selected
		}
		t.Columns = append([]string(nil), columns...)
		t.Rows = rows
		return fmt.Sprintf("selected %d columns", len(columns)), nil
	})
}
