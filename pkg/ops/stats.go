package ops

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ColumnStats is the summary returned by DescribeColumn. The numeric
// fields are only meaningful when Numeric is true.
type ColumnStats struct {
	Count   int
	Unique  int
	Numeric bool
	Sum     float64
	Mean    float64
	Std     float64
	Median  float64
	Min     string
	Max     string
}

// SumColumn sums a numeric column. Non-numeric cells make it fail.
func SumColumn(path, sheet, column string) (float64, error) {
	values, err := numericColumn(path, sheet, column)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum, nil
}

// AverageColumn computes the mean of a numeric column.
func AverageColumn(path, sheet, column string) (float64, error) {
	values, err := numericColumn(path, sheet, column)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("column %q has no numeric values", column)
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// CountRows counts non-empty cells in a column, or all data rows when
// column is empty.
func CountRows(path, sheet, column string) (int, error) {
	t, err := Load(path, sheet)
	if err != nil {
		return 0, err
	}
	if column == "" {
		return len(t.Rows), nil
	}
	i, err := t.ColumnIndex(column)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, row := range t.Rows {
		if strings.TrimSpace(row[i]) != "" {
			count++
		}
	}
	return count, nil
}

// MaxValue returns the largest value of a column: numerically when every
// non-empty cell parses, lexically otherwise.
func MaxValue(path, sheet, column string) (string, error) {
	return extremeValue(path, sheet, column, true)
}

// MinValue returns the smallest value of a column.
func MinValue(path, sheet, column string) (string, error) {
	return extremeValue(path, sheet, column, false)
}

// Deduplicate drops duplicate rows, comparing the named columns or, when
// columns is empty, whole rows. keep is "first" or "last".
func Deduplicate(path, sheet string, columns []string, keep, savePath string) (string, error) {
	return loadAndSave(path, sheet, savePath, func(t *Table) (string, error) {
		if keep != "first" && keep != "last" {
			return "", fmt.Errorf("unsupported keep strategy %q (want \"first\" or \"last\")", keep)
		}
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

		rows := t.Rows
		if keep == "last" {
			rows = reverseRows(rows)
		}
		seen := make(map[string]bool, len(rows))
		kept := make([][]string, 0, len(rows))
		for _, row := range rows {
			key := rowKey(row, idx)
			if seen[key] {
				continue
			}
			seen[key] = true
			kept = append(kept, row)
		}
		if keep == "last" {
			kept = reverseRows(kept)
		}
		removed := len(t.Rows) - len(kept)
		t.Rows = kept
		return fmt.Sprintf("deduplicated: removed %d rows, kept %d", removed, len(kept)), nil
	})
}

// GroupBy aggregates aggColumn per distinct groupColumn value and saves a
// two-column result table. fn is one of sum, mean, count, max, min.
func GroupBy(path, sheet, groupColumn, aggColumn, fn, savePath string) (string, error) {
	t, err := Load(path, sheet)
	if err != nil {
		return "", err
	}
	gi, err := t.ColumnIndex(groupColumn)
	if err != nil {
		return "", fmt.Errorf("group column: %w", err)
	}
	ai, err := t.ColumnIndex(aggColumn)
	if err != nil {
		return "", fmt.Errorf("aggregate column: %w", err)
	}
	if fn == "average" {
		fn = "mean"
	}
	switch fn {
	case "sum", "mean", "count", "max", "min":
	default:
		return "", fmt.Errorf("unsupported aggregate function %q", fn)
	}

	groups := make(map[string][]string)
	var order []string
	for _, row := range t.Rows {
		key := row[gi]
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], row[ai])
	}

	result := &Table{
		Columns: []string{groupColumn, fmt.Sprintf("%s_%s", aggColumn, fn)},
	}
	for _, key := range order {
		agg, err := aggregate(groups[key], fn)
		if err != nil {
			return "", fmt.Errorf("group %q: %w", key, err)
		}
		result.Rows = append(result.Rows, []string{key, agg})
	}
	if err := Save(result, savePath, "GroupBy"); err != nil {
		return "", err
	}
	return fmt.Sprintf("grouped %d rows into %d groups", len(t.Rows), len(order)), nil
}

// DescribeColumn computes count, unique count and, for numeric columns,
// sum, mean, standard deviation and median.
func DescribeColumn(path, sheet, column string) (ColumnStats, error) {
	t, err := Load(path, sheet)
	if err != nil {
		return ColumnStats{}, err
	}
	i, err := t.ColumnIndex(column)
	if err != nil {
		return ColumnStats{}, err
	}

	var stats ColumnStats
	seen := make(map[string]bool)
	for _, row := range t.Rows {
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			continue
		}
		stats.Count++
		seen[cell] = true
	}
	stats.Unique = len(seen)

	values, numeric := t.columnFloats(i)
	stats.Numeric = numeric && len(values) > 0
	if stats.Numeric {
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		for _, v := range values {
			stats.Sum += v
		}
		stats.Mean = stats.Sum / float64(len(values))
		var sq float64
		for _, v := range values {
			sq += (v - stats.Mean) * (v - stats.Mean)
		}
		if len(values) > 1 {
			stats.Std = math.Sqrt(sq / float64(len(values)-1))
		}
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			stats.Median = (sorted[mid-1] + sorted[mid]) / 2
		} else {
			stats.Median = sorted[mid]
		}
		stats.Min = formatFloat(sorted[0])
		stats.Max = formatFloat(sorted[len(sorted)-1])
		return stats, nil
	}

	min, max := "", ""
	for cell := range seen {
		if min == "" || cell < min {
			min = cell
		}
		if cell > max {
			max = cell
		}
	}
	stats.Min, stats.Max = min, max
	return stats, nil
}

func numericColumn(path, sheet, column string) ([]float64, error) {
	t, err := Load(path, sheet)
	if err != nil {
		return nil, err
	}
	i, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	values, ok := t.columnFloats(i)
	if !ok {
		return nil, fmt.Errorf("column %q contains non-numeric values", column)
	}
	return values, nil
}

func extremeValue(path, sheet, column string, max bool) (string, error) {
	t, err := Load(path, sheet)
	if err != nil {
		return "", err
	}
	i, err := t.ColumnIndex(column)
	if err != nil {
		return "", err
	}
	values, numeric := t.columnFloats(i)
	if numeric && len(values) > 0 {
		best := values[0]
		for _, v := range values[1:] {
			if (max && v > best) || (!max && v < best) {
				best = v
			}
		}
		return formatFloat(best), nil
	}

	best := ""
	found := false
	for _, row := range t.Rows {
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			continue
		}
		if !found || (max && cell > best) || (!max && cell < best) {
			best = cell
			found = true
		}
	}
	if !found {
		return "", fmt.Errorf("column %q is empty", column)
	}
	return best, nil
}

func aggregate(cells []string, fn string) (string, error) {
	if fn == "count" {
		return fmt.Sprintf("%d", len(cells)), nil
	}
	var values []float64
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return "", fmt.Errorf("non-numeric value %q", cell)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return "", fmt.Errorf("no numeric values to aggregate")
	}
	switch fn {
	case "sum", "mean":
		var sum float64
		for _, v := range values {
			sum += v
		}
		if fn == "mean" {
			sum /= float64(len(values))
		}
		return formatFloat(sum), nil
	case "max", "min":
		best := values[0]
		for _, v := range values[1:] {
			if (fn == "max" && v > best) || (fn == "min" && v < best) {
				best = v
			}
		}
		return formatFloat(best), nil
	}
	return "", fmt.Errorf("unsupported aggregate function %q", fn)
}

func rowKey(row []string, idx []int) string {
	parts := make([]string, len(idx))
	for j, i := range idx {
		parts[j] = row[i]
	}
	return strings.Join(parts, "\x1f")
}

func reverseRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = row
	}
	return out
}
