package ops

import (
	"fmt"
	"strings"
)

// ConcatFiles stacks the rows of several artifacts that share a header.
// Each file is read from the same sheet name; columns follow the first
// file's header and missing columns are left empty.
func ConcatFiles(paths []string, sheet, savePath string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("no files to merge")
	}
	var merged *Table
	for _, path := range paths {
		t, err := Load(path, sheet)
		if err != nil {
			return "", err
		}
		if merged == nil {
			merged = t
			continue
		}
		if err := appendAligned(merged, t); err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := Save(merged, savePath, sheet); err != nil {
		return "", err
	}
	return fmt.Sprintf("merged %d files, %d rows total", len(paths), len(merged.Rows)), nil
}

// MergeSheets stacks several sheets of one workbook into a single table.
func MergeSheets(path string, sheets []string, savePath string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("no sheets to merge")
	}
	var merged *Table
	for _, sheet := range sheets {
		t, err := Load(path, sheet)
		if err != nil {
			return "", err
		}
		if merged == nil {
			merged = t
			continue
		}
		if err := appendAligned(merged, t); err != nil {
			return "", fmt.Errorf("sheet %q: %w", sheet, err)
		}
	}
	if err := Save(merged, savePath, "Merged"); err != nil {
		return "", err
	}
	return fmt.Sprintf("merged %d sheets, %d rows total", len(sheets), len(merged.Rows)), nil
}

// JoinFiles joins two artifacts on the given key columns, like a SQL join.
// how is one of inner, left, right, outer. Right-side key columns are not
// repeated; other right-side columns that clash get a "_right" suffix.
func JoinFiles(leftPath, leftSheet, rightPath, rightSheet string, on []string, how, savePath string) (string, error) {
	switch how {
	case "inner", "left", "right", "outer":
	default:
		return "", fmt.Errorf("unsupported join type %q", how)
	}
	if len(on) == 0 {
		return "", fmt.Errorf("join key columns must not be empty")
	}

	left, err := Load(leftPath, leftSheet)
	if err != nil {
		return "", err
	}
	right, err := Load(rightPath, rightSheet)
	if err != nil {
		return "", err
	}
	leftKeys, err := left.columnIndices(on)
	if err != nil {
		return "", fmt.Errorf("left table: %w", err)
	}
	rightKeys, err := right.columnIndices(on)
	if err != nil {
		return "", fmt.Errorf("right table: %w", err)
	}

	// Right-side payload columns: everything that is not a key.
	var rightPayload []int
	for i := range right.Columns {
		isKey := false
		for _, k := range rightKeys {
			if i == k {
				isKey = true
				break
			}
		}
		if !isKey {
			rightPayload = append(rightPayload, i)
		}
	}

	result := &Table{Columns: append([]string(nil), left.Columns...)}
	leftNames := make(map[string]bool, len(left.Columns))
	for _, c := range left.Columns {
		leftNames[c] = true
	}
	for _, i := range rightPayload {
		name := right.Columns[i]
		if leftNames[name] {
			name += "_right"
		}
		result.Columns = append(result.Columns, name)
	}

	rightByKey := make(map[string][][]string)
	for _, row := range right.Rows {
		key := rowKey(row, rightKeys)
		rightByKey[key] = append(rightByKey[key], row)
	}

	matchedRight := make(map[string]bool)
	for _, lrow := range left.Rows {
		key := rowKey(lrow, leftKeys)
		matches := rightByKey[key]
		if len(matches) == 0 {
			if how == "left" || how == "outer" {
				result.Rows = append(result.Rows, joinRow(lrow, nil, rightPayload))
			}
			continue
		}
		matchedRight[key] = true
		for _, rrow := range matches {
			result.Rows = append(result.Rows, joinRow(lrow, rrow, rightPayload))
		}
	}
	if how == "right" || how == "outer" {
		for _, rrow := range right.Rows {
			key := rowKey(rrow, rightKeys)
			if matchedRight[key] {
				continue
			}
			lrow := make([]string, len(left.Columns))
			for j, k := range leftKeys {
				lrow[k] = rrow[rightKeys[j]]
			}
			result.Rows = append(result.Rows, joinRow(lrow, rrow, rightPayload))
		}
	}

	if err := Save(result, savePath, "Joined"); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s join on %s produced %d rows", how, strings.Join(on, ","), len(result.Rows)), nil
}

// AppendRows appends one artifact's rows to another's, aligning columns by
// name.
func AppendRows(basePath, baseSheet, appendPath, appendSheet, savePath string) (string, error) {
	base, err := Load(basePath, baseSheet)
	if err != nil {
		return "", err
	}
	extra, err := Load(appendPath, appendSheet)
	if err != nil {
		return "", err
	}
	appended := len(extra.Rows)
	if err := appendAligned(base, extra); err != nil {
		return "", err
	}
	if err := Save(base, savePath, baseSheet); err != nil {
		return "", err
	}
	return fmt.Sprintf("appended %d rows, %d rows total", appended, len(base.Rows)), nil
}

// appendAligned copies src rows into dst, matching columns by name. A src
// column absent from dst is an error; a dst column absent from src is
// filled with empty cells.
func appendAligned(dst, src *Table) error {
	mapping := make([]int, len(src.Columns))
	for i, name := range src.Columns {
		j, err := dst.ColumnIndex(name)
		if err != nil {
			return fmt.Errorf("column %q not present in base table", name)
		}
		mapping[i] = j
	}
	for _, row := range src.Rows {
		aligned := make([]string, len(dst.Columns))
		for i, cell := range row {
			aligned[mapping[i]] = cell
		}
		dst.Rows = append(dst.Rows, aligned)
	}
	return nil
}

func joinRow(lrow, rrow []string, rightPayload []int) []string {
	out := append([]string(nil), lrow...)
	for _, i := range rightPayload {
		if rrow == nil {
			out = append(out, "")
		} else {
			out = append(out, rrow[i])
		}
	}
	return out
}
