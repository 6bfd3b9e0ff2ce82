package ops

// Signature documents one operation for the generation prompt. Params is
// the Go parameter list as it appears to the script author.
type Signature struct {
	Name    string
	Params  string
	Returns string
	Doc     string
	// SavesOutput marks operations whose final parameter is a result
	// path. The security validator extracts write targets from calls to
	// these.
	SavesOutput bool
}

// Signatures lists every operation in a stable order. The prompt builder
// renders this list verbatim, so docs are written for the generation
// service, not for godoc.
func Signatures() []Signature {
	return []Signature{
		{"Load", "path, sheet string", "(*Table, error)", "read one sheet into a table (read-only)", false},
		{"OutputPath", "sourcePath, label, outDir string", "string", "derive a collision-free result filename from the source artifact", false},
		{"AddRow", "path, sheet string, row map[string]string, savePath string", "(string, error)", "append one row given as column->value", true},
		{"AddColumn", "path, sheet, column string, values []string, defaultValue, savePath string", "(string, error)", "append a column; values nil fills defaultValue", true},
		{"DeleteRows", "path, sheet string, where map[string]string, savePath string", "(string, error)", "delete rows matching all column=value conditions", true},
		{"DeleteRowIndices", "path, sheet string, indices []int, savePath string", "(string, error)", "delete rows by zero-based index", true},
		{"DeleteColumns", "path, sheet string, columns []string, savePath string", "(string, error)", "delete the named columns", true},
		{"DropEmptyRows", "path, sheet, savePath string", "(string, error)", "delete rows whose cells are all empty", true},
		{"SetCell", "path, sheet string, rowIndex int, column, value, savePath string", "(string, error)", "set one cell by row index and column name", true},
		{"UpdateColumn", "path, sheet, column string, where map[string]string, value, savePath string", "(string, error)", "set a column on every row matching the conditions", true},
		{"FilterValues", "path, sheet, column string, keep []string, savePath string", "(string, error)", "keep rows whose column value is in keep", true},
		{"FilterRange", "path, sheet, column string, min, max float64, savePath string", "(string, error)", "keep rows with numeric column value in [min, max]", true},
		{"SearchText", "path, sheet, text string, columns []string, savePath string", "(string, error)", "keep rows containing text (case-insensitive); empty columns searches all", true},
		{"SelectColumns", "path, sheet string, columns []string, savePath string", "(string, error)", "keep only the named columns", true},
		{"UniqueValues", "path, sheet, column string", "([]string, error)", "distinct values of a column", false},
		{"SumColumn", "path, sheet, column string", "(float64, error)", "sum of a numeric column", false},
		{"AverageColumn", "path, sheet, column string", "(float64, error)", "mean of a numeric column", false},
		{"CountRows", "path, sheet, column string", "(int, error)", "non-empty cells in a column, or all rows when column is \"\"", false},
		{"MaxValue", "path, sheet, column string", "(string, error)", "largest value of a column", false},
		{"MinValue", "path, sheet, column string", "(string, error)", "smallest value of a column", false},
		{"Deduplicate", "path, sheet string, columns []string, keep, savePath string", "(string, error)", "drop duplicate rows; keep is \"first\" or \"last\"", true},
		{"GroupBy", "path, sheet, groupColumn, aggColumn, fn, savePath string", "(string, error)", "aggregate per group; fn is sum/mean/count/max/min", true},
		{"DescribeColumn", "path, sheet, column string", "(ColumnStats, error)", "count/unique/sum/mean/std/median/min/max of a column", false},
		{"ConcatFiles", "paths []string, sheet, savePath string", "(string, error)", "stack rows of several files sharing a header", true},
		{"MergeSheets", "path string, sheets []string, savePath string", "(string, error)", "stack several sheets of one workbook", true},
		{"JoinFiles", "leftPath, leftSheet, rightPath, rightSheet string, on []string, how, savePath string", "(string, error)", "join two files on key columns; how is inner/left/right/outer", true},
		{"AppendRows", "basePath, baseSheet, appendPath, appendSheet, savePath string", "(string, error)", "append one file's rows to another's", true},
	}
}

// SaveCapable returns the names of operations that take a result path as
// their final argument.
func SaveCapable() []string {
	var names []string
	for _, sig := range Signatures() {
		if sig.SavesOutput {
			names = append(names, sig.Name)
		}
	}
	return names
}
