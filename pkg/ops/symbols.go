package ops

import "reflect"

// ImportPath is how generated scripts import this package.
const ImportPath = "github.com/haozl/sheetwright/pkg/ops"

// Symbols exposes the operation library to the script interpreter, keyed
// the way yaegi keys its stdlib symbol tables. Only registered operations
// are exposed: Save stays out so every artifact write a script can make
// goes through a save-capable operation, whose save path the validator
// and the executor inspect.
var Symbols = map[string]map[string]reflect.Value{
	ImportPath + "/ops": {
		"Load":             reflect.ValueOf(Load),
		"OutputPath":       reflect.ValueOf(OutputPath),
		"AddRow":           reflect.ValueOf(AddRow),
		"AddColumn":        reflect.ValueOf(AddColumn),
		"DeleteRows":       reflect.ValueOf(DeleteRows),
		"DeleteRowIndices": reflect.ValueOf(DeleteRowIndices),
		"DeleteColumns":    reflect.ValueOf(DeleteColumns),
		"DropEmptyRows":    reflect.ValueOf(DropEmptyRows),
		"SetCell":          reflect.ValueOf(SetCell),
		"UpdateColumn":     reflect.ValueOf(UpdateColumn),
		"FilterValues":     reflect.ValueOf(FilterValues),
		"FilterRange":      reflect.ValueOf(FilterRange),
		"SearchText":       reflect.ValueOf(SearchText),
		"SelectColumns":    reflect.ValueOf(SelectColumns),
		"UniqueValues":     reflect.ValueOf(UniqueValues),
		"SumColumn":        reflect.ValueOf(SumColumn),
		"AverageColumn":    reflect.ValueOf(AverageColumn),
		"CountRows":        reflect.ValueOf(CountRows),
		"MaxValue":         reflect.ValueOf(MaxValue),
		"MinValue":         reflect.ValueOf(MinValue),
		"Deduplicate":      reflect.ValueOf(Deduplicate),
		"GroupBy":          reflect.ValueOf(GroupBy),
		"DescribeColumn":   reflect.ValueOf(DescribeColumn),
		"ConcatFiles":      reflect.ValueOf(ConcatFiles),
		"MergeSheets":      reflect.ValueOf(MergeSheets),
		"JoinFiles":        reflect.ValueOf(JoinFiles),
		"AppendRows":       reflect.ValueOf(AppendRows),
		"CSVSheet":         reflect.ValueOf(CSVSheet),
		"Table":            reflect.ValueOf((*Table)(nil)),
		"ColumnStats":      reflect.ValueOf((*ColumnStats)(nil)),
	},
}
