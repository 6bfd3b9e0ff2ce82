package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haozl/sheetwright/internal/catalog"
	"github.com/haozl/sheetwright/pkg/ops"
)

func testCatalog() (*catalog.Catalog, catalog.Target) {
	artifact := catalog.Artifact{
		Name: "staff.csv",
		Path: "input/staff.csv",
		Sheets: []catalog.Sheet{
			{Name: catalog.CSVSheetName, Headers: []string{"name", "dept"}, Rows: 3},
		},
	}
	cat := &catalog.Catalog{Dir: "input", Artifacts: []catalog.Artifact{artifact}}
	return cat, catalog.Target{Artifact: artifact, Sheet: catalog.CSVSheetName}
}

func TestBuildSectionOrder(t *testing.T) {
	cat, target := testCatalog()
	p := NewBuilder("output").Build(cat, target, "delete the sales rows")

	data := strings.Index(p, "## Available data")
	operations := strings.Index(p, "## Available operations")
	instruction := strings.Index(p, "## Instruction")
	require.GreaterOrEqual(t, data, 0)
	assert.Less(t, data, operations)
	assert.Less(t, operations, instruction)
}

func TestBuildContent(t *testing.T) {
	cat, target := testCatalog()
	p := NewBuilder("output").Build(cat, target, "delete the sales rows")

	// Instruction passes through verbatim, after the operation list.
	assert.True(t, strings.HasSuffix(strings.TrimSpace(p), "delete the sales rows"))

	assert.Contains(t, p, `"input/staff.csv"`)
	assert.Contains(t, p, ops.ImportPath)
	for _, sig := range ops.Signatures() {
		assert.Contains(t, p, "ops."+sig.Name+"(")
	}
	assert.Contains(t, p, `output directory "output"`)
	assert.Contains(t, p, "3 rows, columns [name, dept]")
}
