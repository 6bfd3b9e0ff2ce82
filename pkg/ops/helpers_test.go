package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeCSV drops a small CSV fixture into dir and returns its path.
func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const staffCSV = `name,dept,salary
alice,eng,100
bob,sales,80
carol,eng,120
`

// loadResult reloads a saved artifact for assertions.
func loadResult(t *testing.T, path string) *Table {
	t.Helper()
	tab, err := Load(path, CSVSheet)
	require.NoError(t, err)
	return tab
}
