package ops

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "staff.csv", staffCSV)

	tab, err := Load(path, CSVSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "dept", "salary"}, tab.Columns)
	require.Len(t, tab.Rows, 3)
	assert.Equal(t, []string{"alice", "eng", "100"}, tab.Rows[0])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), CSVSheet)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadNormalizesRaggedRows(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "ragged.csv", "a,b,c\n1,2\n1,2,3,4\n")

	tab, err := Load(path, CSVSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", ""}, tab.Rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, tab.Rows[1])
}

func TestSaveLoadXLSXRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")
	src := &Table{
		Columns: []string{"name", "dept"},
		Rows:    [][]string{{"alice", "eng"}, {"bob", "sales"}},
	}
	require.NoError(t, Save(src, path, "People"))

	tab, err := Load(path, "People")
	require.NoError(t, err)
	assert.Equal(t, src.Columns, tab.Columns)
	assert.Equal(t, src.Rows, tab.Rows)
}

func TestSaveRefusesEmptyPath(t *testing.T) {
	err := Save(&Table{Columns: []string{"a"}}, "", CSVSheet)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be empty")
}

func TestSaveRefusesInputDirTarget(t *testing.T) {
	inputDir := t.TempDir()
	t.Setenv(InputDirEnv, inputDir)

	tab := &Table{Columns: []string{"a"}, Rows: [][]string{{"1"}}}

	err := Save(tab, filepath.Join(inputDir, "inside.csv"), CSVSheet)
	require.ErrorIs(t, err, ErrInputDirWrite)

	err = Save(tab, filepath.Join(inputDir, "sub", "deep.csv"), CSVSheet)
	require.ErrorIs(t, err, ErrInputDirWrite)

	// A sibling directory is fine.
	outDir := t.TempDir()
	require.NoError(t, Save(tab, filepath.Join(outDir, "outside.csv"), CSVSheet))
}
