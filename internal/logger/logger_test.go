package logger

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestDayPath(t *testing.T) {
	day := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, filepath.Join("logs", "sheetwright_20260309.log"), DayPath("logs", day))
}

func TestSessionLoggerWritesStages(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)

	l.SessionStarted("input", "output")
	l.InstructionAccepted(1, "sum the salary column", "staff.csv", "CSV")
	l.GenerationAttempted(1, 2048)
	l.GenerationSucceeded(1, 512, 800*time.Millisecond)
	l.ValidationVerdict(1, false, "scripts must not spawn processes", "os/exec")
	l.ExecutionFailed(2, true, -1, "deadline exceeded")
	l.CleanupWarning("/tmp/area", errors.New("busy"))
	require.NoError(t, l.Close())

	entries := readEntries(t, l.Path())
	require.Len(t, entries, 7)

	assert.Equal(t, StageSession, entries[0]["stage"])
	assert.Equal(t, "instruction accepted", entries[1]["event"])
	assert.Equal(t, float64(1), entries[1]["turn"])
	assert.Equal(t, StageGeneration, entries[2]["stage"])

	verdict := entries[4]
	assert.Equal(t, StageValidation, verdict["stage"])
	assert.Equal(t, false, verdict["pass"])
	assert.Equal(t, "os/exec", verdict["matched_pattern"])

	execution := entries[5]
	assert.Equal(t, true, execution["timeout"])
	assert.Equal(t, float64(-1), execution["exit_code"])

	cleanup := entries[6]
	assert.Equal(t, StageCleanup, cleanup["stage"])
	assert.Equal(t, "busy", cleanup["error"])
}

func TestReviewDeclinedEntry(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)
	l.ReviewDeclined(3, "discard")
	require.NoError(t, l.Close())

	entries := readEntries(t, l.Path())
	require.Len(t, entries, 1)
	assert.Equal(t, StageReview, entries[0]["stage"])
	assert.Equal(t, "script discarded at review", entries[0]["event"])
	assert.Equal(t, "discard", entries[0]["action"])
	assert.Equal(t, float64(3), entries[0]["turn"])
}

func TestSessionLoggerAppends(t *testing.T) {
	dir := t.TempDir()

	first, err := New(dir)
	require.NoError(t, err)
	first.SessionStarted("input", "output")
	require.NoError(t, first.Close())

	second, err := New(dir)
	require.NoError(t, err)
	second.SessionEnded("exit")
	require.NoError(t, second.Close())

	assert.Equal(t, first.Path(), second.Path())
	assert.Len(t, readEntries(t, first.Path()), 2)
}

func TestSessionLoggerRedactsInstruction(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)
	l.InstructionAccepted(1, "use api_key=abcdefghijklmnop1234 please", "staff.csv", "CSV")
	require.NoError(t, l.Close())

	entries := readEntries(t, l.Path())
	instruction := entries[0]["instruction"].(string)
	assert.NotContains(t, instruction, "abcdefghijklmnop1234")
	assert.Contains(t, instruction, "[REDACTED]")
}
