package session

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haozl/sheetwright/internal/config"
	"github.com/haozl/sheetwright/internal/llm"
	"github.com/haozl/sheetwright/internal/logger"
	"github.com/haozl/sheetwright/internal/policy"
	"github.com/haozl/sheetwright/internal/sandbox"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Verdict: policy.Verdict{
		Pattern: "os/exec",
		Reason:  "scripts must not spawn processes",
	}}
	assert.Equal(t, `script rejected: scripts must not spawn processes (matched "os/exec")`, err.Error())

	err = &ValidationError{Verdict: policy.Verdict{Reason: "script is empty"}}
	assert.Equal(t, "script rejected: script is empty", err.Error())
}

func TestExecutionErrorMessage(t *testing.T) {
	err := &ExecutionError{Result: &sandbox.Result{TimedOut: true, ExitCode: -1}}
	assert.Equal(t, "script execution timed out", err.Error())

	err = &ExecutionError{Result: &sandbox.Result{ExitCode: 2}}
	assert.Equal(t, "script exited with code 2", err.Error())
}

// newTestSession wires a session against a stub generation endpoint and a
// temp input directory holding one CSV. The caller closes the session
// before reading the log back.
func newTestSession(t *testing.T, handler http.HandlerFunc) (*Session, string) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	root := t.TempDir()
	inputDir := filepath.Join(root, "input")
	require.NoError(t, os.MkdirAll(inputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "staff.csv"),
		[]byte("name,dept\nada,eng\ngrace,ops\n"), 0o600))

	cfg := &config.Config{
		APIURL:         server.URL,
		APIKey:         "test-key",
		Model:          "deepseek-chat",
		RequestTimeout: 5 * time.Second,
		ExecTimeout:    5 * time.Second,
		InputDir:       inputDir,
		OutputDir:      filepath.Join(root, "output"),
		LogDir:         filepath.Join(root, "logs"),
	}
	log, err := logger.New(cfg.LogDir)
	require.NoError(t, err)

	s, err := New(cfg, log, policy.DefaultPolicy(), Options{})
	require.NoError(t, err)
	return s, log.Path()
}

func readLogEntries(t *testing.T, path string) []map[string]interface{} {
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

func logStages(entries []map[string]interface{}) []string {
	var stages []string
	for _, e := range entries {
		if stage, ok := e["stage"].(string); ok {
			stages = append(stages, stage)
		}
	}
	return stages
}

func TestRunTurnStopsAtGenerationOnAuthFailure(t *testing.T) {
	s, logPath := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusUnauthorized)
	})

	turn, err := s.RunTurn(context.Background(), "sum the dept column in staff.csv")
	var authErr *llm.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Empty(t, turn.Script)
	assert.Nil(t, turn.Result)

	s.Close("test")
	entries := readLogEntries(t, logPath)
	stages := logStages(entries)
	assert.Contains(t, stages, logger.StageGeneration)
	assert.NotContains(t, stages, logger.StageValidation)
	assert.NotContains(t, stages, logger.StageExecution)

	var failed map[string]interface{}
	for _, e := range entries {
		if e["event"] == "generation failed" {
			failed = e
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, llm.KindAuth, failed["kind"])
}

func TestRunTurnStopsAtValidationOnDenylistedScript(t *testing.T) {
	completion := "```go\npackage main\n\nimport \"os/exec\"\n\nfunc main() { exec.Command(\"ls\").Run() }\n```"
	s, logPath := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"content": completion}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	turn, err := s.RunTurn(context.Background(), "sum the dept column in staff.csv")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "os/exec", valErr.Verdict.Pattern)
	assert.NotEmpty(t, turn.Script)
	assert.Nil(t, turn.Result)

	s.Close("test")
	entries := readLogEntries(t, logPath)
	assert.NotContains(t, logStages(entries), logger.StageExecution)

	var verdict map[string]interface{}
	for _, e := range entries {
		if e["stage"] == logger.StageValidation {
			verdict = e
		}
	}
	require.NotNil(t, verdict)
	assert.Equal(t, false, verdict["pass"])
	assert.Equal(t, "os/exec", verdict["matched_pattern"])
}
