package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/haozl/sheetwright/pkg/ops"
)

// RunScriptCommand is the hidden subcommand of this binary that
// interprets a persisted script. The runner spawns its own executable
// with it so the script gets a real process boundary and a killable PID.
const RunScriptCommand = "run-script"

// Result captures one script execution. A non-zero ExitCode or TimedOut
// is a script failure; infrastructure failures surface as errors from Run
// instead.
type Result struct {
	ScriptPath string
	Stdout     string
	Stderr     string
	ExitCode   int
	TimedOut   bool
	Elapsed    time.Duration
}

func (r *Result) Success() bool {
	return r.ExitCode == 0 && !r.TimedOut
}

// PolicyPathEnv tells the child which policy file to load; an empty or
// unset value means the built-in policy.
const PolicyPathEnv = "SHEETWRIGHT_POLICY_PATH"

// Runner executes scripts out of one Area with a fixed per-script
// timeout.
type Runner struct {
	area       *Area
	binary     string
	timeout    time.Duration
	inputDir   string
	policyPath string
}

func NewRunner(area *Area, timeout time.Duration, inputDir, policyPath string) (*Runner, error) {
	binary, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate own executable: %w", err)
	}
	return &Runner{area: area, binary: binary, timeout: timeout, inputDir: inputDir, policyPath: policyPath}, nil
}

// Run persists the script and executes it in a child process. The script
// file stays behind for the life of the session, success or failure.
func (r *Runner) Run(ctx context.Context, script string) (*Result, error) {
	name := fmt.Sprintf("turn_%s_%s.go", time.Now().Format("20060102150405"), shortID())
	scriptPath := filepath.Join(r.area.Dir(), name)
	if err := os.WriteFile(scriptPath, []byte(script), 0o600); err != nil {
		return nil, fmt.Errorf("persist script: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, RunScriptCommand, scriptPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// The child enforces the read-only input directory at save time.
	cmd.Env = append(os.Environ(),
		ops.InputDirEnv+"="+r.inputDir,
		PolicyPathEnv+"="+r.policyPath,
	)

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		ScriptPath: scriptPath,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		Elapsed:    time.Since(start),
	}

	if ctx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		result.ExitCode = -1
		return result, nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("spawn script runner: %w", err)
	}
	return result, nil
}

func shortID() string {
	return uuid.NewString()[:8]
}
