// Package session owns one interactive run end to end: directory
// bootstrap, the throwaway script area, and the per-instruction pipeline
// from prompt to execution. All state is explicit; two sessions in one
// process would not share anything.
package session

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/haozl/sheetwright/internal/catalog"
	"github.com/haozl/sheetwright/internal/config"
	"github.com/haozl/sheetwright/internal/llm"
	"github.com/haozl/sheetwright/internal/logger"
	"github.com/haozl/sheetwright/internal/policy"
	"github.com/haozl/sheetwright/internal/prompt"
	"github.com/haozl/sheetwright/internal/review"
	"github.com/haozl/sheetwright/internal/sandbox"
)

// Turn is the record of one completed instruction.
type Turn struct {
	Number int
	Target catalog.Target
	Script string
	Result *sandbox.Result
}

// ValidationError means the script was rejected and never executed.
type ValidationError struct {
	Verdict policy.Verdict
}

func (e *ValidationError) Error() string {
	if e.Verdict.Pattern != "" {
		return fmt.Sprintf("script rejected: %s (matched %q)", e.Verdict.Reason, e.Verdict.Pattern)
	}
	return "script rejected: " + e.Verdict.Reason
}

// ReviewDeclined means the user discarded the script at the review gate.
type ReviewDeclined struct{}

func (e *ReviewDeclined) Error() string {
	return "script discarded at review"
}

// ExecutionError means the script ran and failed; the result carries the
// diagnostic.
type ExecutionError struct {
	Result *sandbox.Result
}

func (e *ExecutionError) Error() string {
	if e.Result.TimedOut {
		return "script execution timed out"
	}
	return fmt.Sprintf("script exited with code %d", e.Result.ExitCode)
}

// Options are the per-run switches.
type Options struct {
	Review bool
}

// Session is one interactive run.
type Session struct {
	cfg       *config.Config
	log       *logger.SessionLogger
	validator *policy.Validator
	client    *llm.Client
	builder   *prompt.Builder
	area      *sandbox.Area
	runner    *sandbox.Runner
	opts      Options
	turn      int
}

// New bootstraps the directory contract and the throwaway script area.
func New(cfg *config.Config, log *logger.SessionLogger, pol *policy.Policy, opts Options) (*Session, error) {
	for _, dir := range []string{cfg.InputDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	area, err := sandbox.NewArea()
	if err != nil {
		return nil, err
	}
	runner, err := sandbox.NewRunner(area, cfg.ExecTimeout, cfg.InputDir, cfg.PolicyPath)
	if err != nil {
		area.Cleanup()
		return nil, err
	}

	s := &Session{
		cfg:       cfg,
		log:       log,
		validator: policy.NewValidator(pol, cfg.InputDir),
		client:    llm.NewClient(cfg.APIURL, cfg.APIKey, cfg.Model, cfg.RequestTimeout),
		builder:   prompt.NewBuilder(cfg.OutputDir),
		area:      area,
		runner:    runner,
		opts:      opts,
	}
	log.SessionStarted(cfg.InputDir, cfg.OutputDir)
	return s, nil
}

// Catalog rescans the input directory.
func (s *Session) Catalog() (*catalog.Catalog, error) {
	return catalog.Scan(s.cfg.InputDir)
}

// ScriptDir returns the throwaway area, for display.
func (s *Session) ScriptDir() string {
	return s.area.Dir()
}

// RunTurn takes one instruction through the full pipeline. Every stage
// outcome is logged before the next stage starts; the first failure ends
// the turn and leaves the session ready for the next instruction.
func (s *Session) RunTurn(ctx context.Context, instruction string) (*Turn, error) {
	s.turn++
	turn := &Turn{Number: s.turn}

	cat, err := s.Catalog()
	if err != nil {
		return turn, err
	}
	target, err := cat.Resolve(instruction)
	if err != nil {
		s.log.TargetUnresolved(turn.Number, instruction, err)
		return turn, err
	}
	turn.Target = target
	s.log.InstructionAccepted(turn.Number, instruction, target.Artifact.Name, target.Sheet)

	p := s.builder.Build(cat, target, instruction)
	s.log.GenerationAttempted(turn.Number, len(p))
	start := time.Now()
	script, err := s.client.Generate(ctx, p)
	if err != nil {
		s.log.GenerationFailed(turn.Number, llm.Kind(err), err)
		return turn, err
	}
	s.log.GenerationSucceeded(turn.Number, len(script), time.Since(start))
	turn.Script = script

	verdict := s.validator.Validate(script)
	s.log.ValidationVerdict(turn.Number, verdict.Pass, verdict.Reason, verdict.Pattern)
	if !verdict.Pass {
		return turn, &ValidationError{Verdict: verdict}
	}

	if s.opts.Review {
		if res := review.Ask(script); !res.Approved {
			s.log.ReviewDeclined(turn.Number, res.UserAction)
			return turn, &ReviewDeclined{}
		}
	}

	result, err := s.runner.Run(ctx, script)
	if err != nil {
		return turn, err
	}
	turn.Result = result
	if !result.Success() {
		diagnostic := result.Stderr
		if diagnostic == "" {
			diagnostic = result.Stdout
		}
		s.log.ExecutionFailed(turn.Number, result.TimedOut, result.ExitCode, diagnostic)
		return turn, &ExecutionError{Result: result}
	}
	s.log.ExecutionSucceeded(turn.Number, result.Elapsed, result.Stdout)
	return turn, nil
}

// Close tears the session down. Cleanup failures are logged and reported,
// never fatal.
func (s *Session) Close(reason string) {
	if err := s.area.Cleanup(); err != nil {
		s.log.CleanupWarning(s.area.Dir(), err)
		fmt.Fprintf(os.Stderr, "warning: could not remove script area %s: %v\n", s.area.Dir(), err)
	}
	s.log.SessionEnded(reason)
	s.log.Close()
}
