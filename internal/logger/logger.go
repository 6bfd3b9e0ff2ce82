// Package logger is the append-only session log: one JSON line per
// pipeline stage transition, one growing file per calendar day. Entries
// are never rewritten; a single writer appends in pipeline order within a
// turn and in acceptance order across turns.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/haozl/sheetwright/internal/redact"
)

// Stage names, as recorded in the "stage" field of every entry.
const (
	StageSession     = "session"
	StageInstruction = "instruction"
	StageGeneration  = "generation"
	StageValidation  = "validation"
	StageReview      = "review"
	StageExecution   = "execution"
	StageCleanup     = "cleanup"
)

const filePrefix = "sheetwright_"

// SessionLogger writes structured entries to the current day's log file.
type SessionLogger struct {
	zl   *zap.Logger
	file *os.File
	path string
}

// DayPath returns the log file path for a given day.
func DayPath(logDir string, day time.Time) string {
	return filepath.Join(logDir, fmt.Sprintf("%s%s.log", filePrefix, day.Format("20060102")))
}

// New opens (appending) the log file for today, creating the directory
// when needed.
func New(logDir string) (*SessionLogger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	path := DayPath(logDir, time.Now())
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open session log: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.MessageKey = "event"
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), zapcore.InfoLevel)

	return &SessionLogger{zl: zap.New(core), file: file, path: path}, nil
}

// Path returns the file this logger appends to.
func (l *SessionLogger) Path() string {
	return l.path
}

// Close flushes and closes the underlying file.
func (l *SessionLogger) Close() error {
	_ = l.zl.Sync()
	return l.file.Close()
}

func (l *SessionLogger) SessionStarted(inputDir, outputDir string) {
	l.zl.Info("session started",
		zap.String("stage", StageSession),
		zap.String("input_dir", inputDir),
		zap.String("output_dir", outputDir),
	)
}

func (l *SessionLogger) SessionEnded(reason string) {
	l.zl.Info("session ended",
		zap.String("stage", StageSession),
		zap.String("reason", reason),
	)
}

func (l *SessionLogger) InstructionAccepted(turn int, instruction, artifact, sheet string) {
	l.zl.Info("instruction accepted",
		zap.Int("turn", turn),
		zap.String("stage", StageInstruction),
		zap.String("instruction", redact.Redact(instruction)),
		zap.String("artifact", artifact),
		zap.String("sheet", sheet),
	)
}

func (l *SessionLogger) TargetUnresolved(turn int, instruction string, err error) {
	l.zl.Warn("instruction target unresolved",
		zap.Int("turn", turn),
		zap.String("stage", StageInstruction),
		zap.String("instruction", redact.Redact(instruction)),
		zap.String("error", err.Error()),
	)
}

func (l *SessionLogger) GenerationAttempted(turn int, promptBytes int) {
	l.zl.Info("generation attempted",
		zap.Int("turn", turn),
		zap.String("stage", StageGeneration),
		zap.Int("prompt_bytes", promptBytes),
	)
}

func (l *SessionLogger) GenerationSucceeded(turn int, scriptBytes int, elapsed time.Duration) {
	l.zl.Info("generation succeeded",
		zap.Int("turn", turn),
		zap.String("stage", StageGeneration),
		zap.Int("script_bytes", scriptBytes),
		zap.Duration("elapsed", elapsed),
	)
}

// GenerationFailed records the failure kind (transport, auth, service) so
// the three are distinguishable in diagnostics.
func (l *SessionLogger) GenerationFailed(turn int, kind string, err error) {
	l.zl.Error("generation failed",
		zap.Int("turn", turn),
		zap.String("stage", StageGeneration),
		zap.String("kind", kind),
		zap.String("error", redact.Redact(err.Error())),
	)
}

// ValidationVerdict records pass or fail; on fail the matched pattern is
// kept so the decision can be reproduced.
func (l *SessionLogger) ValidationVerdict(turn int, pass bool, reason, pattern string) {
	fields := []zap.Field{
		zap.Int("turn", turn),
		zap.String("stage", StageValidation),
		zap.Bool("pass", pass),
	}
	if pass {
		l.zl.Info("validation passed", fields...)
		return
	}
	fields = append(fields,
		zap.String("reason", reason),
		zap.String("matched_pattern", pattern),
	)
	l.zl.Warn("validation failed", fields...)
}

// ReviewDeclined records a validated script discarded at the review gate.
// Nothing was executed; the turn ends here.
func (l *SessionLogger) ReviewDeclined(turn int, action string) {
	l.zl.Info("script discarded at review",
		zap.Int("turn", turn),
		zap.String("stage", StageReview),
		zap.String("action", action),
	)
}

func (l *SessionLogger) ExecutionSucceeded(turn int, elapsed time.Duration, stdout string) {
	l.zl.Info("execution succeeded",
		zap.Int("turn", turn),
		zap.String("stage", StageExecution),
		zap.Duration("elapsed", elapsed),
		zap.String("stdout", redact.Redact(stdout)),
	)
}

func (l *SessionLogger) ExecutionFailed(turn int, timedOut bool, exitCode int, diagnostic string) {
	l.zl.Error("execution failed",
		zap.Int("turn", turn),
		zap.String("stage", StageExecution),
		zap.Bool("timeout", timedOut),
		zap.Int("exit_code", exitCode),
		zap.String("diagnostic", redact.Redact(diagnostic)),
	)
}

// CleanupWarning is non-fatal: removal failures are recorded and the
// session moves on.
func (l *SessionLogger) CleanupWarning(path string, err error) {
	l.zl.Warn("cleanup failed",
		zap.String("stage", StageCleanup),
		zap.String("path", path),
		zap.String("error", err.Error()),
	)
}
