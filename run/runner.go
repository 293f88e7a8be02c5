package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// waitDelay bounds how long Wait keeps reading output after the process is
// killed, in case a child still holds the pipes open.
const waitDelay = 2 * time.Second

// Result is the outcome of one interpreter run.
type Result struct {
	// Success is true when the process exited with code 0.
	Success bool `json:"success"`

	// ExitCode is the process exit code, -1 when killed.
	ExitCode int `json:"exitCode"`

	// Output is the log file content, or stdout, or stderr, whichever is
	// the first non-empty.
	Output string `json:"output"`

	// LogPath is where the interpreter's log is (or would have been) written.
	LogPath string `json:"logPath"`

	// Stdout and Stderr hold the raw process streams.
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}

// Runner executes a do-file.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation; the process is killed when ctx ends.
// - Errors: launch failures return SpawnError; a non-zero exit is not an error.
type Runner interface {
	Run(ctx context.Context, scriptPath string) (Result, error)
}

// Interpreter runs do-files through a Stata executable.
type Interpreter struct {
	cfg Config
}

// NewInterpreter creates an Interpreter. Returns ErrConfiguration if no
// executable is configured.
func NewInterpreter(opts ...ConfigOption) (*Interpreter, error) {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &Interpreter{cfg: cfg}, nil
}

// Executable returns the configured interpreter path.
func (i *Interpreter) Executable() string {
	return i.cfg.Executable
}

// LogPath returns the companion log path for scriptPath: the same path with
// its extension replaced by ".log".
func LogPath(scriptPath string) string {
	return strings.TrimSuffix(scriptPath, filepath.Ext(scriptPath)) + ".log"
}

// Run executes scriptPath in batch mode and collects its output.
func (i *Interpreter) Run(ctx context.Context, scriptPath string) (Result, error) {
	abs, err := filepath.Abs(scriptPath)
	if err != nil {
		return Result{}, fmt.Errorf("resolve script path %q: %w", scriptPath, err)
	}
	res := Result{LogPath: LogPath(abs)}

	parent := ctx
	if i.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, i.cfg.Executable, i.cfg.BatchFlag, "do", abs)
	cmd.Dir = filepath.Dir(abs)
	cmd.Env = append(os.Environ(), i.cfg.Env...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := i.cfg.Logger.With(zap.String("script", abs))
	log.Debug("starting interpreter",
		zap.String("executable", i.cfg.Executable),
		zap.String("flag", i.cfg.BatchFlag))

	start := time.Now()
	runErr := cmd.Run()
	res.Duration = time.Since(start)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.ExitCode = -1
			res.Output = collectOutput(res)
			log.Warn("interpreter stopped", zap.Error(ctxErr), zap.Duration("duration", res.Duration))
			// The caller's context wins when both have expired.
			if err := parent.Err(); err != nil {
				return res, err
			}
			return res, fmt.Errorf("%w after %v", ErrTimeout, i.cfg.Timeout)
		}

		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			log.Error("interpreter failed to start", zap.Error(runErr))
			return res, &SpawnError{Executable: i.cfg.Executable, Err: runErr}
		}
		res.ExitCode = exitErr.ExitCode()
	}

	res.Success = res.ExitCode == 0
	res.Output = collectOutput(res)
	log.Info("interpreter finished",
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("duration", res.Duration))
	return res, nil
}

// collectOutput applies the output precedence: log file, stdout, stderr.
func collectOutput(res Result) string {
	if data, err := os.ReadFile(res.LogPath); err == nil && len(data) > 0 {
		return string(data)
	}
	if res.Stdout != "" {
		return res.Stdout
	}
	return res.Stderr
}
