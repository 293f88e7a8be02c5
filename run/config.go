package run

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config controls how the interpreter is invoked.
type Config struct {
	// Executable is the path (or PATH-resolvable name) of the Stata binary.
	// Required.
	Executable string

	// BatchFlag is the non-interactive flag passed before "do".
	// Defaults to DefaultBatchFlag for the host platform.
	BatchFlag string

	// Timeout bounds the wait for the process. Zero waits indefinitely.
	Timeout time.Duration

	// Env holds extra KEY=VALUE entries appended to the inherited environment.
	Env []string

	// Logger receives process lifecycle events. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Validate checks that required fields are set.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Executable) == "" {
		return fmt.Errorf("%w: interpreter executable is required", ErrConfiguration)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %v", ErrConfiguration, c.Timeout)
	}
	return nil
}

// applyDefaults sets default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.BatchFlag == "" {
		c.BatchFlag = DefaultBatchFlag()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// ConfigOption is a functional option for configuring an Interpreter.
type ConfigOption func(*Config)

// WithExecutable sets the interpreter executable.
func WithExecutable(path string) ConfigOption {
	return func(c *Config) {
		c.Executable = path
	}
}

// WithBatchFlag overrides the platform batch flag.
func WithBatchFlag(flag string) ConfigOption {
	return func(c *Config) {
		c.BatchFlag = flag
	}
}

// WithTimeout bounds how long a run may take before the process is killed.
func WithTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithEnv appends KEY=VALUE entries to the process environment.
func WithEnv(env ...string) ConfigOption {
	return func(c *Config) {
		c.Env = append(c.Env, env...)
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ConfigOption {
	return func(c *Config) {
		c.Logger = l
	}
}

// DefaultBatchFlag returns the batch-mode flag for the host platform.
func DefaultBatchFlag() string {
	return batchFlagFor(runtime.GOOS)
}

func batchFlagFor(goos string) string {
	if goos == "windows" {
		return "/e"
	}
	return "-b"
}

// DefaultExecutables lists the conventional Stata install locations for
// goos, most capable edition first.
func DefaultExecutables(goos string) []string {
	switch goos {
	case "windows":
		var out []string
		for _, v := range []string{"19", "18", "17", "16"} {
			for _, exe := range []string{"StataMP-64.exe", "StataSE-64.exe", "StataBE-64.exe", "StataIC-64.exe"} {
				out = append(out, `C:\Program Files\Stata`+v+`\`+exe)
			}
		}
		return out
	case "darwin":
		return []string{
			"/Applications/Stata/StataMP.app/Contents/MacOS/stata-mp",
			"/Applications/Stata/StataSE.app/Contents/MacOS/stata-se",
			"/Applications/Stata/StataBE.app/Contents/MacOS/stata-be",
			"/Applications/Stata/StataIC.app/Contents/MacOS/stata-ic",
			"/Applications/Stata/StataMP.app/Contents/MacOS/StataMP",
		}
	default:
		var out []string
		for _, dir := range []string{"/usr/local/stata19", "/usr/local/stata18", "/usr/local/stata17", "/usr/local/stata"} {
			for _, exe := range []string{"stata-mp", "stata-se", "stata-be", "stata"} {
				out = append(out, dir+"/"+exe)
			}
		}
		return out
	}
}
