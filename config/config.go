// Package config loads dotools settings.
//
// Settings are layered: built-in defaults, then an optional YAML file, then
// environment variables, then explicit overrides (command-line flags).
// [Config.Resolve] must be called once all layers are applied; it fills
// defaults, picks the interpreter path and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/dotools/run"
	"github.com/jonwraymond/dotools/workspace"
)

// DefaultFile is the config file looked up in the working directory when no
// path is given.
const DefaultFile = "dotools.yaml"

// Environment variables consulted by Load.
const (
	EnvWorkspace  = "DOTOOLS_WORKSPACE"
	EnvLogLevel   = "DOTOOLS_LOG_LEVEL"
	EnvRunTimeout = "DOTOOLS_RUN_TIMEOUT"
	EnvStataPath  = "STATA_PATH"
)

// ErrConfiguration is returned when settings are invalid.
var ErrConfiguration = errors.New("config: invalid configuration")

// Config holds all dotools settings.
type Config struct {
	// Workspace is the root directory relative paths resolve against.
	// Default: the working directory.
	Workspace string `yaml:"workspace"`

	// BackupDir is the backup directory name under the workspace root.
	// Default: workspace.DefaultBackupDir
	BackupDir string `yaml:"backup_dir"`

	Stata   StataConfig   `yaml:"stata"`
	Logging LoggingConfig `yaml:"logging"`
}

// StataConfig configures the interpreter.
type StataConfig struct {
	// Path to the Stata executable. When empty, the platform defaults are
	// searched.
	Path string `yaml:"path"`

	// Timeout bounds each interpreter run, as a Go duration string.
	// Empty or "0" means no bound.
	Timeout string `yaml:"timeout"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`

	// JSON selects JSON output instead of console encoding.
	JSON bool `yaml:"json"`
}

// Overrides carries explicitly requested values; empty fields are ignored.
type Overrides struct {
	Workspace string
	StataPath string
	LogLevel  string
	Timeout   string
}

// Default returns a Config with built-in defaults.
func Default() *Config {
	return &Config{
		BackupDir: workspace.DefaultBackupDir,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path (or DefaultFile when path is empty) over the defaults and
// applies environment overrides. A missing DefaultFile is not an error; a
// missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		file = DefaultFile
	}

	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", file, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == "":
		// No config file; defaults and environment only.
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvWorkspace); v != "" {
		c.Workspace = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvRunTimeout); v != "" {
		c.Stata.Timeout = v
	}
	if v := os.Getenv(EnvStataPath); v != "" {
		c.Stata.Path = v
	}
}

// Apply layers explicit overrides on top of the current values.
func (c *Config) Apply(o Overrides) {
	if o.Workspace != "" {
		c.Workspace = o.Workspace
	}
	if o.StataPath != "" {
		c.Stata.Path = o.StataPath
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.Timeout != "" {
		c.Stata.Timeout = o.Timeout
	}
}

// Resolve fills defaults, resolves the interpreter path and validates.
// Call it once, after Load and Apply.
func (c *Config) Resolve() error {
	c.applyDefaults()
	c.Stata.Path = resolveExecutable(c.Stata.Path, run.DefaultExecutables(runtime.GOOS), fileExists)
	return c.Validate()
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.BackupDir == "" {
		c.BackupDir = workspace.DefaultBackupDir
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var problems []string

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.Logging.Level))
	}
	if _, err := c.RunTimeout(); err != nil {
		problems = append(problems, err.Error())
	}
	if strings.ContainsAny(c.BackupDir, `/\`) {
		problems = append(problems, fmt.Sprintf("backup_dir %q must be a single directory name", c.BackupDir))
	}
	if c.Stata.Path == "" {
		problems = append(problems, "no Stata executable configured")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// RunTimeout returns the interpreter timeout; zero means unbounded.
func (c *Config) RunTimeout() (time.Duration, error) {
	if c.Stata.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Stata.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid stata timeout %q", c.Stata.Timeout)
	}
	if d < 0 {
		return 0, fmt.Errorf("stata timeout %q must not be negative", c.Stata.Timeout)
	}
	return d, nil
}

// resolveExecutable returns override when set, else the first candidate that
// exists, else the first candidate. Spawning reports a missing executable.
func resolveExecutable(override string, candidates []string, exists func(string) bool) string {
	if override != "" {
		return override
	}
	for _, c := range candidates {
		if exists(c) {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
