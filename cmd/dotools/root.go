package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonwraymond/dotools/config"
	"github.com/jonwraymond/dotools/logging"
	"github.com/jonwraymond/dotools/server"
)

// app carries state shared by every command.
type app struct {
	configPath string
	overrides  config.Overrides
	jsonLogs   bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "dotools",
		Short: "Stata do-file tools over MCP",
		Long: `dotools manages and runs Stata do-files for an LLM assistant.

Run without a subcommand to serve the tools over MCP on stdin/stdout.
The run, run-lines and sections subcommands use the same machinery from
the shell.

Settings come from dotools.yaml (or --config), then DOTOOLS_WORKSPACE,
DOTOOLS_LOG_LEVEL, DOTOOLS_RUN_TIMEOUT and STATA_PATH, then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default ./"+config.DefaultFile+" if present)")
	flags.StringVarP(&a.overrides.Workspace, "workspace", "w", "", "workspace root directory")
	flags.StringVar(&a.overrides.StataPath, "stata", "", "path to the Stata executable")
	flags.StringVar(&a.overrides.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.overrides.Timeout, "timeout", "", "bound on each Stata run, e.g. 10m (0 for none)")
	flags.BoolVar(&a.jsonLogs, "log-json", false, "write logs as JSON")

	cmd.AddCommand(
		newServeCmd(a),
		newRunCmd(a),
		newRunLinesCmd(a),
		newSectionsCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// setup loads and resolves the configuration and builds the logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	cfg.Apply(a.overrides)
	if a.jsonLogs {
		cfg.Logging.JSON = true
	}
	if err := cfg.Resolve(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level, JSON: cfg.Logging.JSON})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// server builds the configured server.
func (a *app) server() (*server.Server, error) {
	if a.cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return server.New(a.cfg, a.logger)
}
