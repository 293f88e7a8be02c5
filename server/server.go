// Package server assembles the dotools MCP server.
//
// New wires a workspace, the Stata interpreter, the selective executor and
// the toolset from a resolved config.Config. Run serves one transport until
// the client disconnects or the context ends.
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/jonwraymond/dotools/config"
	"github.com/jonwraymond/dotools/exec"
	"github.com/jonwraymond/dotools/run"
	"github.com/jonwraymond/dotools/tools"
	"github.com/jonwraymond/dotools/workspace"
)

// Name is the implementation name reported to clients.
const Name = "dotools"

// Version is the implementation version reported to clients. It is set at
// build time with -ldflags "-X github.com/jonwraymond/dotools/server.Version=...".
var Version = "dev"

// ErrConfigRequired is returned by New when cfg is nil.
var ErrConfigRequired = errors.New("server: config is required")

// Server is a configured MCP server.
type Server struct {
	mcp       *mcp.Server
	workspace *workspace.Workspace
	executor  *exec.Executor
	toolset   *tools.Toolset
	logger    *zap.Logger
}

// Option customizes New.
type Option func(*settings)

type settings struct {
	runner run.Runner
}

// WithRunner replaces the Stata interpreter, mainly for tests.
func WithRunner(r run.Runner) Option {
	return func(s *settings) {
		s.runner = r
	}
}

// New builds a Server from cfg. cfg must already be resolved.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	ws, err := workspace.New(cfg.Workspace, workspace.WithBackupDir(cfg.BackupDir))
	if err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}

	runner := s.runner
	if runner == nil {
		timeout, err := cfg.RunTimeout()
		if err != nil {
			return nil, err
		}
		interp, err := run.NewInterpreter(
			run.WithExecutable(cfg.Stata.Path),
			run.WithTimeout(timeout),
			run.WithLogger(logger.Named("run")),
		)
		if err != nil {
			return nil, err
		}
		runner = interp
	}

	locks := &workspace.Locks{}
	executor, err := exec.New(exec.Options{
		Workspace: ws,
		Runner:    runner,
		Locks:     locks,
		Logger:    logger.Named("exec"),
	})
	if err != nil {
		return nil, err
	}

	toolset, err := tools.New(tools.Options{
		Workspace: ws,
		Executor:  executor,
		Locks:     locks,
		Logger:    logger.Named("tools"),
	})
	if err != nil {
		return nil, err
	}

	srv := mcp.NewServer(&mcp.Implementation{Name: Name, Version: Version}, nil)
	toolset.Register(srv)

	logger.Info("server configured",
		zap.String("workspace", ws.Root()),
		zap.String("stata", cfg.Stata.Path),
		zap.Int("tools", len(toolset.Tools())),
	)

	return &Server{
		mcp:       srv,
		workspace: ws,
		executor:  executor,
		toolset:   toolset,
		logger:    logger,
	}, nil
}

// MCP returns the underlying mcp.Server.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Workspace returns the server's workspace.
func (s *Server) Workspace() *workspace.Workspace {
	return s.workspace
}

// Executor returns the server's executor.
func (s *Server) Executor() *exec.Executor {
	return s.executor
}

// Toolset returns the registered toolset.
func (s *Server) Toolset() *tools.Toolset {
	return s.toolset
}

// Run serves transport until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("serving", zap.String("transport", fmt.Sprintf("%T", transport)))
	err := s.mcp.Run(ctx, transport)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}
	s.logger.Info("stopped")
	return nil
}

// RunStdio serves over stdin/stdout.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}
