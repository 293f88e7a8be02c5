package exec

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jonwraymond/dotools/run"
	"github.com/jonwraymond/dotools/workspace"
)

// Errors returned by Options validation.
var (
	ErrWorkspaceRequired = errors.New("exec: Workspace is required")
	ErrRunnerRequired    = errors.New("exec: Runner is required")
)

// Options configures an Executor.
type Options struct {
	// Workspace resolves and accesses script files.
	// Required.
	Workspace *workspace.Workspace

	// Runner executes do-files.
	// Required.
	Runner run.Runner

	// Locks serializes work on the same source path. Share one Locks value
	// with other writers of the workspace so edits and runs coordinate.
	// Default: a private Locks.
	Locks *workspace.Locks

	// DisableLocking turns off per-path serialization.
	DisableLocking bool

	// Logger receives execution and cleanup events.
	// Default: no-op logger.
	Logger *zap.Logger

	// Now is the clock used for ephemeral names and headers.
	// Default: time.Now
	Now func() time.Time
}

// validate checks that required fields are set.
func (o *Options) validate() error {
	if o.Workspace == nil {
		return ErrWorkspaceRequired
	}
	if o.Runner == nil {
		return ErrRunnerRequired
	}
	return nil
}

// applyDefaults sets default values for unset optional fields.
func (o *Options) applyDefaults() {
	if o.Locks == nil {
		o.Locks = &workspace.Locks{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}
