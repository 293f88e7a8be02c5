package exec

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonwraymond/dotools/run"
	"github.com/jonwraymond/dotools/script"
	"github.com/jonwraymond/dotools/workspace"
)

// Executor runs whole do-files and selected line ranges.
//
// Contract:
// - Concurrency: safe for concurrent use; work on the same path is serialized
//   unless Options.DisableLocking is set.
// - Context: cancellation stops the interpreter; ephemeral files are still removed.
// - Errors: RangeError for bad bounds, workspace.ErrNotFound for missing
//   scripts, run.SpawnError when the interpreter cannot start. A non-zero
//   interpreter exit is reported through Result.Success, not as an error.
type Executor struct {
	opts Options
}

// New creates an Executor with the given options.
func New(opts Options) (*Executor, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()
	return &Executor{opts: opts}, nil
}

// RunFile runs the whole script at path. The interpreter's log is left in
// place next to the script.
func (e *Executor) RunFile(ctx context.Context, path string) (run.Result, error) {
	full := e.opts.Workspace.Resolve(path)
	if !e.opts.Workspace.Exists(full) {
		return run.Result{}, fmt.Errorf("%w: %s", workspace.ErrNotFound, full)
	}

	unlock := e.lock(full)
	defer unlock()

	return e.opts.Runner.Run(ctx, full)
}

// ExecuteSelectedLines runs lines start through end (1-based, inclusive) of
// the script at path by way of an ephemeral do-file. The returned output is
// prefixed with a banner naming the source and range.
func (e *Executor) ExecuteSelectedLines(ctx context.Context, path string, start, end int) (res run.Result, err error) {
	// Bounds that do not depend on the file length fail before any I/O.
	if start < 1 || start > end {
		return run.Result{}, ValidateRange(start, end, end)
	}

	ws := e.opts.Workspace
	full := ws.Resolve(path)

	unlock := e.lock(full)
	defer unlock()

	text, err := ws.ReadText(full)
	if err != nil {
		return run.Result{}, err
	}
	selected, err := ExtractRange(script.Lines(text), start, end)
	if err != nil {
		return run.Result{}, err
	}

	now := e.opts.Now()
	ephemeral := filepath.Join(filepath.Dir(full), ephemeralName(full, start, end, now.Format("20060102150405.000")))
	content := Synthesize(selected, full, start, end, now)

	log := e.opts.Logger.With(
		zap.String("source", full),
		zap.Int("start", start),
		zap.Int("end", end),
		zap.String("ephemeral", ephemeral),
	)

	if err := ws.WriteText(ephemeral, content); err != nil {
		return run.Result{}, fmt.Errorf("write ephemeral script: %w", err)
	}
	defer e.cleanup(log, ephemeral)

	log.Debug("running selected lines", zap.Int("lines", len(selected)))
	res, err = e.opts.Runner.Run(ctx, ephemeral)
	if err != nil {
		return res, err
	}

	res.Output = Banner(full, start, end) + res.Output
	return res, nil
}

// Banner is the provenance header prepended to selective-run output.
func Banner(source string, start, end int) string {
	title := fmt.Sprintf("Selected lines %d-%d of %s", start, end, source)
	return title + "\n" + strings.Repeat("=", len(title)) + "\n\n"
}

// cleanup removes the ephemeral script and its log. Failures are logged only.
func (e *Executor) cleanup(log *zap.Logger, ephemeral string) {
	for _, p := range []string{ephemeral, run.LogPath(ephemeral)} {
		if err := e.opts.Workspace.RemoveIfExists(p); err != nil {
			log.Warn("could not remove ephemeral artifact", zap.String("path", p), zap.Error(err))
		}
	}
}

func (e *Executor) lock(path string) func() {
	if e.opts.DisableLocking {
		return func() {}
	}
	return e.opts.Locks.Lock(path)
}

// ephemeralName derives a collision-resistant file name from the source base
// name, the range and a timestamp, plus a random suffix.
func ephemeralName(source string, start, end int, stamp string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	stamp = strings.ReplaceAll(stamp, ".", "")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_lines_%d-%d_%s_%s.do", base, start, end, stamp, suffix)
}
