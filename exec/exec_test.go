package exec

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/dotools/run"
	"github.com/jonwraymond/dotools/run/runtest"
	"github.com/jonwraymond/dotools/workspace"
)

func newExecutor(t *testing.T, ws *workspace.Workspace, r run.Runner) *Executor {
	t.Helper()
	e, err := New(Options{Workspace: ws, Runner: r, Now: fixedNow})
	require.NoError(t, err)
	return e
}

func fakeInterpreter(t *testing.T, env ...string) *run.Interpreter {
	t.Helper()
	interp, err := run.NewInterpreter(
		run.WithExecutable(runtest.Interpreter(t)),
		run.WithEnv(env...),
	)
	require.NoError(t, err)
	return interp
}

func TestNew_Validation(t *testing.T) {
	ws := newTestWorkspace(t, nil)

	_, err := New(Options{Runner: &mockRunner{}})
	assert.ErrorIs(t, err, ErrWorkspaceRequired)

	_, err = New(Options{Workspace: ws})
	assert.ErrorIs(t, err, ErrRunnerRequired)

	e, err := New(Options{Workspace: ws, Runner: &mockRunner{}})
	require.NoError(t, err)
	assert.NotNil(t, e.opts.Locks)
	assert.NotNil(t, e.opts.Logger)
	assert.NotNil(t, e.opts.Now)
}

func TestExecuteSelectedLines_Interpreter(t *testing.T) {
	ws := newTestWorkspace(t, map[string]string{"a.do": twentyLines()})
	e := newExecutor(t, ws, fakeInterpreter(t))

	res, err := e.ExecuteSelectedLines(context.Background(), "a.do", 5, 8)
	require.NoError(t, err)

	assert.True(t, res.Success)
	firstLine := strings.SplitN(res.Output, "\n", 2)[0]
	assert.Contains(t, firstLine, "a.do")
	assert.Contains(t, firstLine, "5-8")
	assert.Contains(t, res.Output, runtest.LogBanner)
	assert.Contains(t, res.Output, "* Line 5\ndisplay 5")
	assert.Contains(t, res.Output, "* Line 8\ndisplay 8")
	assert.NotContains(t, res.Output, "display 4\n")
	assert.NotContains(t, res.Output, "display 9\n")

	assert.Equal(t, []string{"a.do"}, dirNames(t, ws.Root()), "ephemeral script and log removed")
}

func TestExecuteSelectedLines_EphemeralContent(t *testing.T) {
	ws := newTestWorkspace(t, map[string]string{"a.do": twentyLines()})
	mock := &mockRunner{result: run.Result{Success: true, Output: "ok"}}
	e := newExecutor(t, ws, mock)

	res, err := e.ExecuteSelectedLines(context.Background(), "a.do", 5, 8)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.Output, "ok"))

	require.Len(t, mock.calls, 1)
	ephemeral := mock.calls[0]
	assert.Equal(t, ws.Root(), filepath.Dir(ephemeral), "ephemeral lives next to the source")
	assert.True(t, strings.HasPrefix(filepath.Base(ephemeral), "a_lines_5-8_20261017105703123_"))
	assert.Equal(t, ".do", filepath.Ext(ephemeral))

	want := Synthesize([]Line{
		{5, "display 5"}, {6, "display 6"}, {7, "display 7"}, {8, "display 8"},
	}, ws.Resolve("a.do"), 5, 8, fixedNow())
	assert.Equal(t, want, mock.contents[0])

	assert.NoFileExists(t, ephemeral)
	assert.Equal(t, []string{"a.do"}, dirNames(t, ws.Root()))
}

func TestExecuteSelectedLines_NonZeroExit(t *testing.T) {
	ws := newTestWorkspace(t, map[string]string{"a.do": twentyLines()})
	e := newExecutor(t, ws, fakeInterpreter(t, "FAKE_STATA_EXIT=198"))

	res, err := e.ExecuteSelectedLines(context.Background(), "a.do", 1, 3)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 198, res.ExitCode)
	assert.Equal(t, []string{"a.do"}, dirNames(t, ws.Root()))
}

func TestExecuteSelectedLines_SpawnFailureCleansUp(t *testing.T) {
	ws := newTestWorkspace(t, map[string]string{"a.do": twentyLines()})
	interp, err := run.NewInterpreter(run.WithExecutable(runtest.Missing(t)))
	require.NoError(t, err)
	e := newExecutor(t, ws, interp)

	_, err = e.ExecuteSelectedLines(context.Background(), "a.do", 2, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, run.ErrSpawn)
	assert.Equal(t, []string{"a.do"}, dirNames(t, ws.Root()))
}

func TestExecuteSelectedLines_RunnerErrorCleansUp(t *testing.T) {
	ws := newTestWorkspace(t, map[string]string{"a.do": twentyLines()})
	boom := errors.New("boom")
	mock := &mockRunner{err: boom, writeLogs: true}
	e := newExecutor(t, ws, mock)

	_, err := e.ExecuteSelectedLines(context.Background(), "a.do", 1, 20)
	assert.ErrorIs(t, err, boom)

	require.Len(t, mock.contents, 1)
	assert.NotEmpty(t, mock.contents[0], "ephemeral existed during the run")
	assert.Equal(t, []string{"a.do"}, dirNames(t, ws.Root()))
}

func TestExecuteSelectedLines_InvalidRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		reason     RangeReason
	}{
		{"start zero", 0, 3, ReasonStartBelowOne},
		{"start after end", 8, 5, ReasonStartAfterEnd},
		{"end past eof", 5, 25, ReasonEndPastEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := newTestWorkspace(t, map[string]string{"a.do": twentyLines()})
			mock := &mockRunner{}
			e := newExecutor(t, ws, mock)

			_, err := e.ExecuteSelectedLines(context.Background(), "a.do", tt.start, tt.end)
			require.ErrorIs(t, err, ErrInvalidRange)

			var rangeErr *RangeError
			require.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, tt.reason, rangeErr.Reason)

			assert.Empty(t, mock.calls)
			assert.Equal(t, []string{"a.do"}, dirNames(t, ws.Root()), "no file created")
		})
	}
}

func TestExecuteSelectedLines_EndPastEOFReportsTotal(t *testing.T) {
	ws := newTestWorkspace(t, map[string]string{"a.do": twentyLines()})
	e := newExecutor(t, ws, &mockRunner{})

	_, err := e.ExecuteSelectedLines(context.Background(), "a.do", 1, 21)
	var rangeErr *RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 20, rangeErr.Total)
}

func TestExecuteSelectedLines_MissingSource(t *testing.T) {
	ws := newTestWorkspace(t, nil)
	mock := &mockRunner{}
	e := newExecutor(t, ws, mock)

	_, err := e.ExecuteSelectedLines(context.Background(), "missing.do", 1, 2)
	assert.ErrorIs(t, err, workspace.ErrNotFound)
	assert.Empty(t, mock.calls)
	assert.Empty(t, dirNames(t, ws.Root()))
}

func TestExecuteSelectedLines_CancelCleansUp(t *testing.T) {
	ws := newTestWorkspace(t, map[string]string{"a.do": twentyLines()})
	e := newExecutor(t, ws, fakeInterpreter(t, "FAKE_STATA_MODE=sleep", "FAKE_STATA_SLEEP=10"))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := e.ExecuteSelectedLines(ctx, "a.do", 1, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, []string{"a.do"}, dirNames(t, ws.Root()))
}

func TestExecuteSelectedLines_TimeoutCleansUp(t *testing.T) {
	ws := newTestWorkspace(t, map[string]string{"a.do": twentyLines()})
	interp, err := run.NewInterpreter(
		run.WithExecutable(runtest.Interpreter(t)),
		run.WithEnv("FAKE_STATA_MODE=sleep", "FAKE_STATA_SLEEP=10"),
		run.WithTimeout(100*time.Millisecond),
	)
	require.NoError(t, err)
	e := newExecutor(t, ws, interp)

	_, err = e.ExecuteSelectedLines(context.Background(), "a.do", 1, 2)
	assert.ErrorIs(t, err, run.ErrTimeout)
	assert.Equal(t, []string{"a.do"}, dirNames(t, ws.Root()))
}

func TestExecuteSelectedLines_SerializesSamePath(t *testing.T) {
	ws := newTestWorkspace(t, map[string]string{"a.do": twentyLines()})
	mock := &mockRunner{delay: 20 * time.Millisecond}
	e := newExecutor(t, ws, mock)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.ExecuteSelectedLines(context.Background(), "a.do", i+1, i+2)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, mock.calls, 4)
	assert.Equal(t, 1, mock.maxActive)
	assert.Equal(t, []string{"a.do"}, dirNames(t, ws.Root()))
}

func TestExecuteSelectedLines_DisableLocking(t *testing.T) {
	ws := newTestWorkspace(t, map[string]string{"a.do": twentyLines()})
	mock := &mockRunner{delay: 200 * time.Millisecond}
	e, err := New(Options{Workspace: ws, Runner: mock, DisableLocking: true})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.ExecuteSelectedLines(context.Background(), "a.do", 1, 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, mock.maxActive)
	assert.Equal(t, []string{"a.do"}, dirNames(t, ws.Root()), "distinct ephemeral names")
}

func TestRunFile_KeepsLog(t *testing.T) {
	ws := newTestWorkspace(t, map[string]string{"a.do": "display 1\n"})
	e := newExecutor(t, ws, fakeInterpreter(t))

	res, err := e.RunFile(context.Background(), "a.do")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Output, "display 1")
	assert.Equal(t, ws.Resolve("a.log"), res.LogPath)
	assert.Equal(t, []string{"a.do", "a.log"}, dirNames(t, ws.Root()))
}

func TestRunFile_Missing(t *testing.T) {
	ws := newTestWorkspace(t, nil)
	mock := &mockRunner{}
	e := newExecutor(t, ws, mock)

	_, err := e.RunFile(context.Background(), "nope.do")
	assert.ErrorIs(t, err, workspace.ErrNotFound)
	assert.Empty(t, mock.calls)
}

func TestBanner(t *testing.T) {
	got := Banner("/w/a.do", 5, 8)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Selected lines 5-8 of /w/a.do", lines[0])
	assert.Equal(t, strings.Repeat("=", len(lines[0])), lines[1])
}

func TestEphemeralName_Unique(t *testing.T) {
	a := ephemeralName("/w/a.do", 1, 2, "20261017105703.123")
	b := ephemeralName("/w/a.do", 1, 2, "20261017105703.123")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "a_lines_1-2_20261017105703123_"))
}
