package exec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jonwraymond/dotools/run"
	"github.com/jonwraymond/dotools/workspace"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mockRunner implements run.Runner for testing.
type mockRunner struct {
	mu sync.Mutex

	// Configurable returns
	result run.Result
	err    error
	delay  time.Duration

	// Call tracking
	calls     []string
	contents  []string
	active    int
	maxActive int
	writeLogs bool
}

func (m *mockRunner) Run(ctx context.Context, scriptPath string) (run.Result, error) {
	m.mu.Lock()
	m.active++
	if m.active > m.maxActive {
		m.maxActive = m.active
	}
	m.calls = append(m.calls, scriptPath)
	data, readErr := os.ReadFile(scriptPath)
	m.contents = append(m.contents, string(data))
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.active--
		m.mu.Unlock()
	}()

	if readErr != nil {
		return run.Result{}, fmt.Errorf("mock: script missing during run: %w", readErr)
	}
	if m.writeLogs {
		if err := os.WriteFile(run.LogPath(scriptPath), []byte("log for "+scriptPath), 0o644); err != nil {
			return run.Result{}, err
		}
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return run.Result{}, ctx.Err()
		}
	}

	res := m.result
	res.LogPath = run.LogPath(scriptPath)
	return res, m.err
}

// twentyLines returns a 20-line do-file body: "display 1" ... "display 20".
func twentyLines() string {
	var b strings.Builder
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "display %d\n", i)
	}
	return b.String()
}

func newTestWorkspace(t *testing.T, files map[string]string) *workspace.Workspace {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	ws, err := workspace.New(root)
	require.NoError(t, err)
	return ws
}

// dirNames lists the file names in dir, sorted.
func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 17, 10, 57, 3, 123_000_000, time.UTC)
}
