package workspace

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Errors returned by file access operations.
var (
	// ErrNotFound indicates the target file or directory does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotReadable indicates the target exists but could not be read.
	ErrNotReadable = errors.New("not readable")
)

// DefaultBackupDir is the backup directory name under the workspace root.
const DefaultBackupDir = ".backups"

// Entry describes one file in a directory listing.
type Entry struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Workspace resolves and accesses files under a root directory.
//
// Contract:
// - Concurrency: safe for concurrent use; no internal state is mutated after New.
// - Errors: missing files are reported with ErrNotFound, unreadable ones with ErrNotReadable.
type Workspace struct {
	root      string
	backupDir string
	now       func() time.Time
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithBackupDir overrides the backup directory. Relative values are resolved
// against the workspace root.
func WithBackupDir(dir string) Option {
	return func(w *Workspace) {
		if dir != "" {
			w.backupDir = dir
		}
	}
}

// WithClock sets the time source used for backup names.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) {
		if now != nil {
			w.now = now
		}
	}
}

// New creates a Workspace rooted at root. An empty root means the current
// working directory.
func New(root string, opts ...Option) (*Workspace, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("workspace: resolve working directory: %w", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("workspace: resolve root %q: %w", root, err)
	}

	w := &Workspace{
		root:      abs,
		backupDir: DefaultBackupDir,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// BackupDir returns the absolute backup directory.
func (w *Workspace) BackupDir() string {
	return w.Resolve(w.backupDir)
}

// Resolve maps path onto the workspace. Absolute paths are returned cleaned
// but otherwise unchanged.
func (w *Workspace) Resolve(path string) string {
	if path == "" {
		return w.root
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(w.root, path)
}

// Exists reports whether path resolves to an existing file or directory.
func (w *Workspace) Exists(path string) bool {
	_, err := os.Stat(w.Resolve(path))
	return err == nil
}

// ReadText returns the content of path.
func (w *Workspace) ReadText(path string) (string, error) {
	full := w.Resolve(path)
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", classify(full, err)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrNotReadable, full, err)
	}
	return string(data), nil
}

// WriteText creates or truncates path with text, creating parent
// directories as needed.
func (w *Workspace) WriteText(path, text string) error {
	full := w.Resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", full, err)
	}
	if err := os.WriteFile(full, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", full, err)
	}
	return nil
}

// Copy copies src to dst, creating dst's parent directories. It fails with
// an error matching fs.ErrExist when dst already exists.
func (w *Workspace) Copy(src, dst string) error {
	from := w.Resolve(src)
	to := w.Resolve(dst)

	in, err := os.Open(from)
	if err != nil {
		return classify(from, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", to, err)
	}
	out, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", to, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s to %s: %w", from, to, err)
	}
	return out.Close()
}

// Remove deletes path.
func (w *Workspace) Remove(path string) error {
	full := w.Resolve(path)
	if err := os.Remove(full); err != nil {
		return classify(full, err)
	}
	return nil
}

// RemoveIfExists deletes path and treats a missing file as success.
func (w *Workspace) RemoveIfExists(path string) error {
	err := w.Remove(path)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// List returns the regular files directly inside dir whose extension matches
// ext (case-insensitive, with or without the leading dot). An empty ext lists
// every file. Entries are sorted by name.
func (w *Workspace) List(dir, ext string) ([]Entry, error) {
	full := w.Resolve(dir)
	dirents, err := os.ReadDir(full)
	if err != nil {
		return nil, classify(full, err)
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	out := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		if de.IsDir() {
			continue
		}
		if ext != "" && !strings.EqualFold(filepath.Ext(de.Name()), ext) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		out = append(out, Entry{
			Name:    de.Name(),
			Path:    filepath.Join(full, de.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %v", ErrNotReadable, path, err)
	default:
		return fmt.Errorf("%s: %w", path, err)
	}
}
