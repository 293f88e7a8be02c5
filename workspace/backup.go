package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// ErrBackupFailed indicates the pre-mutation backup could not be written.
// Mutations must not proceed when it is returned.
var ErrBackupFailed = errors.New("backup failed")

// backupStamp is ISO-8601 with millisecond precision in UTC.
const backupStamp = "2006-01-02T15:04:05.000Z07:00"

// maxBackupAttempts bounds the suffixes tried for backups sharing a stamp.
const maxBackupAttempts = 100

// BackupName returns the backup file name for name at t, with ':' and '.'
// in the timestamp replaced by '-'.
func BackupName(name string, t time.Time) string {
	return backupName(name, t, 0)
}

// backupName appends "-n" to the stamp for n > 0.
func backupName(name string, t time.Time, n int) string {
	stamp := t.UTC().Format(backupStamp)
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	if n > 0 {
		stamp = fmt.Sprintf("%s-%d", stamp, n)
	}
	return fmt.Sprintf("%s.%s.bak", name, stamp)
}

// Backup copies path into the backup directory if it exists. It returns the
// backup path, or "" when there was nothing to back up. Existing backups are
// never overwritten: a name already taken at the same stamp gets a numeric
// suffix.
func (w *Workspace) Backup(path string) (string, error) {
	full := w.Resolve(path)
	if !w.Exists(full) {
		return "", nil
	}

	base, now := filepath.Base(full), w.now()
	for n := 0; n < maxBackupAttempts; n++ {
		dst := filepath.Join(w.BackupDir(), backupName(base, now, n))
		err := w.Copy(full, dst)
		if err == nil {
			return dst, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s: %v", ErrBackupFailed, full, err)
		}
	}
	return "", fmt.Errorf("%w: %s: no free backup name after %d attempts", ErrBackupFailed, full, maxBackupAttempts)
}

// SaveWithBackup writes text to path, first backing up the existing content
// when backup is true. A failed backup leaves path untouched.
func (w *Workspace) SaveWithBackup(path, text string, backup bool) (string, error) {
	var backupPath string
	if backup {
		var err error
		backupPath, err = w.Backup(path)
		if err != nil {
			return "", err
		}
	}
	if err := w.WriteText(path, text); err != nil {
		return backupPath, err
	}
	return backupPath, nil
}
