// Package runtest provides a fake Stata interpreter for tests.
//
// The fake is a POSIX shell script that accepts the same argv as Stata in
// batch mode ("-b do <script>") and is steered through environment
// variables:
//
//	FAKE_STATA_MODE   log (default) | stdout | stderr | sleep
//	FAKE_STATA_EXIT   exit code, default 0
//	FAKE_STATA_SLEEP  seconds to sleep in sleep mode, default 5
//
// In log mode the fake writes "<script-without-extension>.log" containing a
// banner line followed by the script text, so callers can assert on exactly
// what was executed.
package runtest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// LogBanner is the first line of every log written by the fake.
const LogBanner = "fake stata: batch run"

const script = `#!/bin/sh
if [ "$1" != "-b" ] || [ "$2" != "do" ]; then
  echo "usage: $0 -b do file" >&2
  exit 64
fi
target="$3"
case "${FAKE_STATA_MODE:-log}" in
  log)
    { echo "` + LogBanner + `"; cat "$target"; } > "${target%.*}.log"
    ;;
  stdout)
    echo "stdout: $target"
    ;;
  stderr)
    echo "stderr: $target" >&2
    ;;
  sleep)
    exec sleep "${FAKE_STATA_SLEEP:-5}"
    ;;
esac
exit "${FAKE_STATA_EXIT:-0}"
`

// Interpreter writes the fake interpreter into a temporary directory and
// returns its path. Tests are skipped on Windows.
func Interpreter(t testing.TB) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake interpreter requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-stata")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake interpreter: %v", err)
	}
	return path
}

// Missing returns a path inside a temporary directory where no executable
// exists.
func Missing(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "no-such-stata")
}
