package run

import (
	"errors"
	"fmt"
)

// Sentinel errors for error classification.
var (
	// ErrSpawn indicates the interpreter process could not be started.
	ErrSpawn = errors.New("interpreter could not be started")

	// ErrTimeout indicates the interpreter was killed after exceeding the
	// configured timeout.
	ErrTimeout = errors.New("interpreter timed out")

	// ErrConfiguration indicates an invalid or incomplete configuration.
	ErrConfiguration = errors.New("configuration error")
)

// SpawnError reports a failure to launch the interpreter executable.
type SpawnError struct {
	// Executable is the path that was launched.
	Executable string

	// Err is the underlying error from the operating system.
	Err error
}

// Error returns the error message.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrSpawn, e.Executable, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
// SpawnError matches ErrSpawn to allow sentinel-style error checking.
func (e *SpawnError) Is(target error) bool {
	return target == ErrSpawn
}
