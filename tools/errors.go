package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/dotools/exec"
	"github.com/jonwraymond/dotools/run"
	"github.com/jonwraymond/dotools/script"
	"github.com/jonwraymond/dotools/workspace"
)

// ErrValidation is returned when a tool argument is missing or malformed.
var ErrValidation = errors.New("invalid argument")

// ValidationError names the offending parameter.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Param, e.Reason)
}

// Is reports whether target matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func missing(param string) error {
	return &ValidationError{Param: param, Reason: "is required"}
}

func invalid(param, format string, args ...any) error {
	return &ValidationError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

// Failure codes prefixed to error text.
const (
	CodeValidation   = "VALIDATION"
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidRange = "INVALID_RANGE"
	CodeSpawnFailed  = "SPAWN_FAILED"
	CodeTimeout      = "TIMEOUT"
	CodeError        = "ERROR"
)

// Code classifies err into one of the failure codes.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, script.ErrUnknownSection):
		return CodeValidation
	case errors.Is(err, workspace.ErrNotFound),
		errors.Is(err, script.ErrSectionNotFound):
		return CodeNotFound
	case errors.Is(err, exec.ErrInvalidRange):
		return CodeInvalidRange
	case errors.Is(err, run.ErrSpawn):
		return CodeSpawnFailed
	case errors.Is(err, run.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	default:
		return CodeError
	}
}

// failure converts err into a text result flagged as an error.
func failure(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: Code(err) + ": " + err.Error()}},
		IsError: true,
	}
}

// text wraps s in a successful text result.
func text(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: s}},
	}
}
