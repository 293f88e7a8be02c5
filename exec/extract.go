package exec

import (
	"errors"
	"fmt"
)

// ErrInvalidRange indicates line bounds outside 1 <= start <= end <= total.
var ErrInvalidRange = errors.New("invalid line range")

// RangeReason classifies why a range was rejected.
type RangeReason string

// Range rejection reasons.
const (
	ReasonStartBelowOne RangeReason = "start_below_one"
	ReasonStartAfterEnd RangeReason = "start_after_end"
	ReasonEndPastEOF    RangeReason = "end_past_eof"
)

// RangeError reports an invalid line range.
type RangeError struct {
	Start  int
	End    int
	Total  int
	Reason RangeReason
}

// Error returns a message describing the violated bound.
func (e *RangeError) Error() string {
	switch e.Reason {
	case ReasonStartAfterEnd:
		return fmt.Sprintf("%v: start line %d is after end line %d", ErrInvalidRange, e.Start, e.End)
	case ReasonEndPastEOF:
		return fmt.Sprintf("%v: end line %d exceeds file length of %d lines", ErrInvalidRange, e.End, e.Total)
	default:
		return fmt.Sprintf("%v: start line %d must be at least 1", ErrInvalidRange, e.Start)
	}
}

// Is reports whether this error matches the target.
// RangeError matches ErrInvalidRange to allow sentinel-style error checking.
func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// Line is one selected source line.
type Line struct {
	// Number is the 1-based line number in the source script.
	Number int
	Text   string
}

// ValidateRange checks 1 <= start <= end <= total.
func ValidateRange(start, end, total int) error {
	switch {
	case start < 1:
		return &RangeError{Start: start, End: end, Total: total, Reason: ReasonStartBelowOne}
	case start > end:
		return &RangeError{Start: start, End: end, Total: total, Reason: ReasonStartAfterEnd}
	case end > total:
		return &RangeError{Start: start, End: end, Total: total, Reason: ReasonEndPastEOF}
	}
	return nil
}

// ExtractRange returns lines start through end (1-based, inclusive), each
// tagged with its original line number. It never returns a partial result.
func ExtractRange(lines []string, start, end int) ([]Line, error) {
	if err := ValidateRange(start, end, len(lines)); err != nil {
		return nil, err
	}
	out := make([]Line, 0, end-start+1)
	for n := start; n <= end; n++ {
		out = append(out, Line{Number: n, Text: lines[n-1]})
	}
	return out, nil
}
