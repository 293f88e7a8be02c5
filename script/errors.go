package script

import (
	"errors"
	"fmt"
)

// Sentinel errors for section lookups.
var (
	// ErrUnknownSection indicates the section name is not in the registry.
	ErrUnknownSection = errors.New("unknown section")

	// ErrSectionNotFound indicates no line in the script matches the
	// section's marker.
	ErrSectionNotFound = errors.New("section not found")
)

// SectionError describes a failed section lookup.
type SectionError struct {
	// Section is the name that was requested.
	Section string

	// Err is ErrUnknownSection or ErrSectionNotFound.
	Err error
}

// Error returns a message naming the section.
func (e *SectionError) Error() string {
	if errors.Is(e.Err, ErrUnknownSection) {
		return fmt.Sprintf("%v: %q (known sections: %s)", e.Err, e.Section, knownSections())
	}
	return fmt.Sprintf("%v: no %q marker in script", e.Err, e.Section)
}

// Unwrap returns the sentinel for use with errors.Is.
func (e *SectionError) Unwrap() error {
	return e.Err
}
