package schedule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a requested year range is inverted or
	// non-positive. An invalid request is observably different from an empty
	// calendar, so it is surfaced rather than silently producing no entries.
	ErrInvalidRange = errors.New("invalid year range")
)

// RangeError carries the offending bounds of an invalid range request.
type RangeError struct {
	StartYear int
	EndYear   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid year range: start %d, end %d", e.StartYear, e.EndYear)
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange)
}
