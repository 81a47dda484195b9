package assignment

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate marks assignment dates that are not zero-padded YYYY-MM-DD
// strings. The format is enforced at creation time so that lexicographic
// comparison of stored dates is always chronological.
var ErrInvalidDate = errors.New("invalid assignment date")

var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrUnknownPattern is returned when an assignment references a pattern that
// does not exist for the current user.
var ErrUnknownPattern = errors.New("unknown pattern")

// DateLayout is the calendar-day format used for assignment dates. A date is
// a plain day stamp, independent of any time zone.
const DateLayout = "2006-01-02"

// Assignment binds one alarm pattern to one calendar date.
type Assignment struct {
	ID        string
	PatternID string
	Date      string
	Note      string
	CreatedAt time.Time
}

// ValidateDate checks that s is a strict YYYY-MM-DD calendar day.
func ValidateDate(s string) error {
	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("%w: %q must be formatted as YYYY-MM-DD", ErrInvalidDate, s)
	}
	// time.Parse tolerates some non-canonical inputs (e.g. day overflow
	// normalization is rejected, but leading spaces are not); round-trip to be
	// strict.
	if parsed.Format(DateLayout) != s {
		return fmt.Errorf("%w: %q must be formatted as YYYY-MM-DD", ErrInvalidDate, s)
	}
	return nil
}

// FormatDate renders t as a calendar-day key.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
