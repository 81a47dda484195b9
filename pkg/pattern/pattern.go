package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidPattern marks validation failures that must be rejected before
// any store call is made.
var ErrInvalidPattern = errors.New("invalid pattern data")

var ErrPatternNotFound = errors.New("pattern not found")

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// AlarmTime is one wall-clock alarm inside a pattern. Time is a zero-padded
// "HH:MM" string; the date it fires on comes from the assignment.
type AlarmTime struct {
	Time            string
	Sound           string
	Volume          int
	GradualIncrease bool
	SnoozeMinutes   int
}

// Pattern is a named, colored template of one or more daily alarm times.
type Pattern struct {
	ID          string
	Name        string
	Description string
	Color       string
	Times       []AlarmTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ParseTimeOfDay parses a strict zero-padded "HH:MM" string into hour and
// minute. "7:00" or "07:60" are rejected.
func ParseTimeOfDay(s string) (hour int, minute int, err error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("time must be in HH:MM format: %w", err)
	}
	// time.Parse tolerates non-padded hours like "7:00"; the round trip does not.
	if parsed.Format("15:04") != s {
		return 0, 0, fmt.Errorf("time must be in zero-padded HH:MM format, got %q", s)
	}
	return parsed.Hour(), parsed.Minute(), nil
}

// Validate checks all pattern fields. Returned errors wrap ErrInvalidPattern.
func (p Pattern) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPattern)
	}
	if !colorPattern.MatchString(p.Color) {
		return fmt.Errorf("%w: color must be a #RRGGBB hex value", ErrInvalidPattern)
	}
	if len(p.Times) == 0 {
		return fmt.Errorf("%w: at least one alarm time is required", ErrInvalidPattern)
	}
	for i, t := range p.Times {
		if _, _, err := ParseTimeOfDay(t.Time); err != nil {
			return fmt.Errorf("%w: times[%d]: %v", ErrInvalidPattern, i, err)
		}
		if t.Volume < 0 || t.Volume > 100 {
			return fmt.Errorf("%w: times[%d]: volume must be between 0 and 100", ErrInvalidPattern, i)
		}
		if t.SnoozeMinutes < 1 {
			return fmt.Errorf("%w: times[%d]: snooze minutes must be at least 1", ErrInvalidPattern, i)
		}
	}
	return nil
}
