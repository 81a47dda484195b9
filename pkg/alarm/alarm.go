package alarm

import (
	"errors"
	"fmt"
	"time"

	"github.com/alario/alario/pkg/assignment"
	"github.com/alario/alario/pkg/pattern"
)

// ErrInvalidAlarm marks validation failures that must be rejected before any
// store call is made.
var ErrInvalidAlarm = errors.New("invalid alarm data")

var ErrAlarmNotFound = errors.New("alarm not found")

// Alarm is a one-off alarm on a single calendar date, independent of any
// pattern. Date is a YYYY-MM-DD day stamp and Time a zero-padded "HH:MM"
// wall-clock time, the same formats assignments and pattern times use.
type Alarm struct {
	ID            string
	Date          string
	Time          string
	Enabled       bool
	Sound         string
	Volume        int
	SnoozeMinutes int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks all alarm fields. Returned errors wrap ErrInvalidAlarm.
func (a Alarm) Validate() error {
	if err := assignment.ValidateDate(a.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAlarm, err)
	}
	if _, _, err := pattern.ParseTimeOfDay(a.Time); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAlarm, err)
	}
	if a.Volume < 0 || a.Volume > 100 {
		return fmt.Errorf("%w: volume must be between 0 and 100", ErrInvalidAlarm)
	}
	if a.SnoozeMinutes < 1 {
		return fmt.Errorf("%w: snooze minutes must be at least 1", ErrInvalidAlarm)
	}
	return nil
}
