package schedule

import (
	"time"

	"github.com/alario/alario/pkg/alarm"
	"github.com/alario/alario/pkg/assignment"
	"github.com/alario/alario/pkg/pattern"
)

// Occurrence is a displayable alarm event. It is derived either from one
// assignment and one alarm time of its pattern, or from one one-off alarm;
// exactly one of PatternID and AlarmID is set. Occurrences are recomputed
// from store snapshots on every read and never persisted.
type Occurrence struct {
	Start        time.Time
	End          time.Time
	Title        string
	PatternID    string
	AssignmentID string
	AlarmID      string
	Date         string
	Color        string
}

// Expand derives the flat occurrence list from the given pattern, assignment
// and one-off alarm snapshots. It never fails: an assignment whose pattern is
// gone, a pattern without alarm times, or a malformed date or time string
// simply contributes nothing. Output order is assignments in arrival order
// (alarm times in pattern order within each), then one-off alarms in snapshot
// order; consumers needing chronological order must sort explicitly.
func Expand(patterns []pattern.Pattern, assignments []assignment.Assignment, alarms []alarm.Alarm) []Occurrence {
	byID := make(map[string]pattern.Pattern, len(patterns))
	for _, p := range patterns {
		byID[p.ID] = p
	}

	occurrences := make([]Occurrence, 0, len(assignments))
	for _, a := range assignments {
		p, ok := byID[a.PatternID]
		if !ok {
			// The pattern may have been deleted out-of-band; not an error.
			continue
		}

		day, err := time.Parse(assignment.DateLayout, a.Date)
		if err != nil {
			continue
		}

		for _, t := range p.Times {
			hour, minute, err := pattern.ParseTimeOfDay(t.Time)
			if err != nil {
				continue
			}
			// Build the timestamp from calendar-day and wall-clock parts so
			// the date can never shift across a day boundary through
			// timezone conversion.
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.Local)
			occurrences = append(occurrences, Occurrence{
				Start:        start,
				End:          start,
				Title:        p.Name + " - " + t.Time,
				PatternID:    p.ID,
				AssignmentID: a.ID,
				Date:         a.Date,
				Color:        p.Color,
			})
		}
	}

	for _, al := range alarms {
		day, err := time.Parse(assignment.DateLayout, al.Date)
		if err != nil {
			continue
		}
		hour, minute, err := pattern.ParseTimeOfDay(al.Time)
		if err != nil {
			continue
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.Local)
		occurrences = append(occurrences, Occurrence{
			Start:   start,
			End:     start,
			Title:   "Alarm - " + al.Time,
			AlarmID: al.ID,
			Date:    al.Date,
		})
	}
	return occurrences
}
