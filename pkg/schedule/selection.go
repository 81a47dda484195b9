package schedule

import (
	"sort"
	"time"

	"github.com/alario/alario/pkg/assignment"
)

// Selection is the set of date keys picked during a bulk-edit session.
// All operations are copy-on-write so rendered snapshots stay comparable.
type Selection map[string]struct{}

func NewSelection(keys ...string) Selection {
	s := make(Selection, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s Selection) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s Selection) Len() int {
	return len(s)
}

// Keys returns the selected date keys in ascending order.
func (s Selection) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s Selection) clone() Selection {
	c := make(Selection, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

// ToggleRange flips the selection state of every day from start to end
// inclusive and returns the resulting set; the receiver is not modified.
// Flipping makes re-dragging the same range undo itself: applying ToggleRange
// twice with identical arguments returns a set equal to the original.
// An inverted range (end before start) toggles nothing.
func (s Selection) ToggleRange(start, end time.Time) Selection {
	result := s.clone()

	start = truncateToDay(start)
	end = truncateToDay(end)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := assignment.FormatDate(day)
		if result.Has(key) {
			delete(result, key)
		} else {
			result[key] = struct{}{}
		}
	}
	return result
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
