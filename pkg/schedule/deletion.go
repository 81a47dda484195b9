package schedule

import (
	"errors"
	"fmt"

	"github.com/alario/alario/pkg/assignment"
)

// Scope is the breadth of assignments a deletion request affects.
type Scope string

const (
	// ScopeSingle removes only the assignment behind the clicked occurrence.
	ScopeSingle Scope = "single"
	// ScopeFuture removes the target's assignment and all later ones of the
	// same pattern (calendar-day comparison, inclusive).
	ScopeFuture Scope = "future"
	// ScopeAll removes every assignment of the target's pattern.
	ScopeAll Scope = "all"
)

var ErrUnknownScope = errors.New("unknown deletion scope")

func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeSingle, ScopeFuture, ScopeAll:
		return Scope(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
	}
}

// Target identifies the occurrence a deletion request was made on, by its
// source binding rather than by the derived occurrence object.
type Target struct {
	PatternID string
	Date      string
}

// ResolveDeletion computes which assignment ids a deletion request removes.
// It is a pure set computation over the given snapshot: a stale target that
// matches no assignment resolves to an empty set, which callers treat as a
// no-op rather than an error. Dates compare lexicographically, which is
// chronological because stored dates are validated YYYY-MM-DD strings.
func ResolveDeletion(target Target, scope Scope, assignments []assignment.Assignment) []string {
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if a.PatternID != target.PatternID {
			continue
		}
		switch scope {
		case ScopeSingle:
			if a.Date == target.Date {
				ids = append(ids, a.ID)
			}
		case ScopeFuture:
			if a.Date >= target.Date {
				ids = append(ids, a.ID)
			}
		case ScopeAll:
			ids = append(ids, a.ID)
		}
	}
	return ids
}
