package schedule

import (
	"sync"
	"time"
)

// SessionStore holds each user's bulk-edit selection between requests.
// Selections are ephemeral: they live only for the duration of a bulk-edit
// session and are never persisted.
type SessionStore struct {
	mu         sync.Mutex
	selections map[int]Selection
}

func NewSessionStore() *SessionStore {
	return &SessionStore{selections: map[int]Selection{}}
}

// Selection returns the user's current selection (possibly empty).
func (s *SessionStore) Selection(userId int) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.selections[userId]
	if !ok {
		return NewSelection()
	}
	return sel
}

// ToggleRange applies a day-range toggle to the user's selection and stores
// and returns the new set.
func (s *SessionStore) ToggleRange(userId int, start, end time.Time) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.selections[userId].ToggleRange(start, end)
	s.selections[userId] = next
	return next
}

// Clear drops the user's selection, e.g. on bulk-edit mode exit or after a
// completed bulk apply.
func (s *SessionStore) Clear(userId int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selections, userId)
}
