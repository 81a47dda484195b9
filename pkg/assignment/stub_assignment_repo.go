package assignment

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type StubAssignmentRepo struct {
	mu      sync.RWMutex
	data    map[string]Assignment // assignment id -> assignment
	userIds map[string]int        // assignment id -> owner
	order   []string              // arrival order of assignment ids
	nextId  int

	// StoreErr fails every Store call; FailDates fails creates for specific
	// dates only (per-date failure simulation).
	StoreErr  error
	GetAllErr error
	DeleteErr error
	FailDates map[string]bool

	GetAllCalls int
	StoreCalls  int
}

func NewStubAssignmentRepo() *StubAssignmentRepo {
	return &StubAssignmentRepo{
		data:    map[string]Assignment{},
		userIds: map[string]int{},
		nextId:  1,
	}
}

func (s *StubAssignmentRepo) Store(ctx context.Context, userId int, assignment Assignment) (Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StoreCalls++

	if s.StoreErr != nil {
		return Assignment{}, s.StoreErr
	}
	if s.FailDates[assignment.Date] {
		return Assignment{}, fmt.Errorf("store rejected date %s", assignment.Date)
	}

	for _, id := range s.order {
		existing := s.data[id]
		if s.userIds[id] == userId && existing.PatternID == assignment.PatternID && existing.Date == assignment.Date {
			return existing, nil
		}
	}

	if assignment.ID == "" {
		assignment.ID = fmt.Sprintf("assignment-%d", s.nextId)
		s.nextId++
	}
	assignment.CreatedAt = time.Now()
	s.data[assignment.ID] = assignment
	s.userIds[assignment.ID] = userId
	s.order = append(s.order, assignment.ID)
	return assignment, nil
}

func (s *StubAssignmentRepo) Get(ctx context.Context, userId int, assignmentId string) (Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.data[assignmentId]
	if !ok || s.userIds[assignmentId] != userId {
		return Assignment{}, ErrAssignmentNotFound
	}
	return a, nil
}

func (s *StubAssignmentRepo) GetAll(ctx context.Context, userId int, from, to string) ([]Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetAllCalls++

	if s.GetAllErr != nil {
		return nil, s.GetAllErr
	}

	result := make([]Assignment, 0, len(s.order))
	for _, id := range s.order {
		a, ok := s.data[id]
		if !ok || s.userIds[id] != userId {
			continue
		}
		if from != "" && a.Date < from {
			continue
		}
		if to != "" && a.Date > to {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (s *StubAssignmentRepo) Delete(ctx context.Context, userId int, assignmentId string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.DeleteErr != nil {
		return false, s.DeleteErr
	}
	if _, ok := s.data[assignmentId]; !ok || s.userIds[assignmentId] != userId {
		return false, nil
	}
	delete(s.data, assignmentId)
	delete(s.userIds, assignmentId)
	for i, id := range s.order {
		if id == assignmentId {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *StubAssignmentRepo) DeleteByPattern(ctx context.Context, userId int, patternId string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	kept := s.order[:0]
	for _, id := range s.order {
		a := s.data[id]
		if s.userIds[id] == userId && a.PatternID == patternId {
			delete(s.data, id)
			delete(s.userIds, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return removed, nil
}

// Dates returns all stored dates for assertions, sorted.
func (s *StubAssignmentRepo) Dates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dates := make([]string, 0, len(s.data))
	for _, a := range s.data {
		dates = append(dates, a.Date)
	}
	sort.Strings(dates)
	return dates
}
