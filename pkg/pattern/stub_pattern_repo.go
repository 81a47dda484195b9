package pattern

import (
	"context"
	"sort"
	"sync"
)

type StubPatternRepo struct {
	mu      sync.RWMutex
	data    map[string]Pattern // pattern id -> pattern
	userIds map[string]int     // pattern id -> owner

	StoreErr error
	GetErr   error
}

func NewStubPatternRepo() *StubPatternRepo {
	return &StubPatternRepo{
		data:    map[string]Pattern{},
		userIds: map[string]int{},
	}
}

func (s *StubPatternRepo) Store(ctx context.Context, userId int, pattern Pattern) (string, error) {
	if s.StoreErr != nil {
		return "", s.StoreErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[pattern.ID] = pattern
	s.userIds[pattern.ID] = userId
	return pattern.ID, nil
}

func (s *StubPatternRepo) Get(ctx context.Context, userId int, patternId string) (Pattern, error) {
	if s.GetErr != nil {
		return Pattern{}, s.GetErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[patternId]
	if !ok || s.userIds[patternId] != userId {
		return Pattern{}, ErrPatternNotFound
	}
	return p, nil
}

func (s *StubPatternRepo) GetAll(ctx context.Context, userId int) ([]Pattern, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Pattern, 0, len(s.data))
	for id, p := range s.data {
		if s.userIds[id] == userId {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *StubPatternRepo) Update(ctx context.Context, userId int, pattern Pattern) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[pattern.ID]; !ok || s.userIds[pattern.ID] != userId {
		return false, nil
	}
	s.data[pattern.ID] = pattern
	return true, nil
}

func (s *StubPatternRepo) Delete(ctx context.Context, userId int, patternId string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[patternId]; !ok || s.userIds[patternId] != userId {
		return false, nil
	}
	delete(s.data, patternId)
	delete(s.userIds, patternId)
	return true, nil
}
