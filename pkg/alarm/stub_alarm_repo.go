package alarm

import (
	"context"
	"sort"
	"sync"
	"time"
)

type StubAlarmRepo struct {
	mu      sync.RWMutex
	data    map[string]Alarm // alarm id -> alarm
	userIds map[string]int   // alarm id -> owner

	StoreErr  error
	GetAllErr error

	GetAllCalls int
}

func NewStubAlarmRepo() *StubAlarmRepo {
	return &StubAlarmRepo{
		data:    map[string]Alarm{},
		userIds: map[string]int{},
	}
}

func (s *StubAlarmRepo) Store(ctx context.Context, userId int, alarm Alarm) (Alarm, error) {
	if s.StoreErr != nil {
		return Alarm{}, s.StoreErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	alarm.CreatedAt = time.Now()
	alarm.UpdatedAt = alarm.CreatedAt
	s.data[alarm.ID] = alarm
	s.userIds[alarm.ID] = userId
	return alarm, nil
}

func (s *StubAlarmRepo) Get(ctx context.Context, userId int, alarmId string) (Alarm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.data[alarmId]
	if !ok || s.userIds[alarmId] != userId {
		return Alarm{}, ErrAlarmNotFound
	}
	return a, nil
}

func (s *StubAlarmRepo) GetAll(ctx context.Context, userId int, from, to string) ([]Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetAllCalls++

	if s.GetAllErr != nil {
		return nil, s.GetAllErr
	}

	result := make([]Alarm, 0, len(s.data))
	for id, a := range s.data {
		if s.userIds[id] != userId {
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
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		if result[i].Time != result[j].Time {
			return result[i].Time < result[j].Time
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *StubAlarmRepo) Update(ctx context.Context, userId int, alarm Alarm) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.data[alarm.ID]
	if !ok || s.userIds[alarm.ID] != userId {
		return false, nil
	}
	alarm.CreatedAt = existing.CreatedAt
	alarm.UpdatedAt = time.Now()
	s.data[alarm.ID] = alarm
	return true, nil
}

func (s *StubAlarmRepo) Delete(ctx context.Context, userId int, alarmId string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[alarmId]; !ok || s.userIds[alarmId] != userId {
		return false, nil
	}
	delete(s.data, alarmId)
	delete(s.userIds, alarmId)
	return true, nil
}
