package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alario/alario/internal/event_bus"
	"github.com/alario/alario/pkg/alarm"
	"github.com/alario/alario/pkg/assignment"
	"github.com/alario/alario/pkg/pattern"
	"github.com/alario/alario/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrEmptySelection is returned by BulkApply when no dates are selected.
var ErrEmptySelection = errors.New("selection is empty")

// Snapshot is an immutable view of all three stores taken at one point in
// time. Occurrences are always derived from a single snapshot so a stale
// pattern list is never combined with a fresh assignment or alarm list.
type Snapshot struct {
	Patterns    []pattern.Pattern
	Assignments []assignment.Assignment
	Alarms      []alarm.Alarm
}

// Service derives occurrences from the pattern, assignment and one-off alarm
// stores and coordinates bulk editing and deletion against them.
type Service struct {
	patterns    pattern.Service
	assignments assignment.Service
	alarms      alarm.Service
	sessions    *SessionStore

	mu        sync.Mutex
	snapshots map[int]Snapshot // userId -> last refreshed snapshot
}

func NewService(patterns pattern.Service, assignments assignment.Service, alarms alarm.Service, sessions *SessionStore, bus *event_bus.EventBus) *Service {
	s := &Service{
		patterns:    patterns,
		assignments: assignments,
		alarms:      alarms,
		sessions:    sessions,
		snapshots:   map[int]Snapshot{},
	}
	// Any mutation of either store invalidates the cached view; the next
	// read refreshes from the stores.
	event_bus.SubscribeTyped[event_bus.AssignmentsChanged](bus, event_bus.AssignmentsChangedType,
		func(e event_bus.EventT[event_bus.AssignmentsChanged]) error {
			s.invalidate(e.Data.UserID)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.PatternsChanged](bus, event_bus.PatternsChangedType,
		func(e event_bus.EventT[event_bus.PatternsChanged]) error {
			s.invalidate(e.Data.UserID)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.AlarmsChanged](bus, event_bus.AlarmsChangedType,
		func(e event_bus.EventT[event_bus.AlarmsChanged]) error {
			s.invalidate(e.Data.UserID)
			return nil
		})
	return s
}

func (s *Service) invalidate(userId int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, userId)
}

// Refresh reloads all stores and installs a new snapshot for the current
// user. The snapshot is only replaced once every load has succeeded.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to get current user: %w", err)
	}

	patterns, err := s.patterns.GetAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to refresh patterns: %w", err)
	}
	assignments, err := s.assignments.GetAll(ctx, "", "")
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to refresh assignments: %w", err)
	}
	alarms, err := s.alarms.GetAll(ctx, "", "")
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to refresh alarms: %w", err)
	}

	snapshot := Snapshot{Patterns: patterns, Assignments: assignments, Alarms: alarms}
	s.mu.Lock()
	s.snapshots[userId] = snapshot
	s.mu.Unlock()
	return snapshot, nil
}

// snapshot returns the cached view for the current user, refreshing it when
// a store mutation has invalidated it.
func (s *Service) snapshot(ctx context.Context) (Snapshot, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to get current user: %w", err)
	}

	s.mu.Lock()
	snapshot, ok := s.snapshots[userId]
	s.mu.Unlock()
	if ok {
		return snapshot, nil
	}
	return s.Refresh(ctx)
}

// Occurrences expands the current snapshot into displayable occurrences.
// from and to are optional inclusive date-key bounds.
func (s *Service) Occurrences(ctx context.Context, from, to string) ([]Occurrence, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	occurrences := Expand(snapshot.Patterns, snapshot.Assignments, snapshot.Alarms)
	if from == "" && to == "" {
		return occurrences, nil
	}

	filtered := make([]Occurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		if from != "" && occ.Date < from {
			continue
		}
		if to != "" && occ.Date > to {
			continue
		}
		filtered = append(filtered, occ)
	}
	return filtered, nil
}

// CurrentSelection returns the bulk-edit selection of the current user.
func (s *Service) CurrentSelection(ctx context.Context) (Selection, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.sessions.Selection(userId), nil
}

// ToggleSelection flips the selection state of every day in [start, end].
func (s *Service) ToggleSelection(ctx context.Context, start, end time.Time) (Selection, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.sessions.ToggleRange(userId, start, end), nil
}

// ClearSelection drops the current user's selection (bulk-edit mode exit).
func (s *Service) ClearSelection(ctx context.Context) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	s.sessions.Clear(userId)
	return nil
}

// BulkApplyResult reports the outcome of one bulk apply: which dates were
// assigned and which individual creations failed. Failed dates can be
// recovered by re-selecting them and applying again.
type BulkApplyResult struct {
	PatternID string
	Applied   []string
	Failed    []string
}

// BulkApply assigns the pattern to every date in the current selection.
// Creations are issued concurrently and the call waits for all of them to
// settle; exactly one store refresh follows, so the next occurrence
// expansion sees the server-side truth rather than partially-applied state.
// The selection is cleared even when individual dates failed (best effort);
// it is left untouched only when the operation could not start at all, so
// the user can retry without reselecting.
func (s *Service) BulkApply(ctx context.Context, patternId string) (BulkApplyResult, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return BulkApplyResult{}, fmt.Errorf("failed to get current user: %w", err)
	}

	selection := s.sessions.Selection(userId)
	if selection.Len() == 0 {
		return BulkApplyResult{}, ErrEmptySelection
	}

	// Reject an unknown pattern (and an unreachable store) before touching
	// anything; the selection stays intact in both cases.
	if _, err := s.patterns.Get(ctx, patternId); err != nil {
		return BulkApplyResult{}, fmt.Errorf("failed to look up pattern %s: %w", patternId, err)
	}

	// The selection is a set, so the same (pattern, date) pair can never be
	// submitted twice within one call.
	dates := selection.Keys()
	var (
		resultMu sync.Mutex
		applied  = make([]string, 0, len(dates))
		failed   = make([]string, 0)
	)
	var g errgroup.Group
	for _, date := range dates {
		g.Go(func() error {
			_, err := s.assignments.Create(ctx, patternId, date, "")
			resultMu.Lock()
			defer resultMu.Unlock()
			if err != nil {
				log.Warnf("bulk apply: failed to assign pattern %s to %s: %v", patternId, date, err)
				failed = append(failed, date)
			} else {
				applied = append(applied, date)
			}
			return nil
		})
	}
	// Individual failures are collected, not propagated, so Wait always
	// settles every creation.
	_ = g.Wait()

	sort.Strings(applied)
	sort.Strings(failed)
	s.sessions.Clear(userId)

	if _, err := s.Refresh(ctx); err != nil {
		return BulkApplyResult{PatternID: patternId, Applied: applied, Failed: failed}, err
	}
	return BulkApplyResult{PatternID: patternId, Applied: applied, Failed: failed}, nil
}

// DeletionResult reports which assignments were removed and which removals
// failed. Failed removals never block the others.
type DeletionResult struct {
	Deleted []string
	Failed  []string
}

// DeleteOccurrence resolves the deletion scope against the current
// assignment snapshot and removes the resolved assignments one by one. A
// stale target resolves to nothing and succeeds as a no-op.
func (s *Service) DeleteOccurrence(ctx context.Context, target Target, scope Scope) (DeletionResult, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return DeletionResult{}, err
	}

	ids := ResolveDeletion(target, scope, snapshot.Assignments)
	result := DeletionResult{
		Deleted: make([]string, 0, len(ids)),
		Failed:  make([]string, 0),
	}
	for _, id := range ids {
		if err := s.assignments.Delete(ctx, id); err != nil {
			log.Warnf("failed to delete assignment %s: %v", id, err)
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Deleted = append(result.Deleted, id)
	}

	if len(ids) > 0 {
		if _, err := s.Refresh(ctx); err != nil {
			return result, err
		}
	}
	return result, nil
}
