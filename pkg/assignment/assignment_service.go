package assignment

import (
	"context"
	"errors"
	"fmt"

	"github.com/alario/alario/internal/event_bus"
	"github.com/alario/alario/pkg/pattern"
	"github.com/alario/alario/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetAll(ctx context.Context, from, to string) ([]Assignment, error)
	Create(ctx context.Context, patternId, date, note string) (Assignment, error)
	Delete(ctx context.Context, assignmentId string) error
}

// PatternLookup verifies that a referenced pattern exists for the current user.
type PatternLookup func(ctx context.Context, patternId string) (pattern.Pattern, error)

type ServiceImpl struct {
	repo          Repo
	patternLookup PatternLookup
	bus           *event_bus.EventBus
}

func NewService(repo Repo, patternLookup PatternLookup, bus *event_bus.EventBus) *ServiceImpl {
	s := &ServiceImpl{repo: repo, patternLookup: patternLookup, bus: bus}
	// Remove a deleted pattern's assignments so they do not linger as
	// dangling references (the expander tolerates them, the store should not).
	event_bus.SubscribeTyped[event_bus.PatternDeleted](bus, event_bus.PatternDeletedType,
		func(e event_bus.EventT[event_bus.PatternDeleted]) error {
			removed, err := s.repo.DeleteByPattern(e.Context(), e.Data.UserID, e.Data.PatternID)
			if err != nil {
				return fmt.Errorf("failed to delete assignments of pattern %s: %w", e.Data.PatternID, err)
			}
			if removed > 0 {
				log.Infof("removed %d assignments of deleted pattern %s", removed, e.Data.PatternID)
				s.publishChanged(e.Context(), e.Data.UserID)
			}
			return nil
		})
	return s
}

func (s *ServiceImpl) GetAll(ctx context.Context, from, to string) ([]Assignment, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId, from, to)
}

func (s *ServiceImpl) Create(ctx context.Context, patternId, date, note string) (Assignment, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Assignment{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := ValidateDate(date); err != nil {
		return Assignment{}, err
	}
	if _, err := s.patternLookup(ctx, patternId); err != nil {
		if errors.Is(err, pattern.ErrPatternNotFound) {
			return Assignment{}, fmt.Errorf("%w: %s", ErrUnknownPattern, patternId)
		}
		return Assignment{}, fmt.Errorf("failed to look up pattern: %w", err)
	}

	stored, err := s.repo.Store(ctx, userId, Assignment{
		ID:        uuid.NewString(),
		PatternID: patternId,
		Date:      date,
		Note:      note,
	})
	if err != nil {
		return Assignment{}, fmt.Errorf("failed to store assignment: %w", err)
	}
	s.publishChanged(ctx, userId)
	return stored, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, assignmentId string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, userId, assignmentId)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("assignment not deleted, probably because it does not exist (%s) or the user (%d) is not the owner", assignmentId, userId)
		return ErrAssignmentNotFound
	}
	s.publishChanged(ctx, userId)
	return nil
}

func (s *ServiceImpl) publishChanged(ctx context.Context, userId int) {
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.AssignmentsChangedType, event_bus.AssignmentsChanged{
		UserID: userId,
	})); err != nil {
		log.Errorf("failed to publish assignment change: %v", err)
	}
}
