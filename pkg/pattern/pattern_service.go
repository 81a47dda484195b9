package pattern

import (
	"context"
	"fmt"

	"github.com/alario/alario/internal/event_bus"
	"github.com/alario/alario/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetAll(ctx context.Context) ([]Pattern, error)
	Get(ctx context.Context, patternId string) (Pattern, error)
	Create(ctx context.Context, pattern Pattern) (Pattern, error)
	Update(ctx context.Context, pattern Pattern) (Pattern, error)
	Delete(ctx context.Context, patternId string) error
}

type ServiceImpl struct {
	repo Repo
	bus  *event_bus.EventBus
}

func NewService(repo Repo, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Pattern, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Get(ctx context.Context, patternId string) (Pattern, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Pattern{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, patternId)
}

func (s *ServiceImpl) Create(ctx context.Context, pattern Pattern) (Pattern, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Pattern{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := pattern.Validate(); err != nil {
		return Pattern{}, err
	}
	pattern.ID = uuid.NewString()

	id, err := s.repo.Store(ctx, userId, pattern)
	if err != nil {
		return Pattern{}, fmt.Errorf("failed to store pattern: %w", err)
	}
	pattern.ID = id
	s.publishChanged(ctx, userId)
	return pattern, nil
}

func (s *ServiceImpl) Update(ctx context.Context, pattern Pattern) (Pattern, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Pattern{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := pattern.Validate(); err != nil {
		return Pattern{}, err
	}

	updated, err := s.repo.Update(ctx, userId, pattern)
	if err != nil {
		return Pattern{}, err
	}
	if !updated {
		log.Warnf("pattern not updated, probably because it does not exist (%s) or the user (%d) is not the owner", pattern.ID, userId)
		return Pattern{}, ErrPatternNotFound
	}
	s.publishChanged(ctx, userId)
	return pattern, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, patternId string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	if _, err := s.repo.Get(ctx, userId, patternId); err != nil {
		return err
	}

	// Assignments referencing the pattern must be removed by subscribers
	// before the pattern row goes away, otherwise the binding's foreign key
	// blocks the delete.
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.PatternDeletedType, event_bus.PatternDeleted{
		PatternID: patternId,
		UserID:    userId,
	})); err != nil {
		return fmt.Errorf("failed to clean up assignments of pattern %s: %w", patternId, err)
	}

	deleted, err := s.repo.Delete(ctx, userId, patternId)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("pattern not deleted, probably because it does not exist (%s) or the user (%d) is not the owner", patternId, userId)
		return ErrPatternNotFound
	}
	s.publishChanged(ctx, userId)
	return nil
}

func (s *ServiceImpl) publishChanged(ctx context.Context, userId int) {
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.PatternsChangedType, event_bus.PatternsChanged{
		UserID: userId,
	})); err != nil {
		log.Errorf("failed to publish pattern change: %v", err)
	}
}
