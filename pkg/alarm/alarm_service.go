package alarm

import (
	"context"
	"fmt"

	"github.com/alario/alario/internal/event_bus"
	"github.com/alario/alario/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetAll(ctx context.Context, from, to string) ([]Alarm, error)
	Get(ctx context.Context, alarmId string) (Alarm, error)
	Create(ctx context.Context, alarm Alarm) (Alarm, error)
	Update(ctx context.Context, alarm Alarm) (Alarm, error)
	Delete(ctx context.Context, alarmId string) error
}

type ServiceImpl struct {
	repo Repo
	bus  *event_bus.EventBus
}

func NewService(repo Repo, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus}
}

func (s *ServiceImpl) GetAll(ctx context.Context, from, to string) ([]Alarm, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId, from, to)
}

func (s *ServiceImpl) Get(ctx context.Context, alarmId string) (Alarm, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Alarm{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, alarmId)
}

func (s *ServiceImpl) Create(ctx context.Context, alarm Alarm) (Alarm, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Alarm{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := alarm.Validate(); err != nil {
		return Alarm{}, err
	}
	alarm.ID = uuid.NewString()

	stored, err := s.repo.Store(ctx, userId, alarm)
	if err != nil {
		return Alarm{}, fmt.Errorf("failed to store alarm: %w", err)
	}
	s.publishChanged(ctx, userId)
	return stored, nil
}

func (s *ServiceImpl) Update(ctx context.Context, alarm Alarm) (Alarm, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Alarm{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := alarm.Validate(); err != nil {
		return Alarm{}, err
	}

	updated, err := s.repo.Update(ctx, userId, alarm)
	if err != nil {
		return Alarm{}, err
	}
	if !updated {
		log.Warnf("alarm not updated, probably because it does not exist (%s) or the user (%d) is not the owner", alarm.ID, userId)
		return Alarm{}, ErrAlarmNotFound
	}
	s.publishChanged(ctx, userId)
	return alarm, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, alarmId string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, userId, alarmId)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("alarm not deleted, probably because it does not exist (%s) or the user (%d) is not the owner", alarmId, userId)
		return ErrAlarmNotFound
	}
	s.publishChanged(ctx, userId)
	return nil
}

func (s *ServiceImpl) publishChanged(ctx context.Context, userId int) {
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.AlarmsChangedType, event_bus.AlarmsChanged{
		UserID: userId,
	})); err != nil {
		log.Errorf("failed to publish alarm change: %v", err)
	}
}
