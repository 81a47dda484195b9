package app

import (
	"database/sql"

	"github.com/alario/alario/internal/config"
	"github.com/alario/alario/internal/event_bus"
	"github.com/alario/alario/internal/utils"
	"github.com/alario/alario/pkg/alarm"
	"github.com/alario/alario/pkg/assignment"
	"github.com/alario/alario/pkg/pattern"
	"github.com/alario/alario/pkg/schedule"
	"github.com/alario/alario/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	PatternRepo    pattern.Repo
	PatternService pattern.Service
	PatternHandler *pattern.Handler

	AssignmentRepo    assignment.Repo
	AssignmentService assignment.Service
	AssignmentHandler *assignment.Handler

	AlarmRepo    alarm.Repo
	AlarmService alarm.Service
	AlarmHandler *alarm.Handler

	ScheduleSessions *schedule.SessionStore
	ScheduleService  *schedule.Service
	ScheduleHandler  *schedule.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.PatternRepo = pattern.NewPatternRepo(db)
	deps.PatternService = pattern.NewService(deps.PatternRepo, deps.EventBus)
	deps.PatternHandler = pattern.NewHandler(deps.PatternService)

	deps.AssignmentRepo = assignment.NewAssignmentRepo(db)
	deps.AssignmentService = assignment.NewService(deps.AssignmentRepo, deps.PatternService.Get, deps.EventBus)
	deps.AssignmentHandler = assignment.NewHandler(deps.AssignmentService)

	deps.AlarmRepo = alarm.NewAlarmRepo(db)
	deps.AlarmService = alarm.NewService(deps.AlarmRepo, deps.EventBus)
	deps.AlarmHandler = alarm.NewHandler(deps.AlarmService)

	deps.ScheduleSessions = schedule.NewSessionStore()
	deps.ScheduleService = schedule.NewService(deps.PatternService, deps.AssignmentService, deps.AlarmService, deps.ScheduleSessions, deps.EventBus)
	deps.ScheduleHandler = schedule.NewHandler(deps.ScheduleService, deps.Clock, cfg.Feed.Name, cfg.Feed.HorizonDays)

	return deps
}
