package app

import (
	"github.com/alario/alario/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Alarm patterns
	r.HandleFunc("/api/pattern", deps.PatternHandler.ListPatterns).Methods("GET")
	r.HandleFunc("/api/pattern", deps.PatternHandler.CreatePattern).Methods("POST")
	r.HandleFunc("/api/pattern/{patternId}", deps.PatternHandler.GetPattern).Methods("GET")
	r.HandleFunc("/api/pattern/{patternId}", deps.PatternHandler.UpdatePattern).Methods("PUT")
	r.HandleFunc("/api/pattern/{patternId}", deps.PatternHandler.DeletePattern).Methods("DELETE")

	// Pattern-to-date assignments
	r.HandleFunc("/api/assignment", deps.AssignmentHandler.ListAssignments).Methods("GET")
	r.HandleFunc("/api/assignment", deps.AssignmentHandler.CreateAssignment).Methods("POST")
	r.HandleFunc("/api/assignment/{assignmentId}", deps.AssignmentHandler.DeleteAssignment).Methods("DELETE")

	// One-off alarms
	r.HandleFunc("/api/alarm", deps.AlarmHandler.ListAlarms).Methods("GET")
	r.HandleFunc("/api/alarm", deps.AlarmHandler.CreateAlarm).Methods("POST")
	r.HandleFunc("/api/alarm/{alarmId}", deps.AlarmHandler.GetAlarm).Methods("GET")
	r.HandleFunc("/api/alarm/{alarmId}", deps.AlarmHandler.UpdateAlarm).Methods("PUT")
	r.HandleFunc("/api/alarm/{alarmId}", deps.AlarmHandler.DeleteAlarm).Methods("DELETE")

	// Schedule derivation, selection, bulk operations
	r.HandleFunc("/api/schedule/occurrences", deps.ScheduleHandler.GetOccurrences).Methods("GET")
	r.HandleFunc("/api/schedule/selection", deps.ScheduleHandler.GetSelection).Methods("GET")
	r.HandleFunc("/api/schedule/selection", deps.ScheduleHandler.ClearSelection).Methods("DELETE")
	r.HandleFunc("/api/schedule/selection/toggle", deps.ScheduleHandler.ToggleSelection).Methods("POST")
	r.HandleFunc("/api/schedule/bulk-apply", deps.ScheduleHandler.BulkApply).Methods("POST")
	r.HandleFunc("/api/schedule/occurrence/delete", deps.ScheduleHandler.DeleteOccurrence).Methods("POST")
	r.HandleFunc("/api/schedule/feed.ics", deps.ScheduleHandler.GetFeed).Methods("GET")

	// User management
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
}
