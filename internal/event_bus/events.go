package event_bus

const (
	// PatternDeletedType is published while a pattern is being removed,
	// before its store row is gone. Assignments referencing the pattern must
	// be cleaned up by subscribers before the row delete proceeds.
	PatternDeletedType EventType = "pattern.deleted"
	// PatternsChangedType is published after any mutation of the pattern
	// store. View caches built from pattern snapshots must be invalidated.
	PatternsChangedType EventType = "patterns.changed"
	// AssignmentsChangedType is published after any mutation of the
	// assignment store. View caches built from assignment snapshots must be
	// invalidated.
	AssignmentsChangedType EventType = "assignments.changed"
	// AlarmsChangedType is published after any mutation of the one-off alarm
	// store.
	AlarmsChangedType EventType = "alarms.changed"
)

type PatternDeleted struct {
	PatternID string
	UserID    int
}

type PatternsChanged struct {
	UserID int
}

type AssignmentsChanged struct {
	UserID int
}

type AlarmsChanged struct {
	UserID int
}
