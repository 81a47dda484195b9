package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/alario/alario/internal/event_bus"
	"github.com/alario/alario/internal/test_utils"
	"github.com/alario/alario/pkg/alarm"
	"github.com/alario/alario/pkg/assignment"
	"github.com/alario/alario/pkg/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScheduleService(t *testing.T) (*Service, *pattern.StubPatternRepo, *assignment.StubAssignmentRepo, *alarm.StubAlarmRepo, context.Context) {
	t.Helper()

	bus := event_bus.NewEventBus()
	patternRepo := pattern.NewStubPatternRepo()
	patternService := pattern.NewService(patternRepo, bus)
	assignmentRepo := assignment.NewStubAssignmentRepo()
	assignmentService := assignment.NewService(assignmentRepo, patternService.Get, bus)
	alarmRepo := alarm.NewStubAlarmRepo()
	alarmService := alarm.NewService(alarmRepo, bus)
	service := NewService(patternService, assignmentService, alarmService, NewSessionStore(), bus)
	ctx := test_utils.ContextWithTestUser()

	_, err := patternRepo.Store(ctx, test_utils.TestUser.Id, workPattern())
	require.NoError(t, err)

	return service, patternRepo, assignmentRepo, alarmRepo, ctx
}

func TestService_Occurrences(t *testing.T) {
	service, _, assignmentRepo, _, ctx := setupScheduleService(t)

	for _, date := range []string{"2024-06-03", "2024-06-05"} {
		_, err := assignmentRepo.Store(ctx, test_utils.TestUser.Id, assignment.Assignment{
			ID: "a-" + date, PatternID: "p-work", Date: date,
		})
		require.NoError(t, err)
	}

	occurrences, err := service.Occurrences(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, occurrences, 4) // 2 assignments x 2 alarm times

	filtered, err := service.Occurrences(ctx, "2024-06-04", "2024-06-30")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, occ := range filtered {
		assert.Equal(t, "2024-06-05", occ.Date)
	}
}

func TestService_Occurrences_CachesSnapshotUntilMutation(t *testing.T) {
	service, _, assignmentRepo, _, ctx := setupScheduleService(t)

	_, err := service.Occurrences(ctx, "", "")
	require.NoError(t, err)
	_, err = service.Occurrences(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, assignmentRepo.GetAllCalls)

	// A store mutation invalidates the cached snapshot.
	_, err = service.assignments.Create(ctx, "p-work", "2024-06-05", "")
	require.NoError(t, err)

	occurrences, err := service.Occurrences(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, occurrences, 2)
	assert.Equal(t, 2, assignmentRepo.GetAllCalls)
}

func TestService_Occurrences_IncludesOneOffAlarms(t *testing.T) {
	service, _, assignmentRepo, _, ctx := setupScheduleService(t)

	_, err := assignmentRepo.Store(ctx, test_utils.TestUser.Id, assignment.Assignment{
		ID: "a1", PatternID: "p-work", Date: "2024-06-05",
	})
	require.NoError(t, err)
	_, err = service.alarms.Create(ctx, alarm.Alarm{
		Date: "2024-06-06", Time: "09:30", Enabled: true, Volume: 100, SnoozeMinutes: 5,
	})
	require.NoError(t, err)

	occurrences, err := service.Occurrences(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, occurrences, 3)
	assert.Equal(t, "Alarm - 09:30", occurrences[2].Title)

	// The date filter applies to one-off alarms as well.
	filtered, err := service.Occurrences(ctx, "2024-06-06", "")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Alarm - 09:30", filtered[0].Title)
}

func TestService_Occurrences_AlarmMutationInvalidatesSnapshot(t *testing.T) {
	service, _, assignmentRepo, alarmRepo, ctx := setupScheduleService(t)

	_, err := service.Occurrences(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, alarmRepo.GetAllCalls)

	_, err = service.alarms.Create(ctx, alarm.Alarm{
		Date: "2024-06-06", Time: "09:30", Enabled: true, Volume: 100, SnoozeMinutes: 5,
	})
	require.NoError(t, err)

	occurrences, err := service.Occurrences(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, occurrences, 1)
	assert.Equal(t, 2, alarmRepo.GetAllCalls)
	assert.Equal(t, 2, assignmentRepo.GetAllCalls)
}

func TestService_SelectionRoundTrip(t *testing.T) {
	service, _, _, _, ctx := setupScheduleService(t)

	selection, err := service.CurrentSelection(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, selection.Len())

	selection, err = service.ToggleSelection(ctx, day(2024, 6, 3), day(2024, 6, 5))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-03", "2024-06-04", "2024-06-05"}, selection.Keys())

	require.NoError(t, service.ClearSelection(ctx))

	selection, err = service.CurrentSelection(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, selection.Len())
}

func TestService_BulkApply(t *testing.T) {
	service, _, assignmentRepo, _, ctx := setupScheduleService(t)

	_, err := service.ToggleSelection(ctx, day(2024, 6, 3), day(2024, 6, 4))
	require.NoError(t, err)

	result, err := service.BulkApply(ctx, "p-work")
	require.NoError(t, err)

	assert.Equal(t, "p-work", result.PatternID)
	assert.Equal(t, []string{"2024-06-03", "2024-06-04"}, result.Applied)
	assert.Empty(t, result.Failed)
	assert.Equal(t, []string{"2024-06-03", "2024-06-04"}, assignmentRepo.Dates())

	// One creation per selected date, exactly one refresh afterwards.
	assert.Equal(t, 2, assignmentRepo.StoreCalls)
	assert.Equal(t, 1, assignmentRepo.GetAllCalls)

	// The selection is consumed by the apply.
	selection, err := service.CurrentSelection(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, selection.Len())

	// The next expansion reuses the refreshed snapshot.
	occurrences, err := service.Occurrences(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, occurrences, 4)
	assert.Equal(t, 1, assignmentRepo.GetAllCalls)
}

func TestService_BulkApply_EmptySelection(t *testing.T) {
	service, _, assignmentRepo, _, ctx := setupScheduleService(t)

	_, err := service.BulkApply(ctx, "p-work")

	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, 0, assignmentRepo.StoreCalls)
}

func TestService_BulkApply_UnknownPatternKeepsSelection(t *testing.T) {
	service, _, assignmentRepo, _, ctx := setupScheduleService(t)

	_, err := service.ToggleSelection(ctx, day(2024, 6, 3), day(2024, 6, 4))
	require.NoError(t, err)

	_, err = service.BulkApply(ctx, "p-missing")

	assert.ErrorIs(t, err, pattern.ErrPatternNotFound)
	assert.Equal(t, 0, assignmentRepo.StoreCalls)

	selection, err := service.CurrentSelection(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, selection.Len())
}

func TestService_BulkApply_UnreachableStoreKeepsSelection(t *testing.T) {
	service, patternRepo, assignmentRepo, _, ctx := setupScheduleService(t)

	_, err := service.ToggleSelection(ctx, day(2024, 6, 3), day(2024, 6, 4))
	require.NoError(t, err)

	patternRepo.GetErr = errors.New("store unreachable")
	_, err = service.BulkApply(ctx, "p-work")

	require.Error(t, err)
	assert.Equal(t, 0, assignmentRepo.StoreCalls)

	selection, err := service.CurrentSelection(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, selection.Len())
}

func TestService_BulkApply_PerDateFailureIsBestEffort(t *testing.T) {
	service, _, assignmentRepo, _, ctx := setupScheduleService(t)

	_, err := service.ToggleSelection(ctx, day(2024, 6, 3), day(2024, 6, 5))
	require.NoError(t, err)

	assignmentRepo.FailDates = map[string]bool{"2024-06-04": true}
	result, err := service.BulkApply(ctx, "p-work")
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-06-03", "2024-06-05"}, result.Applied)
	assert.Equal(t, []string{"2024-06-04"}, result.Failed)
	assert.Equal(t, []string{"2024-06-03", "2024-06-05"}, assignmentRepo.Dates())

	// Best effort: the selection is cleared even though one date failed.
	selection, err := service.CurrentSelection(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, selection.Len())

	// All creations settle before the single refresh.
	assert.Equal(t, 3, assignmentRepo.StoreCalls)
	assert.Equal(t, 1, assignmentRepo.GetAllCalls)
}

func TestService_BulkApply_AlreadyAssignedDateIsIdempotent(t *testing.T) {
	service, _, assignmentRepo, _, ctx := setupScheduleService(t)

	_, err := service.assignments.Create(ctx, "p-work", "2024-06-03", "")
	require.NoError(t, err)

	_, err = service.ToggleSelection(ctx, day(2024, 6, 3), day(2024, 6, 4))
	require.NoError(t, err)

	result, err := service.BulkApply(ctx, "p-work")
	require.NoError(t, err)

	// The duplicate date succeeds against the existing assignment.
	assert.Equal(t, []string{"2024-06-03", "2024-06-04"}, result.Applied)
	assert.Equal(t, []string{"2024-06-03", "2024-06-04"}, assignmentRepo.Dates())
}

func TestService_DeleteOccurrence(t *testing.T) {
	service, _, assignmentRepo, _, ctx := setupScheduleService(t)

	for _, date := range []string{"2024-03-09", "2024-03-10", "2024-03-12"} {
		_, err := service.assignments.Create(ctx, "p-work", date, "")
		require.NoError(t, err)
	}

	result, err := service.DeleteOccurrence(ctx, Target{PatternID: "p-work", Date: "2024-03-10"}, ScopeFuture)
	require.NoError(t, err)

	assert.Len(t, result.Deleted, 2)
	assert.Empty(t, result.Failed)
	assert.Equal(t, []string{"2024-03-09"}, assignmentRepo.Dates())

	occurrences, err := service.Occurrences(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, occurrences, 2)
	assert.Equal(t, "2024-03-09", occurrences[0].Date)
}

func TestService_DeleteOccurrence_StaleTargetIsNoOp(t *testing.T) {
	service, _, assignmentRepo, _, ctx := setupScheduleService(t)

	_, err := service.assignments.Create(ctx, "p-work", "2024-03-09", "")
	require.NoError(t, err)
	baseline := assignmentRepo.GetAllCalls

	result, err := service.DeleteOccurrence(ctx, Target{PatternID: "p-work", Date: "2024-03-10"}, ScopeSingle)
	require.NoError(t, err)

	assert.Empty(t, result.Deleted)
	assert.Empty(t, result.Failed)
	assert.Equal(t, []string{"2024-03-09"}, assignmentRepo.Dates())
	// Nothing was removed, so nothing was refreshed beyond the snapshot load.
	assert.Equal(t, baseline+1, assignmentRepo.GetAllCalls)
}

func TestService_DeleteOccurrence_CollectsFailures(t *testing.T) {
	service, _, assignmentRepo, _, ctx := setupScheduleService(t)

	for _, date := range []string{"2024-03-09", "2024-03-10"} {
		_, err := service.assignments.Create(ctx, "p-work", date, "")
		require.NoError(t, err)
	}
	// Warm the snapshot, then make deletes fail.
	_, err := service.Occurrences(ctx, "", "")
	require.NoError(t, err)
	assignmentRepo.DeleteErr = errors.New("store unreachable")

	result, err := service.DeleteOccurrence(ctx, Target{PatternID: "p-work", Date: "2024-03-09"}, ScopeAll)
	require.NoError(t, err)

	assert.Empty(t, result.Deleted)
	assert.Len(t, result.Failed, 2)
	assert.Equal(t, []string{"2024-03-09", "2024-03-10"}, assignmentRepo.Dates())
}
