package schedule

import (
	"testing"
	"time"

	"github.com/alario/alario/pkg/alarm"
	"github.com/alario/alario/pkg/assignment"
	"github.com/alario/alario/pkg/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workPattern() pattern.Pattern {
	return pattern.Pattern{
		ID:    "p-work",
		Name:  "Work",
		Color: "#ff0000",
		Times: []pattern.AlarmTime{
			{Time: "07:00", Volume: 80},
			{Time: "07:15", Volume: 100},
		},
	}
}

func TestExpand_DerivesOccurrencePerAlarmTime(t *testing.T) {
	patterns := []pattern.Pattern{workPattern()}
	assignments := []assignment.Assignment{
		{ID: "a1", PatternID: "p-work", Date: "2024-06-05"},
	}

	occurrences := Expand(patterns, assignments, nil)

	require.Len(t, occurrences, 2)

	first := occurrences[0]
	assert.Equal(t, "Work - 07:00", first.Title)
	assert.Equal(t, "p-work", first.PatternID)
	assert.Equal(t, "a1", first.AssignmentID)
	assert.Equal(t, "2024-06-05", first.Date)
	assert.Equal(t, "#ff0000", first.Color)
	assert.Equal(t, time.Date(2024, 6, 5, 7, 0, 0, 0, time.Local), first.Start)
	assert.Equal(t, first.Start, first.End)

	assert.Equal(t, "Work - 07:15", occurrences[1].Title)
	assert.Equal(t, time.Date(2024, 6, 5, 7, 15, 0, 0, time.Local), occurrences[1].Start)
}

func TestExpand_SkipsAssignmentOfUnknownPattern(t *testing.T) {
	patterns := []pattern.Pattern{workPattern()}
	assignments := []assignment.Assignment{
		{ID: "a1", PatternID: "p-gone", Date: "2024-06-05"},
		{ID: "a2", PatternID: "p-work", Date: "2024-06-06"},
	}

	occurrences := Expand(patterns, assignments, nil)

	require.Len(t, occurrences, 2)
	for _, occ := range occurrences {
		assert.Equal(t, "p-work", occ.PatternID)
		assert.Equal(t, "a2", occ.AssignmentID)
	}
}

func TestExpand_SkipsPatternWithoutTimes(t *testing.T) {
	patterns := []pattern.Pattern{{ID: "p-empty", Name: "Empty"}}
	assignments := []assignment.Assignment{
		{ID: "a1", PatternID: "p-empty", Date: "2024-06-05"},
	}

	assert.Empty(t, Expand(patterns, assignments, nil))
}

func TestExpand_SkipsMalformedInput(t *testing.T) {
	patterns := []pattern.Pattern{
		{ID: "p1", Name: "Odd", Times: []pattern.AlarmTime{{Time: "25:99"}, {Time: "08:30"}}},
	}
	assignments := []assignment.Assignment{
		{ID: "a1", PatternID: "p1", Date: "not-a-date"},
		{ID: "a2", PatternID: "p1", Date: "2024-06-05"},
	}

	occurrences := Expand(patterns, assignments, nil)

	// The malformed date and the malformed alarm time contribute nothing.
	require.Len(t, occurrences, 1)
	assert.Equal(t, "Odd - 08:30", occurrences[0].Title)
	assert.Equal(t, "a2", occurrences[0].AssignmentID)
}

func TestExpand_IsDeterministic(t *testing.T) {
	patterns := []pattern.Pattern{workPattern()}
	assignments := []assignment.Assignment{
		{ID: "a1", PatternID: "p-work", Date: "2024-06-05"},
		{ID: "a2", PatternID: "p-work", Date: "2024-06-03"},
	}

	first := Expand(patterns, assignments, nil)
	second := Expand(patterns, assignments, nil)

	assert.Equal(t, first, second)
	// Assignments expand in arrival order, not chronological order.
	assert.Equal(t, "a1", first[0].AssignmentID)
	assert.Equal(t, "a2", first[2].AssignmentID)
}

func TestExpand_DerivesOccurrencePerOneOffAlarm(t *testing.T) {
	alarms := []alarm.Alarm{
		{ID: "al-1", Date: "2024-06-05", Time: "09:30", Enabled: true},
	}

	occurrences := Expand(nil, nil, alarms)

	require.Len(t, occurrences, 1)
	occ := occurrences[0]
	assert.Equal(t, "Alarm - 09:30", occ.Title)
	assert.Equal(t, "al-1", occ.AlarmID)
	assert.Empty(t, occ.PatternID)
	assert.Empty(t, occ.AssignmentID)
	assert.Equal(t, "2024-06-05", occ.Date)
	assert.Equal(t, time.Date(2024, 6, 5, 9, 30, 0, 0, time.Local), occ.Start)
	assert.Equal(t, occ.Start, occ.End)
}

func TestExpand_AppendsAlarmsAfterAssignments(t *testing.T) {
	patterns := []pattern.Pattern{workPattern()}
	assignments := []assignment.Assignment{
		{ID: "a1", PatternID: "p-work", Date: "2024-06-05"},
	}
	alarms := []alarm.Alarm{
		{ID: "al-1", Date: "2024-06-04", Time: "06:00", Enabled: true},
	}

	occurrences := Expand(patterns, assignments, alarms)

	require.Len(t, occurrences, 3)
	assert.Equal(t, "Work - 07:00", occurrences[0].Title)
	assert.Equal(t, "Work - 07:15", occurrences[1].Title)
	assert.Equal(t, "Alarm - 06:00", occurrences[2].Title)
}

func TestExpand_SkipsMalformedAlarm(t *testing.T) {
	alarms := []alarm.Alarm{
		{ID: "al-1", Date: "not-a-date", Time: "09:30"},
		{ID: "al-2", Date: "2024-06-05", Time: "9:30"},
		{ID: "al-3", Date: "2024-06-05", Time: "10:00"},
	}

	occurrences := Expand(nil, nil, alarms)

	require.Len(t, occurrences, 1)
	assert.Equal(t, "al-3", occurrences[0].AlarmID)
}

func TestExpand_EmptyInputs(t *testing.T) {
	assert.Empty(t, Expand(nil, nil, nil))
	assert.Empty(t, Expand([]pattern.Pattern{workPattern()}, nil, nil))
	assert.Empty(t, Expand(nil, []assignment.Assignment{{ID: "a1", PatternID: "p-work", Date: "2024-06-05"}}, nil))
}
