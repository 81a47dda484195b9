package schedule

import (
	"testing"

	"github.com/alario/alario/pkg/assignment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deletionFixture() []assignment.Assignment {
	return []assignment.Assignment{
		{ID: "a1", PatternID: "p1", Date: "2024-03-09"},
		{ID: "a2", PatternID: "p1", Date: "2024-03-10"},
		{ID: "a3", PatternID: "p1", Date: "2024-03-12"},
		{ID: "a4", PatternID: "p2", Date: "2024-03-11"},
	}
}

func TestResolveDeletion(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		scope  Scope
		want   []string
	}{
		{
			name:   "single removes exactly the clicked binding",
			target: Target{PatternID: "p1", Date: "2024-03-10"},
			scope:  ScopeSingle,
			want:   []string{"a2"},
		},
		{
			name:   "future removes the target day and later days of the same pattern",
			target: Target{PatternID: "p1", Date: "2024-03-10"},
			scope:  ScopeFuture,
			want:   []string{"a2", "a3"},
		},
		{
			name:   "all removes every assignment of the pattern",
			target: Target{PatternID: "p1", Date: "2024-03-10"},
			scope:  ScopeAll,
			want:   []string{"a1", "a2", "a3"},
		},
		{
			name:   "other patterns are never touched",
			target: Target{PatternID: "p2", Date: "2024-03-11"},
			scope:  ScopeAll,
			want:   []string{"a4"},
		},
		{
			name:   "stale target resolves to nothing",
			target: Target{PatternID: "p1", Date: "2024-03-11"},
			scope:  ScopeSingle,
			want:   []string{},
		},
		{
			name:   "unknown pattern resolves to nothing",
			target: Target{PatternID: "p9", Date: "2024-03-10"},
			scope:  ScopeFuture,
			want:   []string{},
		},
		{
			name:   "future from before the earliest day removes everything of the pattern",
			target: Target{PatternID: "p1", Date: "2024-01-01"},
			scope:  ScopeFuture,
			want:   []string{"a1", "a2", "a3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDeletion(tt.target, tt.scope, deletionFixture())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDeletion_EmptySnapshot(t *testing.T) {
	got := ResolveDeletion(Target{PatternID: "p1", Date: "2024-03-10"}, ScopeAll, nil)
	assert.Empty(t, got)
}

func TestParseScope(t *testing.T) {
	for _, valid := range []string{"single", "future", "all"} {
		scope, err := ParseScope(valid)
		require.NoError(t, err)
		assert.Equal(t, Scope(valid), scope)
	}

	for _, invalid := range []string{"", "Single", "everything", "future "} {
		_, err := ParseScope(invalid)
		assert.ErrorIs(t, err, ErrUnknownScope)
	}
}
