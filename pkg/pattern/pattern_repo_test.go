package pattern

import (
	"context"
	"testing"

	"github.com/alario/alario/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepoTest(t *testing.T) (*RepoImpl, context.Context, int) {
	t.Helper()

	db := test_utils.SetupTestDB(t)
	test_utils.SeedTestUser(t, db)
	return NewPatternRepo(db), context.Background(), test_utils.TestUser.Id
}

func TestRepoImpl_StoreAndGet(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	p := validPattern()
	p.ID = "pattern-1"
	p.Description = "weekday mornings"

	id, err := repo.Store(ctx, userId, p)
	require.NoError(t, err)
	assert.Equal(t, "pattern-1", id)

	stored, err := repo.Get(ctx, userId, id)
	require.NoError(t, err)
	assert.Equal(t, p.Name, stored.Name)
	assert.Equal(t, p.Description, stored.Description)
	assert.Equal(t, p.Color, stored.Color)
	assert.Equal(t, p.Times, stored.Times)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestRepoImpl_Get_NotFound(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	_, err := repo.Get(ctx, userId, "missing")
	assert.ErrorIs(t, err, ErrPatternNotFound)
}

func TestRepoImpl_Get_OtherUsersPatternIsHidden(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	p := validPattern()
	p.ID = "pattern-1"
	_, err := repo.Store(ctx, userId, p)
	require.NoError(t, err)

	_, err = repo.Get(ctx, userId+1, "pattern-1")
	assert.ErrorIs(t, err, ErrPatternNotFound)
}

func TestRepoImpl_GetAll(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	for _, id := range []string{"pattern-1", "pattern-2"} {
		p := validPattern()
		p.ID = id
		p.Name = id
		_, err := repo.Store(ctx, userId, p)
		require.NoError(t, err)
	}

	patterns, err := repo.GetAll(ctx, userId)
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, "pattern-1", patterns[0].ID)
	assert.Equal(t, "pattern-2", patterns[1].ID)
	// Alarm times are loaded for every pattern, in pattern order.
	assert.Equal(t, validPattern().Times, patterns[0].Times)
	assert.Equal(t, validPattern().Times, patterns[1].Times)
}

func TestRepoImpl_GetAll_Empty(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	patterns, err := repo.GetAll(ctx, userId)
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestRepoImpl_Update_ReplacesTimes(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	p := validPattern()
	p.ID = "pattern-1"
	_, err := repo.Store(ctx, userId, p)
	require.NoError(t, err)

	p.Name = "Workday (late)"
	p.Times = []AlarmTime{{Time: "08:00", Volume: 50, SnoozeMinutes: 15}}
	updated, err := repo.Update(ctx, userId, p)
	require.NoError(t, err)
	assert.True(t, updated)

	stored, err := repo.Get(ctx, userId, "pattern-1")
	require.NoError(t, err)
	assert.Equal(t, "Workday (late)", stored.Name)
	assert.Equal(t, p.Times, stored.Times)
}

func TestRepoImpl_Update_NotFound(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	p := validPattern()
	p.ID = "missing"
	updated, err := repo.Update(ctx, userId, p)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestRepoImpl_Delete(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	p := validPattern()
	p.ID = "pattern-1"
	_, err := repo.Store(ctx, userId, p)
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, userId, "pattern-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.Get(ctx, userId, "pattern-1")
	assert.ErrorIs(t, err, ErrPatternNotFound)

	deleted, err = repo.Delete(ctx, userId, "pattern-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}
