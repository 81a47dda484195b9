package alarm

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
	return NewAlarmRepo(db), context.Background(), test_utils.TestUser.Id
}

func TestRepoImpl_StoreAndGet(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	a := validAlarm()
	a.ID = "al-1"
	stored, err := repo.Store(ctx, userId, a)
	require.NoError(t, err)
	assert.False(t, stored.CreatedAt.IsZero())

	fetched, err := repo.Get(ctx, userId, "al-1")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-05", fetched.Date)
	assert.Equal(t, "09:30", fetched.Time)
	assert.True(t, fetched.Enabled)
	assert.Equal(t, "default", fetched.Sound)
	assert.Equal(t, 100, fetched.Volume)
	assert.Equal(t, 5, fetched.SnoozeMinutes)
}

func TestRepoImpl_Get_NotFound(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	_, err := repo.Get(ctx, userId, "missing")
	assert.ErrorIs(t, err, ErrAlarmNotFound)
}

func TestRepoImpl_Get_ScopedToUser(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	a := validAlarm()
	a.ID = "al-1"
	_, err := repo.Store(ctx, userId, a)
	require.NoError(t, err)

	_, err = repo.Get(ctx, userId+1, "al-1")
	assert.ErrorIs(t, err, ErrAlarmNotFound)
}

func TestRepoImpl_GetAll_OrdersByDateAndTime(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	for _, spec := range []struct{ id, date, time string }{
		{"al-1", "2024-06-07", "06:00"},
		{"al-2", "2024-06-05", "09:30"},
		{"al-3", "2024-06-05", "07:00"},
	} {
		a := validAlarm()
		a.ID = spec.id
		a.Date = spec.date
		a.Time = spec.time
		_, err := repo.Store(ctx, userId, a)
		require.NoError(t, err)
	}

	all, err := repo.GetAll(ctx, userId, "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"al-3", "al-2", "al-1"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestRepoImpl_GetAll_DateRange(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	for _, date := range []string{"2024-06-03", "2024-06-05", "2024-06-09"} {
		a := validAlarm()
		a.ID = "al-" + date
		a.Date = date
		_, err := repo.Store(ctx, userId, a)
		require.NoError(t, err)
	}

	ranged, err := repo.GetAll(ctx, userId, "2024-06-04", "2024-06-08")
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "2024-06-05", ranged[0].Date)
}

func TestRepoImpl_Update(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	a := validAlarm()
	a.ID = "al-1"
	_, err := repo.Store(ctx, userId, a)
	require.NoError(t, err)

	a.Time = "10:15"
	a.Enabled = false
	updated, err := repo.Update(ctx, userId, a)
	require.NoError(t, err)
	assert.True(t, updated)

	fetched, err := repo.Get(ctx, userId, "al-1")
	require.NoError(t, err)
	assert.Equal(t, "10:15", fetched.Time)
	assert.False(t, fetched.Enabled)
}

func TestRepoImpl_Update_NotFound(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	a := validAlarm()
	a.ID = "missing"
	updated, err := repo.Update(ctx, userId, a)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestRepoImpl_Delete(t *testing.T) {
	repo, ctx, userId := setupRepoTest(t)

	a := validAlarm()
	a.ID = "al-1"
	_, err := repo.Store(ctx, userId, a)
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, userId, "al-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.Get(ctx, userId, "al-1")
	assert.ErrorIs(t, err, ErrAlarmNotFound)

	deleted, err = repo.Delete(ctx, userId, "al-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}
