package test_utils

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alario/alario/pkg/user"
)

// TestUser is the user every test request runs as.
var TestUser = user.User{
	Id:          123,
	Uid:         "test-user-uid",
	Username:    "test_user",
	DisplayName: "Test User",
	Settings: user.Settings{
		Timezone: "Europe/Warsaw",
	},
}

// ContextWithTestUser returns a context carrying TestUser, mimicking the
// X-User-Id middleware.
func ContextWithTestUser() context.Context {
	return user.WithUser(context.Background(), TestUser)
}

// SeedTestUser inserts TestUser into the users table so foreign key and
// user scoped queries work against a migrated test database.
func SeedTestUser(t *testing.T, db *sql.DB) {
	t.Helper()

	_, err := db.Exec(
		"INSERT INTO users (id, uid, username, display_name, timezone) VALUES (?, ?, ?, ?, ?)",
		TestUser.Id, TestUser.Uid, TestUser.Username, TestUser.DisplayName, TestUser.Settings.Timezone,
	)
	if err != nil {
		t.Fatalf("Failed to seed test user: %v", err)
	}
}
