package service_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"studytrack/backend/internal/db"
	"studytrack/backend/internal/model"
	"studytrack/backend/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})

	_, currentFile, _, _ := runtime.Caller(0)
	migrationsDir := filepath.Join(filepath.Dir(currentFile), "..", "..", "migrations")
	require.NoError(t, db.RunMigrations(database, migrationsDir))

	return database
}

func seedUser(t *testing.T, database *sql.DB) string {
	t.Helper()

	userRepo := repository.NewUserRepository(database)
	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, userRepo.Create(context.Background(), &user))

	prefsRepo := repository.NewPreferencesRepository(database)
	require.NoError(t, prefsRepo.Create(context.Background(), user.ID, model.Preferences{}))

	return user.ID
}
