package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-portal/internal/config"
	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/ids"
	"github.com/spec-kit/staff-portal/internal/persistence"
	"github.com/spec-kit/staff-portal/internal/repository"
)

// setupPostgres migrates the database at POSTGRES_TEST_DSN and empties the tables.
func setupPostgres(t *testing.T) repository.Set {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()
	logger := zap.NewNop()

	require.NoError(t, persistence.RunMigrations(dsn, filepath.Join("..", "..", "migrations"), logger))
	pg, err := persistence.NewPostgres(ctx, config.PostgresConfig{DSN: dsn, MaxConns: 4}, "staff-portal-test", logger)
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	_, err = pg.Pool.Exec(ctx, `TRUNCATE login_logs, credential_overrides, staff_members`)
	require.NoError(t, err)
	return repository.NewPostgresSet(pg.Pool)
}

func TestPostgresRepositories(t *testing.T) {
	set := setupPostgres(t)
	ctx := context.Background()

	staff := &domain.StaffMember{
		Username:        "John.Doe",
		AlternateHandle: "JohnDoe#0456",
		Email:           "john.doe@example.com",
		Name:            "John Doe",
		Role:            domain.StaffRoleStaff,
		Department:      "Maintenance",
		PasswordHash:    "hash",
	}
	require.NoError(t, set.Staff.Create(ctx, staff))
	require.NotEmpty(t, staff.ID)

	err := set.Staff.Create(ctx, &domain.StaffMember{Username: "john.doe", Role: domain.StaffRoleStaff, PasswordHash: "x"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	got, err := set.Staff.GetByUsername(ctx, "JOHN.DOE")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, got.ID)
	assert.Equal(t, domain.StaffStatusActive, got.Status)

	got, err = set.Staff.GetByAlternateHandle(ctx, "johndoe#0456")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, got.ID)

	_, err = set.Staff.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	now := time.Now().UTC()
	require.NoError(t, set.Credentials.Set(ctx, staff.ID, "hash-1", now))
	require.NoError(t, set.Credentials.Set(ctx, staff.ID, "hash-2", now))
	override, err := set.Credentials.Get(ctx, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-2", override.PasswordHash)

	for i := 0; i < 3; i++ {
		at := now.Add(time.Duration(i) * time.Second)
		require.NoError(t, set.LoginLogs.Append(ctx, &domain.LoginLogEntry{
			ID:          ids.New(at),
			StaffID:     staff.ID,
			Username:    staff.Username,
			Role:        staff.Role,
			LoginMethod: domain.LoginMethodUsername,
			Timestamp:   at,
		}))
	}
	logs, err := set.LoginLogs.List(ctx, repository.LoginLogFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].Timestamp.After(logs[1].Timestamp))

	n, err := set.LoginLogs.Count(ctx, repository.LoginLogFilter{StaffID: staff.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, set.LoginLogs.DeleteAll(ctx))
	n, err = set.LoginLogs.Count(ctx, repository.LoginLogFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}
