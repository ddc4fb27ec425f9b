package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/events"
	"github.com/spec-kit/staff-portal/internal/repository/memory"
	apperrors "github.com/spec-kit/staff-portal/pkg/util"
)

func TestLoginLogService(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLoginLogRepository(0)
	now := time.Date(2026, 10, 16, 15, 0, 0, 0, time.Local)

	seed := []struct {
		staff string
		at    time.Time
	}{
		{"s1", now.Add(-30 * time.Hour)},
		{"s2", now.Add(-20 * time.Hour)},
		{"s1", now.Add(-2 * time.Hour)},
		{"s2", now.Add(-1 * time.Hour)},
	}
	for i, e := range seed {
		require.NoError(t, repo.Append(ctx, &domain.LoginLogEntry{
			ID:        fmt.Sprintf("log-%d", i),
			StaffID:   e.staff,
			Timestamp: e.at,
		}))
	}

	rec := &recorder{}
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	dispatcher.Subscribe(events.EventLoginLogsPurged, rec.handle)

	svc := NewLoginLogService(repo, dispatcher, zap.NewNop())
	svc.now = func() time.Time { return now }

	all, err := svc.ListAll(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "log-3", all[0].ID)

	today, err := svc.ListToday(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, today, 2)

	count, err := svc.CountToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	mine, err := svc.ListForStaff(ctx, "s1", 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "log-2", mine[0].ID)

	_, err = svc.ListForStaff(ctx, "", 10)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	removed, err := svc.PurgeAll(ctx, "admin-id")
	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)

	total, err := svc.CountAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	empty, err := svc.ListAll(ctx, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.Len(t, rec.events, 1)
	assert.Equal(t, events.EventLoginLogsPurged, rec.events[0].Type)
	assert.Equal(t, "admin-id", rec.events[0].StaffID)
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("SGT", 8*3600)
	got := startOfDay(time.Date(2026, 10, 16, 0, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, loc), got)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, MaxLoginLogPage, clampLimit(0))
	assert.Equal(t, MaxLoginLogPage, clampLimit(MaxLoginLogPage+1))
	assert.Equal(t, 25, clampLimit(25))
}
