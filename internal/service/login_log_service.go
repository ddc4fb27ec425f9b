package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/events"
	"github.com/spec-kit/staff-portal/internal/ids"
	"github.com/spec-kit/staff-portal/internal/repository"
	apperrors "github.com/spec-kit/staff-portal/pkg/util"
)

// MaxLoginLogPage bounds a single listing.
const MaxLoginLogPage = 1000

// LoginLogService exposes read and purge operations over the login audit log.
type LoginLogService struct {
	logs       repository.LoginLogRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewLoginLogService constructs the service.
func NewLoginLogService(logs repository.LoginLogRepository, dispatcher events.Dispatcher, logger *zap.Logger) *LoginLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginLogService{logs: logs, dispatcher: dispatcher, logger: logger, now: time.Now}
}

// ListAll returns the most recent entries first.
func (s *LoginLogService) ListAll(ctx context.Context, limit int) ([]domain.LoginLogEntry, error) {
	return s.list(ctx, repository.LoginLogFilter{Limit: clampLimit(limit)})
}

// ListToday returns entries since local midnight.
func (s *LoginLogService) ListToday(ctx context.Context, limit int) ([]domain.LoginLogEntry, error) {
	return s.list(ctx, repository.LoginLogFilter{Since: startOfDay(s.now()), Limit: clampLimit(limit)})
}

// ListForStaff returns a single staff member's entries.
func (s *LoginLogService) ListForStaff(ctx context.Context, staffID string, limit int) ([]domain.LoginLogEntry, error) {
	if staffID == "" {
		return nil, apperrors.NewValidationError("staffId is required", nil)
	}
	return s.list(ctx, repository.LoginLogFilter{StaffID: staffID, Limit: clampLimit(limit)})
}

// CountToday counts entries since local midnight.
func (s *LoginLogService) CountToday(ctx context.Context) (int64, error) {
	n, err := s.logs.Count(ctx, repository.LoginLogFilter{Since: startOfDay(s.now())})
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return n, nil
}

// CountAll counts every retained entry.
func (s *LoginLogService) CountAll(ctx context.Context) (int64, error) {
	n, err := s.logs.Count(ctx, repository.LoginLogFilter{})
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return n, nil
}

// PurgeAll clears the log and returns how many entries were removed.
func (s *LoginLogService) PurgeAll(ctx context.Context, actorID string) (int64, error) {
	n, err := s.logs.Count(ctx, repository.LoginLogFilter{})
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	if err := s.logs.DeleteAll(ctx); err != nil {
		return 0, apperrors.NewInternalError(err)
	}

	s.logger.Warn("login logs purged", zap.String("actor_id", actorID), zap.Int64("removed", n))
	if s.dispatcher != nil {
		now := s.now()
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        ids.New(now),
			Type:      events.EventLoginLogsPurged,
			StaffID:   actorID,
			Timestamp: now,
			Payload:   events.LoginLogsPurgedPayload{Removed: n},
		})
	}
	return n, nil
}

func (s *LoginLogService) list(ctx context.Context, filter repository.LoginLogFilter) ([]domain.LoginLogEntry, error) {
	logs, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if logs == nil {
		logs = []domain.LoginLogEntry{}
	}
	return logs, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxLoginLogPage {
		return MaxLoginLogPage
	}
	return limit
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
