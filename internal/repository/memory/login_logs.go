package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/repository"
)

// DefaultLoginLogLimit is the retention cap when none is given.
const DefaultLoginLogLimit = 1000

// LoginLogRepository keeps the most recent entries up to a fixed limit.
type LoginLogRepository struct {
	mu      sync.RWMutex
	limit   int
	entries []domain.LoginLogEntry
}

// NewLoginLogRepository returns an empty log. limit <= 0 uses DefaultLoginLogLimit.
func NewLoginLogRepository(limit int) *LoginLogRepository {
	if limit <= 0 {
		limit = DefaultLoginLogLimit
	}
	return &LoginLogRepository{limit: limit}
}

func (r *LoginLogRepository) Append(_ context.Context, entry *domain.LoginLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	if over := len(r.entries) - r.limit; over > 0 {
		r.entries = append([]domain.LoginLogEntry(nil), r.entries[over:]...)
	}
	return nil
}

func (r *LoginLogRepository) List(_ context.Context, filter repository.LoginLogFilter) ([]domain.LoginLogEntry, error) {
	r.mu.RLock()
	result := make([]domain.LoginLogEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		if matches(&r.entries[i], filter) {
			result = append(result, r.entries[i])
		}
	}
	r.mu.RUnlock()

	// Entries are appended in arrival order; the stable sort keeps later arrivals
	// first when timestamps tie.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *LoginLogRepository) Count(_ context.Context, filter repository.LoginLogFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for i := range r.entries {
		if matches(&r.entries[i], filter) {
			n++
		}
	}
	return n, nil
}

func (r *LoginLogRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	return nil
}

func matches(entry *domain.LoginLogEntry, filter repository.LoginLogFilter) bool {
	if filter.StaffID != "" && entry.StaffID != filter.StaffID {
		return false
	}
	if !filter.Since.IsZero() && entry.Timestamp.Before(filter.Since) {
		return false
	}
	return true
}
