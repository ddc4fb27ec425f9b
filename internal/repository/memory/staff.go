// Package memory holds process-local repositories. State lives for the lifetime
// of the process and is lost on restart.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/repository"
)

// NewSet returns empty memory repositories. logLimit caps login log retention.
func NewSet(logLimit int) repository.Set {
	return repository.Set{
		Staff:       NewStaffRepository(),
		Credentials: NewCredentialRepository(),
		LoginLogs:   NewLoginLogRepository(logLimit),
	}
}

// StaffRepository keeps staff in insertion order.
type StaffRepository struct {
	mu    sync.RWMutex
	staff []domain.StaffMember
}

// NewStaffRepository returns an empty directory.
func NewStaffRepository() *StaffRepository {
	return &StaffRepository{}
}

func (r *StaffRepository) Create(_ context.Context, staff *domain.StaffMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.staff {
		if strings.EqualFold(r.staff[i].Username, staff.Username) {
			return repository.ErrConflict
		}
	}
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	if staff.Status == "" {
		staff.Status = domain.StaffStatusActive
	}
	now := time.Now().UTC()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	r.staff = append(r.staff, *staff)
	return nil
}

func (r *StaffRepository) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	return r.find(func(s *domain.StaffMember) bool { return s.ID == id })
}

func (r *StaffRepository) GetByUsername(_ context.Context, username string) (*domain.StaffMember, error) {
	return r.find(func(s *domain.StaffMember) bool { return strings.EqualFold(s.Username, username) })
}

func (r *StaffRepository) GetByAlternateHandle(_ context.Context, handle string) (*domain.StaffMember, error) {
	if handle == "" {
		return nil, repository.ErrNotFound
	}
	return r.find(func(s *domain.StaffMember) bool { return strings.EqualFold(s.AlternateHandle, handle) })
}

func (r *StaffRepository) find(match func(*domain.StaffMember) bool) (*domain.StaffMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.staff {
		if match(&r.staff[i]) {
			found := r.staff[i]
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}
