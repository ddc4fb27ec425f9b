package memory

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/repository"
)

// CredentialRepository maps staff id to its single override.
type CredentialRepository struct {
	mu        sync.RWMutex
	overrides map[string]domain.CredentialOverride
}

// NewCredentialRepository returns an empty store.
func NewCredentialRepository() *CredentialRepository {
	return &CredentialRepository{overrides: make(map[string]domain.CredentialOverride)}
}

func (r *CredentialRepository) Set(_ context.Context, staffID, passwordHash string, changedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[staffID] = domain.CredentialOverride{
		StaffID:      staffID,
		PasswordHash: passwordHash,
		ChangedAt:    changedAt,
	}
	return nil
}

func (r *CredentialRepository) Get(_ context.Context, staffID string) (*domain.CredentialOverride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	override, ok := r.overrides[staffID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &override, nil
}

func (r *CredentialRepository) Delete(_ context.Context, staffID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.overrides, staffID)
	return nil
}

func (r *CredentialRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = make(map[string]domain.CredentialOverride)
	return nil
}

// Len reports how many overrides are stored.
func (r *CredentialRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.overrides)
}
