package repository

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/staff-portal/internal/domain"
)

var (
	// ErrNotFound is returned by every backend for unknown identifiers.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique key already exists.
	ErrConflict = errors.New("record already exists")
)

// StaffRepository resolves login identifiers to staff records.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffMember) error
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	// GetByUsername matches case-insensitively.
	GetByUsername(ctx context.Context, username string) (*domain.StaffMember, error)
	// GetByAlternateHandle matches case-insensitively; handles are not unique, the oldest wins.
	GetByAlternateHandle(ctx context.Context, handle string) (*domain.StaffMember, error)
}

// CredentialRepository holds at most one override hash per staff member.
type CredentialRepository interface {
	// Set replaces any existing override for staffID.
	Set(ctx context.Context, staffID, passwordHash string, changedAt time.Time) error
	Get(ctx context.Context, staffID string) (*domain.CredentialOverride, error)
	Delete(ctx context.Context, staffID string) error
	DeleteAll(ctx context.Context) error
}

// LoginLogFilter narrows login log queries. Zero values match everything.
type LoginLogFilter struct {
	StaffID string
	Since   time.Time
	Limit   int
}

// LoginLogRepository is the append-only login audit log.
type LoginLogRepository interface {
	Append(ctx context.Context, entry *domain.LoginLogEntry) error
	// List returns matching entries, most recent first.
	List(ctx context.Context, filter LoginLogFilter) ([]domain.LoginLogEntry, error)
	Count(ctx context.Context, filter LoginLogFilter) (int64, error)
	DeleteAll(ctx context.Context) error
}

// Set bundles the repositories of one backend.
type Set struct {
	Staff       StaffRepository
	Credentials CredentialRepository
	LoginLogs   LoginLogRepository
}
