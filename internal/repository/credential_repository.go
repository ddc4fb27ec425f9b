package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-portal/internal/domain"
)

type credentialRepository struct {
	pool *pgxpool.Pool
}

// NewCredentialRepository constructs repository.
func NewCredentialRepository(pool *pgxpool.Pool) CredentialRepository {
	return &credentialRepository{pool: pool}
}

func (r *credentialRepository) Set(ctx context.Context, staffID, passwordHash string, changedAt time.Time) error {
	const query = `
        INSERT INTO credential_overrides (staff_id, password_hash, changed_at)
        VALUES ($1::uuid,$2,$3)
        ON CONFLICT (staff_id) DO UPDATE
        SET password_hash=EXCLUDED.password_hash, changed_at=EXCLUDED.changed_at`
	_, err := r.pool.Exec(ctx, query, staffID, passwordHash, changedAt)
	return mapPgError(err)
}

func (r *credentialRepository) Get(ctx context.Context, staffID string) (*domain.CredentialOverride, error) {
	const query = `
        SELECT staff_id::text, password_hash, changed_at
        FROM credential_overrides WHERE staff_id::text=$1`
	var override domain.CredentialOverride
	if err := r.pool.QueryRow(ctx, query, staffID).Scan(
		&override.StaffID,
		&override.PasswordHash,
		&override.ChangedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &override, nil
}

func (r *credentialRepository) Delete(ctx context.Context, staffID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM credential_overrides WHERE staff_id::text=$1`, staffID)
	return err
}

func (r *credentialRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM credential_overrides`)
	return err
}
