package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-portal/internal/domain"
)

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id::text, username, alternate_handle, email, name, role, department, status, password_hash, created_at, updated_at`

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        INSERT INTO staff_members (username, alternate_handle, email, name, role, department, status, password_hash)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id::text, created_at, updated_at`

	if staff.Status == "" {
		staff.Status = domain.StaffStatusActive
	}
	err := r.pool.QueryRow(ctx, query,
		staff.Username,
		staff.AlternateHandle,
		staff.Email,
		staff.Name,
		staff.Role,
		staff.Department,
		staff.Status,
		staff.PasswordHash,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
	return mapPgError(err)
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	return r.getOne(ctx, `SELECT `+staffColumns+` FROM staff_members WHERE id::text=$1`, id)
}

func (r *staffRepository) GetByUsername(ctx context.Context, username string) (*domain.StaffMember, error) {
	return r.getOne(ctx, `SELECT `+staffColumns+` FROM staff_members WHERE LOWER(username)=LOWER($1)`, username)
}

func (r *staffRepository) GetByAlternateHandle(ctx context.Context, handle string) (*domain.StaffMember, error) {
	if handle == "" {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+staffColumns+` FROM staff_members
        WHERE LOWER(alternate_handle)=LOWER($1)
        ORDER BY created_at ASC LIMIT 1`, handle)
}

func (r *staffRepository) getOne(ctx context.Context, query string, arg string) (*domain.StaffMember, error) {
	var staff domain.StaffMember
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&staff.ID,
		&staff.Username,
		&staff.AlternateHandle,
		&staff.Email,
		&staff.Name,
		&staff.Role,
		&staff.Department,
		&staff.Status,
		&staff.PasswordHash,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &staff, nil
}
