package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-portal/internal/domain"
)

type loginLogRepository struct {
	pool *pgxpool.Pool
}

// NewLoginLogRepository constructs repository.
func NewLoginLogRepository(pool *pgxpool.Pool) LoginLogRepository {
	return &loginLogRepository{pool: pool}
}

func (r *loginLogRepository) Append(ctx context.Context, entry *domain.LoginLogEntry) error {
	const query = `
        INSERT INTO login_logs (id, staff_id, username, name, role, login_method, submitted_handle, source_address, logged_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.StaffID,
		entry.Username,
		entry.Name,
		entry.Role,
		entry.LoginMethod,
		entry.SubmittedHandle,
		entry.SourceAddress,
		entry.Timestamp,
	)
	return mapPgError(err)
}

func whereClause(filter LoginLogFilter) (string, []any) {
	args := []any{}
	clauses := []string{}
	if filter.StaffID != "" {
		args = append(args, filter.StaffID)
		clauses = append(clauses, fmt.Sprintf("staff_id=$%d", len(args)))
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		clauses = append(clauses, fmt.Sprintf("logged_at>=$%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *loginLogRepository) List(ctx context.Context, filter LoginLogFilter) ([]domain.LoginLogEntry, error) {
	where, args := whereClause(filter)
	query := `
        SELECT id, staff_id, username, name, role, login_method, submitted_handle, source_address, logged_at
        FROM login_logs` + where + ` ORDER BY logged_at DESC, id DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.LoginLogEntry{}
	for rows.Next() {
		var entry domain.LoginLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.StaffID,
			&entry.Username,
			&entry.Name,
			&entry.Role,
			&entry.LoginMethod,
			&entry.SubmittedHandle,
			&entry.SourceAddress,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *loginLogRepository) Count(ctx context.Context, filter LoginLogFilter) (int64, error) {
	where, args := whereClause(filter)
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM login_logs`+where, args...).Scan(&count)
	return count, err
}

func (r *loginLogRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM login_logs`)
	return err
}
