package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// NewPostgresSet returns Postgres-backed repositories sharing pool.
func NewPostgresSet(pool *pgxpool.Pool) Set {
	return Set{
		Staff:       NewStaffRepository(pool),
		Credentials: NewCredentialRepository(pool),
		LoginLogs:   NewLoginLogRepository(pool),
	}
}

func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrConflict
	}
	return err
}
