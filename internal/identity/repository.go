package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arunika-id/arunika-admin/internal/shared"
)

// RepositoryPort defines data access for identity resolution.
type RepositoryPort interface {
	FindAccount(ctx context.Context, staffID int64) (Account, error)
	ListGrants(ctx context.Context, staffID int64) ([]string, error)
}

// Account is the raw staff row before normalization.
type Account struct {
	ID          int64
	DisplayName string
	RawRole     string
	IsActive    bool
}

// Repository loads staff accounts and grants from Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindAccount fetches a staff account by id.
func (r *Repository) FindAccount(ctx context.Context, staffID int64) (Account, error) {
	var acc Account
	err := r.pool.QueryRow(ctx, `SELECT id, display_name, role, is_active FROM staff WHERE id=$1`, staffID).
		Scan(&acc.ID, &acc.DisplayName, &acc.RawRole, &acc.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrNotFound
		}
		return Account{}, err
	}
	return acc, nil
}

// ListGrants returns the capability keys granted to a staff account.
func (r *Repository) ListGrants(ctx context.Context, staffID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT permission_key FROM staff_permissions WHERE staff_id=$1 ORDER BY permission_key`, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
