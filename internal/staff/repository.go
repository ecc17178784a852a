package staff

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort defines data access for staff management.
type RepositoryPort interface {
	List(ctx context.Context) ([]Member, error)
	ReplaceGrants(ctx context.Context, staffID int64, keys []string) error
}

// Repository is the Postgres implementation of RepositoryPort.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all staff with their permission grants.
func (r *Repository) List(ctx context.Context) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `SELECT s.id, s.email, s.display_name, s.role, s.is_active, s.created_at,
COALESCE(array_agg(p.permission_key ORDER BY p.permission_key) FILTER (WHERE p.permission_key IS NOT NULL), '{}')
FROM staff s LEFT JOIN staff_permissions p ON p.staff_id = s.id
GROUP BY s.id ORDER BY s.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Email, &m.DisplayName, &m.RawRole, &m.IsActive, &m.CreatedAt, &m.Permissions); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ReplaceGrants swaps a staff member's permission grants atomically.
func (r *Repository) ReplaceGrants(ctx context.Context, staffID int64, keys []string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM staff_permissions WHERE staff_id = $1`, staffID); err != nil {
			return err
		}
		for _, key := range keys {
			if _, err := tx.Exec(ctx, `INSERT INTO staff_permissions (staff_id, permission_key) VALUES ($1, $2)`, staffID, key); err != nil {
				return err
			}
		}
		return nil
	})
}
