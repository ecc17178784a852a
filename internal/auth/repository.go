package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arunika-id/arunika-admin/internal/shared"
)

// Repository defines persistence needed by the auth service.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*StaffUser, error)
	CreateSession(ctx context.Context, id string, staffID int64, expiresAt time.Time, ip, ua string) error
	DeleteSession(ctx context.Context, id string) error
}

// PGRepository implements Repository over Postgres.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PGRepository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches a staff account by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*StaffUser, error) {
	var user StaffUser
	err := r.pool.QueryRow(ctx, `SELECT id, email, display_name, password_hash, is_active, created_at, updated_at
FROM staff WHERE lower(email) = lower($1)`, email).
		Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateSession persists session metadata for revocation listings.
func (r *PGRepository) CreateSession(ctx context.Context, id string, staffID int64, expiresAt time.Time, ip, ua string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO staff_sessions (id, staff_id, expires_at, ip, user_agent)
VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`, id, staffID, expiresAt, ip, ua)
	return err
}

// DeleteSession removes a session record.
func (r *PGRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM staff_sessions WHERE id = $1`, id)
	return err
}
