package topup

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arunika-id/arunika-admin/internal/moderation"
	"github.com/arunika-id/arunika-admin/internal/shared"
)

// RepositoryPort defines data access for top-up requests.
type RepositoryPort interface {
	Get(ctx context.Context, id uuid.UUID) (Request, error)
	List(ctx context.Context, status moderation.Status, page shared.Pagination) ([]Request, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status moderation.Status, note string, actorID int64, at time.Time) (Request, error)
}

// Repository is the Postgres implementation of RepositoryPort.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const requestColumns = `t.id, t.member_id, m.display_name, t.amount, t.method, t.proof_url, t.status, t.note, t.created_at, t.decided_at, t.decided_by`

// Get fetches a single request by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Request, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+requestColumns+`
FROM topup_requests t JOIN members m ON m.id = t.member_id WHERE t.id = $1`, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, shared.ErrNotFound
		}
		return Request{}, err
	}
	return req, nil
}

// List returns requests filtered by status, newest first.
func (r *Repository) List(ctx context.Context, status moderation.Status, page shared.Pagination) ([]Request, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM topup_requests WHERE status = $1`, string(status)).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+requestColumns+`
FROM topup_requests t JOIN members m ON m.id = t.member_id
WHERE t.status = $1 ORDER BY t.created_at DESC LIMIT $2 OFFSET $3`, string(status), page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var reqs []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

// UpdateStatus persists the decided status and returns the updated row.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status moderation.Status, note string, actorID int64, at time.Time) (Request, error) {
	row := r.pool.QueryRow(ctx, `UPDATE topup_requests t
SET status = $2, note = $3, decided_by = $4, decided_at = $5
FROM members m
WHERE t.id = $1 AND m.id = t.member_id
RETURNING `+requestColumns, id, string(status), note, actorID, at)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, shared.ErrNotFound
		}
		return Request{}, err
	}
	return req, nil
}

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	var status string
	if err := row.Scan(&req.ID, &req.MemberID, &req.MemberName, &req.Amount, &req.Method, &req.ProofURL, &status, &req.Note, &req.CreatedAt, &req.DecidedAt, &req.DecidedBy); err != nil {
		return Request{}, err
	}
	req.Status = moderation.Status(status)
	return req, nil
}
