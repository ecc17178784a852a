package content

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

// RepositoryPort defines data access for episode moderation.
type RepositoryPort interface {
	Get(ctx context.Context, id uuid.UUID) (Episode, error)
	ListByStatus(ctx context.Context, status moderation.Status) ([]Episode, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status moderation.Status, note string, actorID int64, at time.Time) (Episode, error)
}

// Repository is the Postgres implementation of RepositoryPort.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const episodeColumns = `e.id, e.series_id, s.title, e.episode_number, e.title, e.submitted_by, e.status, e.note, e.created_at, e.decided_at, e.decided_by`

// Get fetches a single episode by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Episode, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+episodeColumns+`
FROM episodes e JOIN series s ON s.id = e.series_id WHERE e.id = $1`, id)
	ep, err := scanEpisode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Episode{}, shared.ErrNotFound
		}
		return Episode{}, err
	}
	return ep, nil
}

// ListByStatus returns episodes in submission order (oldest first) so
// the review queue drains fairly.
func (r *Repository) ListByStatus(ctx context.Context, status moderation.Status) ([]Episode, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+episodeColumns+`
FROM episodes e JOIN series s ON s.id = e.series_id
WHERE e.status = $1 ORDER BY e.created_at ASC`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var eps []Episode
	for rows.Next() {
		ep, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		eps = append(eps, ep)
	}
	return eps, rows.Err()
}

// UpdateStatus persists the decided status and returns the updated row.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status moderation.Status, note string, actorID int64, at time.Time) (Episode, error) {
	row := r.pool.QueryRow(ctx, `UPDATE episodes e
SET status = $2, note = $3, decided_by = $4, decided_at = $5
FROM series s
WHERE e.id = $1 AND s.id = e.series_id
RETURNING `+episodeColumns, id, string(status), note, actorID, at)
	ep, err := scanEpisode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Episode{}, shared.ErrNotFound
		}
		return Episode{}, err
	}
	return ep, nil
}

func scanEpisode(row pgx.Row) (Episode, error) {
	var ep Episode
	var status string
	if err := row.Scan(&ep.ID, &ep.SeriesID, &ep.SeriesTitle, &ep.EpisodeNumber, &ep.Title, &ep.SubmittedBy, &status, &ep.Note, &ep.CreatedAt, &ep.DecidedAt, &ep.DecidedBy); err != nil {
		return Episode{}, err
	}
	ep.Status = moderation.Status(status)
	return ep, nil
}
