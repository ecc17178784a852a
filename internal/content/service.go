package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/arunika-id/arunika-admin/internal/moderation"
	"github.com/arunika-id/arunika-admin/internal/shared"
)

// Service drives episode moderation.
type Service struct {
	repo      RepositoryPort
	approvals shared.ApprovalSink
	audit     shared.AuditRecorder
	logger    *slog.Logger
	flight    singleflight.Group
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, approvals shared.ApprovalSink, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, approvals: approvals, audit: audit, logger: logger}
}

// ReviewQueue returns pending episodes grouped by parent series.
func (s *Service) ReviewQueue(ctx context.Context) ([]SeriesGroup, error) {
	eps, err := s.repo.ListByStatus(ctx, StatusPending)
	if err != nil {
		return nil, err
	}
	return GroupBySeries(eps), nil
}

// Decide validates and applies a moderation decision on an episode.
// Calls for the same episode id collapse into one flight.
func (s *Service) Decide(ctx context.Context, id uuid.UUID, requested moderation.Status, note string, actorID int64) (Episode, error) {
	v, err, _ := s.flight.Do(id.String(), func() (any, error) {
		return s.decide(ctx, id, requested, note, actorID)
	})
	if err != nil {
		return Episode{}, err
	}
	return v.(Episode), nil
}

func (s *Service) decide(ctx context.Context, id uuid.UUID, requested moderation.Status, note string, actorID int64) (Episode, error) {
	ep, err := s.repo.Get(ctx, id)
	if err != nil {
		return Episode{}, err
	}

	res, err := Table().Transition(ep.Status, requested)
	if err != nil {
		return Episode{}, fmt.Errorf("episode %s: %w", id, err)
	}
	if res.NextStatus == ep.Status {
		return ep, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, id, res.NextStatus, note, actorID, time.Now())
	if err != nil {
		return Episode{}, err
	}

	action := shared.ApprovalApprove
	if res.NextStatus == StatusRejected {
		action = shared.ApprovalReject
	}
	if err := s.approvals.Record(ctx, shared.ApprovalLog{
		Module:  Domain,
		RefID:   id,
		ActorID: actorID,
		Action:  action,
		Note:    note,
	}); err != nil {
		s.logger.Warn("record episode approval", slog.Any("error", err))
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "content." + string(res.NextStatus),
		Entity:   "episode",
		EntityID: id.String(),
		Meta:     map[string]any{"from": string(ep.Status), "to": string(res.NextStatus)},
	}); err != nil {
		s.logger.Warn("record episode audit", slog.Any("error", err))
	}

	return updated, nil
}
