package topup

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

// CreditInstruction tells the wallet collaborator to credit a member.
type CreditInstruction struct {
	TopupID     uuid.UUID
	MemberID    int64
	Amount      int64
	Conditional bool
}

// Dispatcher hands side effects to the background queue.
type Dispatcher interface {
	DispatchWalletCredit(ctx context.Context, instr CreditInstruction) error
	DispatchNotify(ctx context.Context, memberID int64, status moderation.Status, amount int64) error
}

// Service drives manual top-up moderation.
type Service struct {
	repo       RepositoryPort
	approvals  shared.ApprovalSink
	audit      shared.AuditRecorder
	dispatcher Dispatcher
	logger     *slog.Logger
	flight     singleflight.Group
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, approvals shared.ApprovalSink, audit shared.AuditRecorder, dispatcher Dispatcher, logger *slog.Logger) *Service {
	return &Service{repo: repo, approvals: approvals, audit: audit, dispatcher: dispatcher, logger: logger}
}

// Get returns a single top-up request.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Request, error) {
	return s.repo.Get(ctx, id)
}

// List returns requests in the given status, newest first.
func (s *Service) List(ctx context.Context, status moderation.Status, page shared.Pagination) ([]Request, int, error) {
	return s.repo.List(ctx, status, page)
}

// Decide validates and applies a moderation decision. Concurrent calls
// for the same request id collapse into one flight; the machine's
// idempotence rule keeps a stray duplicate safe anyway. The computed
// status is only durable once the repository confirms the update.
func (s *Service) Decide(ctx context.Context, id uuid.UUID, requested moderation.Status, note string, actorID int64) (Request, error) {
	v, err, _ := s.flight.Do(id.String(), func() (any, error) {
		return s.decide(ctx, id, requested, note, actorID)
	})
	if err != nil {
		return Request{}, err
	}
	return v.(Request), nil
}

func (s *Service) decide(ctx context.Context, id uuid.UUID, requested moderation.Status, note string, actorID int64) (Request, error) {
	req, err := s.repo.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}

	res, err := Table().Transition(req.Status, requested)
	if err != nil {
		return Request{}, fmt.Errorf("topup %s: %w", id, err)
	}
	if res.NextStatus == req.Status {
		// Re-submitted decision, nothing to apply.
		return req, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, id, res.NextStatus, note, actorID, time.Now())
	if err != nil {
		return Request{}, err
	}

	if err := s.approvals.Record(ctx, shared.ApprovalLog{
		Module:  Domain,
		RefID:   id,
		ActorID: actorID,
		Action:  approvalAction(res.NextStatus),
		Note:    note,
	}); err != nil {
		s.logger.Warn("record topup approval", slog.Any("error", err))
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "topup." + string(res.NextStatus),
		Entity:   "topup_request",
		EntityID: id.String(),
		Meta:     map[string]any{"from": string(req.Status), "to": string(res.NextStatus)},
	}); err != nil {
		s.logger.Warn("record topup audit", slog.Any("error", err))
	}

	for _, effect := range res.SideEffects {
		switch effect {
		case EffectCreditWallet, EffectCreditWalletIfNotAlready:
			instr := CreditInstruction{
				TopupID:     updated.ID,
				MemberID:    updated.MemberID,
				Amount:      updated.Amount,
				Conditional: effect == EffectCreditWalletIfNotAlready,
			}
			if err := s.dispatcher.DispatchWalletCredit(ctx, instr); err != nil {
				return Request{}, fmt.Errorf("dispatch wallet credit: %w", err)
			}
		}
	}

	if err := s.dispatcher.DispatchNotify(ctx, updated.MemberID, updated.Status, updated.Amount); err != nil {
		s.logger.Warn("dispatch topup notify", slog.Any("error", err))
	}

	return updated, nil
}

func approvalAction(status moderation.Status) shared.ApprovalAction {
	switch status {
	case StatusApproved:
		return shared.ApprovalApprove
	case StatusRejected:
		return shared.ApprovalReject
	case StatusCanceled:
		return shared.ApprovalCancel
	case StatusPaid:
		return shared.ApprovalPay
	default:
		return shared.ApprovalAction(status)
	}
}
