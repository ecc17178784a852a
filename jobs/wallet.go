package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arunika-id/arunika-admin/internal/shared"
)

// WalletCreditor executes wallet credit instructions. The moderation
// core only emits side-effect tags; the ledger and its idempotence
// check live here, on the collaborator side.
type WalletCreditor struct {
	pool        *pgxpool.Pool
	idempotency *shared.IdempotencyStore
	logger      *slog.Logger
}

// NewWalletCreditor constructs a WalletCreditor.
func NewWalletCreditor(pool *pgxpool.Pool, idempotency *shared.IdempotencyStore, logger *slog.Logger) *WalletCreditor {
	return &WalletCreditor{pool: pool, idempotency: idempotency, logger: logger}
}

// Handle processes TaskTypeWalletCredit tasks. Every credit claims an
// idempotency key first, so a PAID-after-APPROVED follow-up or a
// requeued task never credits the same top-up twice.
func (c *WalletCreditor) Handle(ctx context.Context, t *asynq.Task) error {
	var payload WalletCreditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	key := "topup:" + payload.TopupID.String() + ":credit"
	if err := c.idempotency.CheckAndInsert(ctx, key, "wallet"); err != nil {
		if errors.Is(err, shared.ErrIdempotencyConflict) {
			if payload.Conditional {
				c.logger.Info("wallet already credited, skipping",
					slog.String("topup_id", payload.TopupID.String()))
				return nil
			}
			c.logger.Warn("duplicate unconditional credit suppressed",
				slog.String("topup_id", payload.TopupID.String()))
			return nil
		}
		return err
	}

	_, err := c.pool.Exec(ctx, `UPDATE wallets SET balance = balance + $2, updated_at = NOW() WHERE member_id = $1`,
		payload.MemberID, payload.Amount)
	if err != nil {
		// Release the key so a retry can claim it again.
		if delErr := c.idempotency.Delete(ctx, key); delErr != nil {
			c.logger.Error("release credit idempotency key", slog.Any("error", delErr))
		}
		return err
	}

	c.logger.Info("wallet credited",
		slog.Int64("member_id", payload.MemberID),
		slog.Int64("amount", payload.Amount),
		slog.String("topup_id", payload.TopupID.String()))
	return nil
}
