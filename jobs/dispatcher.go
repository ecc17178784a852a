package jobs

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/arunika-id/arunika-admin/internal/moderation"
	"github.com/arunika-id/arunika-admin/internal/topup"
)

// Dispatcher enqueues moderation side effects for the worker. It
// implements topup.Dispatcher.
type Dispatcher struct {
	client *asynq.Client
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(redisOpts asynq.RedisClientOpt) *Dispatcher {
	return &Dispatcher{client: asynq.NewClient(redisOpts)}
}

// DispatchWalletCredit enqueues a wallet credit task.
func (d *Dispatcher) DispatchWalletCredit(ctx context.Context, instr topup.CreditInstruction) error {
	task, err := NewWalletCreditTask(WalletCreditPayload{
		TopupID:     instr.TopupID,
		MemberID:    instr.MemberID,
		Amount:      instr.Amount,
		Conditional: instr.Conditional,
	})
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// DispatchNotify enqueues a member notification task.
func (d *Dispatcher) DispatchNotify(ctx context.Context, memberID int64, status moderation.Status, amount int64) error {
	task, err := NewNotifyTask(NotifyPayload{
		MemberID: memberID,
		Kind:     "topup",
		Status:   string(status),
		Amount:   amount,
	})
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases client resources.
func (d *Dispatcher) Close() error {
	return d.client.Close()
}
