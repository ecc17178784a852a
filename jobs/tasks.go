package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeWalletCredit is the task type crediting member wallets
	// after a top-up decision.
	TaskTypeWalletCredit = "wallet:credit"
	// TaskTypeNotify is the task type for member notifications.
	TaskTypeNotify = "notify:send"
)

// WalletCreditPayload describes a wallet credit instruction.
type WalletCreditPayload struct {
	TopupID  uuid.UUID `json:"topup_id"`
	MemberID int64     `json:"member_id"`
	Amount   int64     `json:"amount"`
	// Conditional marks CREDIT_WALLET_IF_NOT_ALREADY: the handler must
	// skip crediting when the top-up was already credited.
	Conditional bool `json:"conditional"`
}

// NewWalletCreditTask constructs an Asynq task.
func NewWalletCreditTask(payload WalletCreditPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWalletCredit, data), nil
}

// NotifyPayload describes a member notification.
type NotifyPayload struct {
	MemberID int64  `json:"member_id"`
	Kind     string `json:"kind"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
}

// NewNotifyTask constructs an Asynq task.
func NewNotifyTask(payload NotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotify, data), nil
}
