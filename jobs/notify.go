package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiah = message.NewPrinter(language.Indonesian)

// Notifier delivers member notifications. Delivery transport is a
// placeholder for the push gateway; the panel only needs the hand-off.
type Notifier struct {
	logger *slog.Logger
}

// NewNotifier constructs a Notifier.
func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Handle processes TaskTypeNotify tasks.
func (n *Notifier) Handle(ctx context.Context, t *asynq.Task) error {
	var payload NotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	amount := rupiah.Sprintf("Rp%d", payload.Amount)
	n.logger.Info("notify member",
		slog.Int64("member_id", payload.MemberID),
		slog.String("kind", payload.Kind),
		slog.String("status", payload.Status),
		slog.String("amount", amount))
	return nil
}
