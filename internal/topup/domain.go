package topup

import (
	"time"

	"github.com/google/uuid"

	"github.com/arunika-id/arunika-admin/internal/moderation"
)

// Domain is the moderation domain name for manual top-ups.
const Domain = "topup"

// Top-up statuses. REJECTED, PAID and CANCELED are terminal.
const (
	StatusPending  moderation.Status = "PENDING"
	StatusApproved moderation.Status = "APPROVED"
	StatusRejected moderation.Status = "REJECTED"
	StatusPaid     moderation.Status = "PAID"
	StatusCanceled moderation.Status = "CANCELED"
)

// Side-effect tags emitted on top-up transitions. The panel never touches
// the wallet ledger itself; these instruct the wallet collaborator.
const (
	// EffectCreditWallet credits the member wallet after approval.
	EffectCreditWallet moderation.SideEffect = "CREDIT_WALLET"
	// EffectCreditWalletIfNotAlready credits only when no prior credit
	// exists for the same top-up. Marking PAID after APPROVED must not
	// double-credit; the collaborator checks, not this package.
	EffectCreditWalletIfNotAlready moderation.SideEffect = "CREDIT_WALLET_IF_NOT_ALREADY"
)

var table = moderation.NewTable(Domain, map[moderation.Status][]moderation.Edge{
	StatusPending: {
		{To: StatusApproved, SideEffects: []moderation.SideEffect{EffectCreditWallet}},
		{To: StatusRejected},
		{To: StatusCanceled},
	},
	StatusApproved: {
		{To: StatusPaid, SideEffects: []moderation.SideEffect{EffectCreditWalletIfNotAlready}},
		{To: StatusCanceled},
	},
})

// Table returns the top-up transition table.
func Table() moderation.Table {
	return table
}

// Request is a manual top-up awaiting or past moderation.
type Request struct {
	ID         uuid.UUID
	MemberID   int64
	MemberName string
	Amount     int64
	Method     string
	ProofURL   string
	Status     moderation.Status
	Note       string
	CreatedAt  time.Time
	DecidedAt  *time.Time
	DecidedBy  *int64
}
