package content

import (
	"time"

	"github.com/google/uuid"

	"github.com/arunika-id/arunika-admin/internal/moderation"
)

// Domain is the moderation domain name for episode submissions.
const Domain = "content"

// Episode statuses. APPROVED and REJECTED are terminal.
const (
	StatusPending  moderation.Status = "PENDING"
	StatusApproved moderation.Status = "APPROVED"
	StatusRejected moderation.Status = "REJECTED"
)

var table = moderation.NewTable(Domain, map[moderation.Status][]moderation.Edge{
	StatusPending: {
		{To: StatusApproved},
		{To: StatusRejected},
	},
})

// Table returns the content transition table.
func Table() moderation.Table {
	return table
}

// Episode is a submitted episode awaiting or past moderation. SeriesID
// references the parent series the episode belongs to.
type Episode struct {
	ID            uuid.UUID
	SeriesID      uuid.UUID
	SeriesTitle   string
	EpisodeNumber int
	Title         string
	SubmittedBy   int64
	Status        moderation.Status
	Note          string
	CreatedAt     time.Time
	DecidedAt     *time.Time
	DecidedBy     *int64
}

// SeriesGroup aggregates episodes of one series for display.
type SeriesGroup struct {
	SeriesID    uuid.UUID
	SeriesTitle string
	Episodes    []Episode
}
