package staff

import (
	"time"

	"github.com/arunika-id/arunika-admin/internal/identity"
)

// Member is a staff account as shown in the management listing.
type Member struct {
	ID          int64
	Email       string
	DisplayName string
	RawRole     string
	Role        identity.Role
	IsActive    bool
	Permissions []string
	CreatedAt   time.Time
}
