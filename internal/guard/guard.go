package guard

import (
	"fmt"
	"strings"

	"github.com/arunika-id/arunika-admin/internal/identity"
)

// Decision is the outcome of a route authorization check.
type Decision int

const (
	// Loading means the identity is not resolved yet. Callers must
	// suppress both allowed and denied content until it is, so a viewer
	// never flashes denial chrome before the real identity is known.
	Loading Decision = iota
	// Allow grants access to the protected view.
	Allow
	// Deny is a normal outcome rendered as a restricted-access notice,
	// not an error.
	Deny
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "ALLOW"
	case Deny:
		return "DENY"
	default:
		return "LOADING"
	}
}

// Verdict pairs a decision with the role set that was required, so a
// denial can name the roles in the user-facing message.
type Verdict struct {
	Decision      Decision
	RequiredRoles []identity.Role
}

// Message returns the Indonesian restricted-access notice for denials.
func (v Verdict) Message() string {
	if v.Decision != Deny {
		return ""
	}
	names := make([]string, len(v.RequiredRoles))
	for i, role := range v.RequiredRoles {
		names[i] = string(role)
	}
	return fmt.Sprintf("Akses ditolak. Halaman ini memerlukan peran: %s", strings.Join(names, ", "))
}

// Authorize decides access for a protected view. A nil identity means the
// session has not been resolved yet and yields Loading. Otherwise access
// is allowed iff the identity's role is in the required set. The check is
// a pure function of its arguments: identical inputs always yield the
// identical verdict.
func Authorize(ident *identity.Identity, required []identity.Role) Verdict {
	if ident == nil {
		return Verdict{Decision: Loading, RequiredRoles: required}
	}
	for _, role := range required {
		if ident.Role == role {
			return Verdict{Decision: Allow, RequiredRoles: required}
		}
	}
	return Verdict{Decision: Deny, RequiredRoles: required}
}
