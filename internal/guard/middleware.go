package guard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/arunika-id/arunika-admin/internal/identity"
	"github.com/arunika-id/arunika-admin/internal/platform/httpx"
	"github.com/arunika-id/arunika-admin/internal/shared"
)

// IdentityResolver loads the canonical identity for a staff account.
type IdentityResolver interface {
	Resolve(ctx context.Context, staffID int64) (identity.Identity, error)
}

// Middleware wires the route guard into chi handlers.
type Middleware struct {
	Resolver IdentityResolver
	Logger   *slog.Logger
}

// RequireRoles protects a route with the given role set. An unresolved
// identity (no session, or no staff bound to it) maps to 401 rather than
// 403: per the Loading rule, the viewer must not see denial chrome
// before the real identity is known. A resolved identity outside the
// role set gets the restricted-access notice.
func (m Middleware) RequireRoles(roles ...identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, verdict := m.authorize(r, roles)
			switch verdict.Decision {
			case Allow:
				next.ServeHTTP(w, r.WithContext(identity.ContextWith(r.Context(), *ident)))
			case Deny:
				httpx.Problem(w, http.StatusForbidden, "Forbidden", verdict.Message())
			default:
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "identitas belum diketahui, silakan masuk")
			}
		})
	}
}

func (m Middleware) authorize(r *http.Request, roles []identity.Role) (*identity.Identity, Verdict) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.Staff() == 0 {
		return nil, Authorize(nil, roles)
	}
	ident, err := m.Resolver.Resolve(r.Context(), sess.Staff())
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) && m.Logger != nil {
			m.Logger.Error("resolve identity", slog.Int64("staff_id", sess.Staff()), slog.Any("error", err))
		}
		return nil, Authorize(nil, roles)
	}
	return &ident, Authorize(&ident, roles)
}
