package guard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arunika-id/arunika-admin/internal/guard"
	"github.com/arunika-id/arunika-admin/internal/identity"
	"github.com/arunika-id/arunika-admin/internal/shared"
	_ "github.com/arunika-id/arunika-admin/testing"
)

type stubResolver struct {
	ident identity.Identity
	err   error
}

func (s stubResolver) Resolve(ctx context.Context, staffID int64) (identity.Identity, error) {
	if s.err != nil {
		return identity.Identity{}, s.err
	}
	return s.ident, nil
}

func protect(m guard.Middleware, roles ...identity.Role) http.Handler {
	return m.RequireRoles(roles...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := identity.FromContext(r.Context())
		if ident == nil {
			http.Error(w, "identity missing", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("hello " + ident.DisplayName))
	}))
}

func requestWithStaff(staffID int64) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/topups", nil)
	sess := &shared.Session{}
	if staffID != 0 {
		sess.SetStaff(staffID)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func TestRequireRolesUnauthenticated(t *testing.T) {
	m := guard.Middleware{Resolver: stubResolver{}}
	handler := protect(m, identity.RoleKeuangan)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithStaff(0))

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("unresolved identity must map to 401, got %d", res.Code)
	}
}

func TestRequireRolesNoSession(t *testing.T) {
	m := guard.Middleware{Resolver: stubResolver{}}
	handler := protect(m, identity.RoleKeuangan)

	req := httptest.NewRequest(http.MethodGet, "/topups", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("missing session must map to 401, got %d", res.Code)
	}
}

func TestRequireRolesAllow(t *testing.T) {
	ident := identity.New(7, "Rani", "KEUANGAN_STAFF", []string{"topup-manual"})
	m := guard.Middleware{Resolver: stubResolver{ident: ident}}
	handler := protect(m, identity.RoleKeuangan, identity.RoleSuperadmin)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithStaff(7))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Body.String(), "Rani") {
		t.Fatalf("resolved identity must reach the handler context")
	}
}

func TestRequireRolesDeny(t *testing.T) {
	ident := identity.New(8, "Upi", "uploader", nil)
	m := guard.Middleware{Resolver: stubResolver{ident: ident}}
	handler := protect(m, identity.RoleKeuangan, identity.RoleSuperadmin)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithStaff(8))

	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Akses ditolak") {
		t.Fatalf("expected Indonesian denial notice, got %s", res.Body.String())
	}
}

func TestRequireRolesResolverFailure(t *testing.T) {
	m := guard.Middleware{Resolver: stubResolver{err: shared.ErrNotFound}}
	handler := protect(m, identity.RoleKeuangan)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithStaff(9))

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("resolve failure must stay unauthorized, got %d", res.Code)
	}
}
