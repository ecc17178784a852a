package guard_test

import (
	"strings"
	"testing"

	"github.com/arunika-id/arunika-admin/internal/guard"
	"github.com/arunika-id/arunika-admin/internal/identity"
	_ "github.com/arunika-id/arunika-admin/testing"
)

func TestAuthorizeLoadingWithoutIdentity(t *testing.T) {
	verdict := guard.Authorize(nil, []identity.Role{identity.RoleKeuangan})
	if verdict.Decision != guard.Loading {
		t.Fatalf("nil identity must yield Loading, got %s", verdict.Decision)
	}
	if verdict.Message() != "" {
		t.Fatalf("loading verdict must carry no denial message")
	}
}

func TestAuthorizeAllow(t *testing.T) {
	ident := identity.New(1, "Rani", "keuangan", nil)
	verdict := guard.Authorize(&ident, []identity.Role{identity.RoleKeuangan, identity.RoleSuperadmin})
	if verdict.Decision != guard.Allow {
		t.Fatalf("expected Allow, got %s", verdict.Decision)
	}
}

func TestAuthorizeDeny(t *testing.T) {
	ident := identity.New(2, "Upi", "uploader", nil)
	verdict := guard.Authorize(&ident, []identity.Role{identity.RoleKeuangan, identity.RoleSuperadmin})
	if verdict.Decision != guard.Deny {
		t.Fatalf("expected Deny, got %s", verdict.Decision)
	}
	msg := verdict.Message()
	if !strings.Contains(msg, "Akses ditolak") {
		t.Fatalf("expected restricted-access notice, got %q", msg)
	}
	if !strings.Contains(msg, "keuangan") || !strings.Contains(msg, "superadmin") {
		t.Fatalf("denial must name the required roles, got %q", msg)
	}
}

func TestAuthorizeDeterministic(t *testing.T) {
	ident := identity.New(3, "Dwi", "uploader", nil)
	required := []identity.Role{identity.RoleUploader}
	for i := 0; i < 5; i++ {
		if verdict := guard.Authorize(&ident, required); verdict.Decision != guard.Allow {
			t.Fatalf("run %d: expected Allow, got %s", i, verdict.Decision)
		}
	}
}

func TestDecisionString(t *testing.T) {
	if guard.Loading.String() != "LOADING" || guard.Allow.String() != "ALLOW" || guard.Deny.String() != "DENY" {
		t.Fatalf("unexpected decision names: %s %s %s", guard.Loading, guard.Allow, guard.Deny)
	}
}
