package capability_test

import (
	"reflect"
	"testing"

	"github.com/arunika-id/arunika-admin/internal/capability"
	"github.com/arunika-id/arunika-admin/internal/identity"
	_ "github.com/arunika-id/arunika-admin/testing"
)

func TestResolveVisibleSuperadmin(t *testing.T) {
	catalog := capability.DefaultCatalog()
	admin := identity.New(1, "Admin", "superadmin", nil)

	visible := capability.ResolveVisible(admin, catalog)
	if !reflect.DeepEqual(visible, catalog) {
		t.Fatalf("superadmin must see the full catalog unmodified")
	}
}

func TestResolveVisibleEmptyPermissions(t *testing.T) {
	guest := identity.New(2, "Tamu", "", nil)
	visible := capability.ResolveVisible(guest, capability.DefaultCatalog())
	if len(visible) != 0 {
		t.Fatalf("no grants must yield an empty menu, got %d entries", len(visible))
	}
}

func TestResolveVisibleFiltersGroupChildren(t *testing.T) {
	ident := identity.New(3, "Upi", "uploader", []string{"dashboard", "daftar-konten", "manga-admin"})
	visible := capability.ResolveVisible(ident, capability.DefaultCatalog())

	if len(visible) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(visible))
	}
	if visible[0].Key != "dashboard" {
		t.Fatalf("expected dashboard first, got %q", visible[0].Key)
	}
	konten := visible[1]
	if konten.Key != "konten" {
		t.Fatalf("expected konten group, got %q", konten.Key)
	}
	childKeys := make([]string, 0, len(konten.Children))
	for _, child := range konten.Children {
		childKeys = append(childKeys, child.Key)
	}
	want := []string{"daftar-konten", "manga-admin"}
	if !reflect.DeepEqual(childKeys, want) {
		t.Fatalf("children = %v, want %v (catalog order, granted only)", childKeys, want)
	}
}

func TestResolveVisibleDropsEmptyGroups(t *testing.T) {
	ident := identity.New(4, "Rani", "keuangan", []string{"topup-manual"})
	visible := capability.ResolveVisible(ident, capability.DefaultCatalog())

	if len(visible) != 1 {
		t.Fatalf("expected only keuangan group, got %d entries", len(visible))
	}
	if visible[0].Key != "keuangan" {
		t.Fatalf("expected keuangan group, got %q", visible[0].Key)
	}
	if len(visible[0].Children) != 1 || visible[0].Children[0].Key != "topup-manual" {
		t.Fatalf("expected single topup-manual child, got %+v", visible[0].Children)
	}
}

func TestResolveVisibleStable(t *testing.T) {
	ident := identity.New(5, "Dwi", "uploader", []string{"manga-admin", "dashboard", "moderasi-episode"})
	first := capability.ResolveVisible(ident, capability.DefaultCatalog())
	second := capability.ResolveVisible(ident, capability.DefaultCatalog())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same identity and catalog must resolve identically")
	}
}
