package capability_test

import (
	"testing"

	"github.com/arunika-id/arunika-admin/internal/capability"
	_ "github.com/arunika-id/arunika-admin/testing"
)

func TestDefaultCatalogValid(t *testing.T) {
	if err := capability.Validate(capability.DefaultCatalog()); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
}

func TestValidateRejectsLeafWithChildren(t *testing.T) {
	catalog := []capability.Entry{
		{
			Key:      "konten",
			Label:    "Konten",
			Target:   "/contents",
			Children: []capability.Entry{{Key: "daftar-konten", Label: "Daftar", Target: "/contents"}},
		},
	}
	if err := capability.Validate(catalog); err == nil {
		t.Fatalf("expected error for entry with both target and children")
	}
}

func TestValidateRejectsEmptyEntry(t *testing.T) {
	catalog := []capability.Entry{{Key: "kosong", Label: "Kosong"}}
	if err := capability.Validate(catalog); err == nil {
		t.Fatalf("expected error for entry with neither target nor children")
	}
}

func TestValidateRejectsDuplicateKeys(t *testing.T) {
	catalog := []capability.Entry{
		{Key: "dashboard", Label: "Dashboard", Target: "/dashboard"},
		{
			Key:   "konten",
			Label: "Konten",
			Children: []capability.Entry{
				{Key: "dashboard", Label: "Duplikat", Target: "/x"},
			},
		},
	}
	if err := capability.Validate(catalog); err == nil {
		t.Fatalf("expected error for duplicate key")
	}
}

func TestKeysFlattensGroups(t *testing.T) {
	keys := capability.Keys(capability.DefaultCatalog())
	for _, want := range []string{"dashboard", "konten", "daftar-konten", "moderasi-episode", "manga-admin", "keuangan", "topup-manual", "riwayat-topup", "pengguna", "pengaturan"} {
		if _, ok := keys[want]; !ok {
			t.Errorf("expected key %q in flattened catalog", want)
		}
	}
}
