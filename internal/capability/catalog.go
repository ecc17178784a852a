package capability

import (
	"fmt"

	"github.com/arunika-id/arunika-admin/internal/identity"
)

// Entry is a node in the capability catalog: either a leaf pointing at a
// panel view (Target set, no Children) or a group of leaves (Children
// set, no Target). Never both, never neither.
type Entry struct {
	Key           string
	Label         string
	Target        string
	RequiredRoles []identity.Role
	Children      []Entry
}

// IsGroup reports whether the entry groups child capabilities.
func (e Entry) IsGroup() bool {
	return len(e.Children) > 0
}

// Validate checks the leaf-xor-group invariant for every entry. The
// catalog is static configuration, so this runs once at startup.
func Validate(catalog []Entry) error {
	seen := make(map[string]struct{})
	return validateEntries(catalog, seen)
}

func validateEntries(entries []Entry, seen map[string]struct{}) error {
	for _, entry := range entries {
		if entry.Key == "" {
			return fmt.Errorf("capability: entry %q missing key", entry.Label)
		}
		if _, dup := seen[entry.Key]; dup {
			return fmt.Errorf("capability: duplicate key %q", entry.Key)
		}
		seen[entry.Key] = struct{}{}
		hasTarget := entry.Target != ""
		hasChildren := len(entry.Children) > 0
		if hasTarget == hasChildren {
			return fmt.Errorf("capability: entry %q must be a leaf or a group, not both or neither", entry.Key)
		}
		if hasChildren {
			if err := validateEntries(entry.Children, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

// DefaultCatalog returns the panel navigation tree. Keys double as the
// permission grant keys stored per staff account, so menu visibility and
// permission checks can never drift apart.
func DefaultCatalog() []Entry {
	return []Entry{
		{
			Key:    "dashboard",
			Label:  "Dashboard",
			Target: "/dashboard",
		},
		{
			Key:   "konten",
			Label: "Konten",
			Children: []Entry{
				{Key: "daftar-konten", Label: "Daftar Konten", Target: "/contents"},
				{Key: "moderasi-episode", Label: "Moderasi Episode", Target: "/contents/episodes"},
				{Key: "manga-admin", Label: "Manga Admin", Target: "/manga"},
			},
		},
		{
			Key:   "keuangan",
			Label: "Keuangan",
			Children: []Entry{
				{Key: "topup-manual", Label: "Topup Manual", Target: "/topups"},
				{Key: "riwayat-topup", Label: "Riwayat Topup", Target: "/topups/history"},
			},
		},
		{
			Key:    "pengguna",
			Label:  "Pengguna",
			Target: "/staff",
			RequiredRoles: []identity.Role{
				identity.RoleSuperadmin,
			},
		},
		{
			Key:    "pengaturan",
			Label:  "Pengaturan Situs",
			Target: "/settings",
			RequiredRoles: []identity.Role{
				identity.RoleSuperadmin,
			},
		},
	}
}
