package capability

import "github.com/arunika-id/arunika-admin/internal/identity"

// ResolveVisible filters the catalog down to the entries the identity may
// see, preserving catalog order throughout. Superadmin receives the full
// catalog unmodified; everyone else keeps only the leaves whose key is
// granted, and groups survive only while at least one child survives.
func ResolveVisible(ident identity.Identity, catalog []Entry) []Entry {
	if ident.IsSuperadmin() {
		return catalog
	}
	visible := make([]Entry, 0, len(catalog))
	for _, entry := range catalog {
		if entry.IsGroup() {
			children := make([]Entry, 0, len(entry.Children))
			for _, child := range entry.Children {
				if ident.Permissions.Has(child.Key) {
					children = append(children, child)
				}
			}
			if len(children) == 0 {
				continue
			}
			filtered := entry
			filtered.Children = children
			visible = append(visible, filtered)
			continue
		}
		if ident.Permissions.Has(entry.Key) {
			visible = append(visible, entry)
		}
	}
	return visible
}

// Keys flattens the catalog into the set of all grantable capability
// keys. Used to validate staff permission grants against the catalog.
func Keys(catalog []Entry) map[string]struct{} {
	keys := make(map[string]struct{})
	collectKeys(catalog, keys)
	return keys
}

func collectKeys(entries []Entry, into map[string]struct{}) {
	for _, entry := range entries {
		into[entry.Key] = struct{}{}
		collectKeys(entry.Children, into)
	}
}
