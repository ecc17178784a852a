package identity

import (
	"sort"
	"strings"
)

// Role is the canonical staff role. Raw role strings from the account
// store are free text; Normalize folds them onto this closed set.
type Role string

const (
	// RoleSuperadmin bypasses all permission filtering.
	RoleSuperadmin Role = "superadmin"
	// RoleUploader manages the content catalog.
	RoleUploader Role = "uploader"
	// RoleKeuangan handles manual top-up review.
	RoleKeuangan Role = "keuangan"
	// RoleGuest is the fallback for accounts without a role.
	RoleGuest Role = "guest"
)

// Normalize maps a raw role string onto the canonical role set using
// case-insensitive substring matching in priority order. Unrecognized
// values are preserved lowercased rather than rejected, so downstream
// checks treat them as "no matching capabilities" instead of failing.
func Normalize(raw string) Role {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return RoleGuest
	}
	switch {
	case strings.Contains(lowered, string(RoleSuperadmin)):
		return RoleSuperadmin
	case strings.Contains(lowered, string(RoleUploader)):
		return RoleUploader
	case strings.Contains(lowered, string(RoleKeuangan)), strings.Contains(lowered, "finance"):
		return RoleKeuangan
	default:
		return Role(lowered)
	}
}

// PermissionSet holds granted capability keys.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from raw grant keys. A nil slice yields
// an empty set, never a nil map: absent grants mean "nothing", not
// "everything".
func NewPermissionSet(keys []string) PermissionSet {
	set := make(PermissionSet, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}

// Has reports whether the capability key is granted.
func (p PermissionSet) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Keys returns the granted keys sorted for stable output.
func (p PermissionSet) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Identity is the canonical per-session staff identity. It is built once
// after login and passed by value into every authorization decision.
type Identity struct {
	ID          int64
	DisplayName string
	Role        Role
	Permissions PermissionSet
}

// New constructs an Identity from a raw account payload. Role defaults
// to guest and permissions to the empty set when absent.
func New(id int64, displayName, rawRole string, permissions []string) Identity {
	return Identity{
		ID:          id,
		DisplayName: displayName,
		Role:        Normalize(rawRole),
		Permissions: NewPermissionSet(permissions),
	}
}

// IsSuperadmin reports whether the identity holds the superadmin role.
func (i Identity) IsSuperadmin() bool {
	return i.Role == RoleSuperadmin
}
