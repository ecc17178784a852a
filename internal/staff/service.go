package staff

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/arunika-id/arunika-admin/internal/capability"
	"github.com/arunika-id/arunika-admin/internal/identity"
	"github.com/arunika-id/arunika-admin/internal/shared"
)

// Service handles staff management business logic.
type Service struct {
	repo    RepositoryPort
	catalog []capability.Entry
	audit   shared.AuditRecorder
	logger  *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, catalog []capability.Entry, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, audit: audit, logger: logger}
}

// List returns all staff with normalized roles.
func (s *Service) List(ctx context.Context) ([]Member, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].Role = identity.Normalize(members[i].RawRole)
	}
	return members, nil
}

// ReplaceGrants validates the requested keys against the capability
// catalog and swaps the staff member's grants. Keys the catalog does not
// declare are rejected so grants and menu keys cannot drift apart.
func (s *Service) ReplaceGrants(ctx context.Context, staffID, actorID int64, keys []string) error {
	known := capability.Keys(s.catalog)
	for _, key := range keys {
		if _, ok := known[key]; !ok {
			return fmt.Errorf("staff: %w: kapabilitas %q tidak dikenal", ErrUnknownCapability, key)
		}
	}
	deduped := dedupe(keys)
	if err := s.repo.ReplaceGrants(ctx, staffID, deduped); err != nil {
		return err
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "staff.grants",
		Entity:   "staff",
		EntityID: fmt.Sprintf("%d", staffID),
		Meta:     map[string]any{"permissions": deduped},
	}); err != nil {
		s.logger.Warn("record staff audit", slog.Any("error", err))
	}
	return nil
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
