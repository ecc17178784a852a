package identity

import (
	"context"

	"github.com/arunika-id/arunika-admin/internal/shared"
)

// Service resolves canonical identities for authenticated staff.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Resolve loads the staff account and grants, then normalizes them into
// the canonical identity used by every guard and resolver call.
func (s *Service) Resolve(ctx context.Context, staffID int64) (Identity, error) {
	acc, err := s.repo.FindAccount(ctx, staffID)
	if err != nil {
		return Identity{}, err
	}
	if !acc.IsActive {
		return Identity{}, shared.ErrNotFound
	}
	grants, err := s.repo.ListGrants(ctx, acc.ID)
	if err != nil {
		return Identity{}, err
	}
	return New(acc.ID, acc.DisplayName, acc.RawRole, grants), nil
}
