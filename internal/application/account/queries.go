package account

import (
	"context"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
)

func (s *Service) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Account{}, domain.ErrMissingField("id")
	}
	return s.store.FindByID(ctx, id)
}

// ListUsers returns every USER account without password hashes.
func (s *Service) ListUsers(ctx context.Context) ([]domain.Account, error) {
	return s.store.ListByRole(ctx, domain.RoleUser)
}

func (s *Service) FilterUsers(ctx context.Context, f domain.AccountFilter) ([]domain.Account, error) {
	return s.store.Query(ctx, f)
}

// Ready reports whether the account store is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
