package account

import (
	"context"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
)

// Logout clears the stored refresh token and marks the account inactive.
// Logging out an already logged-out account succeeds.
func (s *Service) Logout(ctx context.Context, accountID string) (a domain.Account, err error) {
	const action = "account.logout"

	accountID = strings.TrimSpace(accountID)
	defer func() {
		s.record(action, err, map[string]string{"account_id": accountID})
	}()

	if accountID == "" {
		return domain.Account{}, domain.ErrMissingField("id")
	}

	return s.store.Update(ctx, accountID, domain.AccountPatch{
		RefreshToken: domain.Ptr(""),
		IsActive:     domain.Ptr(false),
	})
}
