package account

import (
	"context"

	"github.com/baechuer/account-service/internal/domain"
)

type RefreshResult struct {
	Account domain.Account
	Tokens  AuthTokens
}

// RefreshTokens mints a new access/refresh pair from a valid refresh token.
// The new pair carries the role currently stored on the account.
//
// Unless strict rotation is enabled, the presented token is not compared with the
// stored one, so any unexpired refresh token for the account is accepted.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (res RefreshResult, err error) {
	const action = "account.refresh"

	defer func() {
		s.record(action, err, map[string]string{"account_id": res.Account.ID})
	}()

	if refreshToken == "" {
		return RefreshResult{}, domain.ErrTokenMissing()
	}

	claims, err := s.tokens.Validate(domain.TokenRefresh, refreshToken)
	if err != nil {
		return RefreshResult{}, err
	}

	a, err := s.store.FindByID(ctx, claims.AccountID)
	if err != nil {
		return RefreshResult{}, err
	}
	if s.strictRefresh && a.RefreshToken != refreshToken {
		return RefreshResult{}, domain.ErrTokenInvalid()
	}

	toks, err := s.issueSession(a)
	if err != nil {
		return RefreshResult{}, err
	}

	// last write wins between concurrent refreshes
	updated, err := s.store.Update(ctx, a.ID, domain.AccountPatch{RefreshToken: &toks.RefreshToken})
	if err != nil {
		return RefreshResult{}, err
	}
	return RefreshResult{Account: updated, Tokens: toks}, nil
}
