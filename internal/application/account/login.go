package account

import (
	"context"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
)

type LoginResult struct {
	Account domain.Account
	Tokens  AuthTokens
}

// Login checks, in order: account exists, password matches, email verified
// (when required), account not blocked.
func (s *Service) Login(ctx context.Context, email, password string) (res LoginResult, err error) {
	const action = "account.login"

	email = strings.TrimSpace(email)
	defer func() {
		s.record(action, err, map[string]string{
			"account_id": res.Account.ID,
			"email":      email,
		})
	}()

	if email == "" {
		return LoginResult{}, domain.ErrMissingField("email")
	}
	if password == "" {
		return LoginResult{}, domain.ErrMissingField("password")
	}

	a, err := s.store.Authenticate(ctx, email, password)
	if err != nil {
		return LoginResult{}, err
	}
	if s.requireVerification && !a.IsVerified {
		return LoginResult{}, domain.ErrEmailNotVerified()
	}
	if a.IsBlocked {
		return LoginResult{}, domain.ErrAccountBlocked()
	}

	toks, err := s.issueSession(a)
	if err != nil {
		return LoginResult{}, err
	}

	updated, err := s.store.Update(ctx, a.ID, domain.AccountPatch{
		RefreshToken: &toks.RefreshToken,
		IsActive:     domain.Ptr(true),
	})
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Account: updated, Tokens: toks}, nil
}
