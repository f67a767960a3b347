package account

import (
	"context"
	"time"

	"github.com/baechuer/account-service/internal/domain"
)

// VerifyAccount consumes the pending verify token, marks the account verified and
// replaces its password with the one supplied. The link alone gates identity here.
func (s *Service) VerifyAccount(ctx context.Context, token, password string) (a domain.Account, err error) {
	const action = "account.verify"

	defer func() {
		s.record(action, err, map[string]string{"account_id": a.ID})
	}()

	if token == "" {
		return domain.Account{}, domain.ErrMissingField("token")
	}
	if password == "" {
		return domain.Account{}, domain.ErrMissingField("password")
	}

	acc, err := s.lookupSideToken(ctx, domain.TokenVerify, token)
	if err != nil {
		return domain.Account{}, err
	}
	if s.now().After(acc.VerifyTokenExpiry) {
		return domain.Account{}, domain.ErrTokenExpired()
	}
	if err := s.checkSideToken(domain.TokenVerify, token, acc); err != nil {
		return domain.Account{}, err
	}

	return s.store.ReplacePassword(ctx, acc.ID, password, domain.AccountPatch{
		IsVerified:        domain.Ptr(true),
		VerifyToken:       domain.Ptr(""),
		VerifyTokenExpiry: domain.Ptr(time.Time{}),
	})
}

// lookupSideToken maps a store miss onto the token-specific not found error.
func (s *Service) lookupSideToken(ctx context.Context, kind domain.TokenKind, token string) (domain.Account, error) {
	a, err := s.store.FindBySideToken(ctx, kind, token)
	if err == nil {
		return a, nil
	}
	if !domain.Is(err, "account_not_found") {
		return domain.Account{}, err
	}
	if kind == domain.TokenReset {
		return domain.Account{}, domain.ErrResetTokenNotFound()
	}
	return domain.Account{}, domain.ErrVerifyTokenNotFound()
}

// checkSideToken validates the signature and that the token was issued for a's email.
func (s *Service) checkSideToken(kind domain.TokenKind, token string, a domain.Account) error {
	claims, err := s.tokens.Validate(kind, token)
	if err != nil {
		return err
	}
	if claims.Email != a.Email {
		return domain.ErrTokenInvalid()
	}
	return nil
}
