package account

import (
	"context"
	"strings"
	"time"

	"github.com/baechuer/account-service/internal/domain"
)

type ForgotPasswordResult struct {
	// Token is the raw reset token. Handlers decide whether to expose it.
	Token    string
	MailSent bool
}

// ForgotPassword issues a reset token, overwriting any pending one, and mails the link.
func (s *Service) ForgotPassword(ctx context.Context, email string) (res ForgotPasswordResult, err error) {
	const action = "account.forgot_password"

	email = strings.TrimSpace(email)
	var accountID string
	defer func() {
		s.record(action, err, map[string]string{
			"account_id": accountID,
			"email":      email,
			"mail_sent":  boolString(res.MailSent),
		})
	}()

	if email == "" {
		return ForgotPasswordResult{}, domain.ErrMissingField("email")
	}

	a, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return ForgotPasswordResult{}, err
	}
	accountID = a.ID

	tok, exp, err := s.issueSideToken(domain.TokenReset, a.Email)
	if err != nil {
		return ForgotPasswordResult{}, err
	}
	if _, err := s.store.Update(ctx, a.ID, domain.AccountPatch{
		ForgotPasswordToken:       &tok,
		ForgotPasswordTokenExpiry: &exp,
	}); err != nil {
		return ForgotPasswordResult{}, err
	}

	sent := s.mailer.Send(ctx, domain.MailMessage{
		To:   a.Email,
		Kind: domain.MailForgotPassword,
		Link: s.resetURLBase + tok,
	})
	return ForgotPasswordResult{Token: tok, MailSent: sent}, nil
}

// UpdatePassword consumes the pending reset token and replaces the password.
func (s *Service) UpdatePassword(ctx context.Context, token, password string) (a domain.Account, err error) {
	const action = "account.update_password"

	defer func() {
		s.record(action, err, map[string]string{"account_id": a.ID})
	}()

	if token == "" {
		return domain.Account{}, domain.ErrMissingField("token")
	}
	if password == "" {
		return domain.Account{}, domain.ErrMissingField("password")
	}

	acc, err := s.lookupSideToken(ctx, domain.TokenReset, token)
	if err != nil {
		return domain.Account{}, err
	}
	if s.now().After(acc.ForgotPasswordTokenExpiry) {
		return domain.Account{}, domain.ErrTokenExpired()
	}
	if err := s.checkSideToken(domain.TokenReset, token, acc); err != nil {
		return domain.Account{}, err
	}

	return s.store.ReplacePassword(ctx, acc.ID, password, domain.AccountPatch{
		ForgotPasswordToken:       domain.Ptr(""),
		ForgotPasswordTokenExpiry: domain.Ptr(time.Time{}),
	})
}
