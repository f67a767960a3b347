package account

import (
	"context"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
)

type RegisterInput struct {
	Name     string
	Email    string
	Role     string
	Password string
}

type RegisterResult struct {
	Account  domain.Account
	MailSent bool
	Message  string
}

const (
	MsgRegistered          = "user registered successfully"
	MsgRegisteredMailSent  = "user registered, verification email sent"
	MsgRegisteredMailError = "user registered, but verification email could not be sent"
)

// Register creates an account. The email check is a pre-check only: two concurrent
// registrations for the same address can both pass it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (res RegisterResult, err error) {
	const action = "account.register"

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Role = strings.TrimSpace(in.Role)

	defer func() {
		s.record(action, err, map[string]string{
			"account_id": res.Account.ID,
			"email":      in.Email,
			"mail_sent":  boolString(res.MailSent),
		})
	}()

	switch {
	case in.Name == "":
		return RegisterResult{}, domain.ErrMissingField("name")
	case in.Email == "":
		return RegisterResult{}, domain.ErrMissingField("email")
	case in.Password == "":
		return RegisterResult{}, domain.ErrMissingField("password")
	}

	role := domain.RoleUser
	if in.Role != "" {
		r, ok := domain.ParseRole(in.Role)
		if !ok {
			return RegisterResult{}, domain.ErrInvalidField("role", "must be ADMIN or USER")
		}
		role = r
	}

	if _, err := s.store.FindByEmail(ctx, in.Email); err == nil {
		return RegisterResult{}, domain.ErrEmailAlreadyExists()
	} else if !domain.Is(err, "account_not_found") {
		return RegisterResult{}, err
	}

	a := domain.NewAccount(in.Name, in.Email)
	a.Role = role

	if !s.requireVerification {
		created, err := s.store.Create(ctx, a, in.Password)
		if err != nil {
			return RegisterResult{}, err
		}
		return RegisterResult{Account: created, Message: MsgRegistered}, nil
	}

	tok, exp, err := s.issueSideToken(domain.TokenVerify, in.Email)
	if err != nil {
		return RegisterResult{}, err
	}
	a.VerifyToken = tok
	a.VerifyTokenExpiry = exp

	created, err := s.store.Create(ctx, a, in.Password)
	if err != nil {
		return RegisterResult{}, err
	}

	// mail failure does not undo the registration
	sent := s.mailer.Send(ctx, domain.MailMessage{
		To:   created.Email,
		Kind: domain.MailVerify,
		Link: s.verifyURLBase + tok,
	})
	msg := MsgRegisteredMailSent
	if !sent {
		msg = MsgRegisteredMailError
	}
	return RegisterResult{Account: created, MailSent: sent, Message: msg}, nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
