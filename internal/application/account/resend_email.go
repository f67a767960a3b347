package account

import (
	"context"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
)

// ResendEmail sends a mail of the given kind using a caller-supplied link.
// It does not issue a new token.
func (s *Service) ResendEmail(ctx context.Context, email, emailType, link string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, domain.ErrMissingField("email")
	}
	if emailType == "" {
		return false, domain.ErrMissingField("emailType")
	}
	kind, ok := domain.ParseMailKind(emailType)
	if !ok {
		return false, domain.ErrInvalidField("emailType", "must be VERIFY, FORGETPASSWORD or KYC")
	}

	return s.mailer.Send(ctx, domain.MailMessage{To: email, Kind: kind, Link: link}), nil
}
