package mail

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/logger"
)

// dialer is the slice of *gomail.Dialer the mailer needs.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPMailer struct {
	dialer dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	if from == "" {
		from = user
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// Send renders msg and delivers it over SMTP. Any failure is logged and reported as false.
func (m *SMTPMailer) Send(ctx context.Context, msg domain.MailMessage) bool {
	r, err := Render(msg)
	if err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("mail render failed")
		return false
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", r.To)
	gm.SetHeader("Subject", r.Subject)
	gm.SetBody("text/html", r.HTML)

	if err := m.dialer.DialAndSend(gm); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Str("kind", r.Kind).Msg("smtp send failed")
		return false
	}
	return true
}
