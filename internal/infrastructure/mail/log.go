package mail

import (
	"context"

	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/logger"
)

// LogMailer only logs the outgoing mail. Used in dev.
type LogMailer struct{}

func NewLogMailer() *LogMailer { return &LogMailer{} }

func (LogMailer) Send(ctx context.Context, msg domain.MailMessage) bool {
	r, err := Render(msg)
	if err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("mail render failed")
		return false
	}
	logger.WithCtx(ctx).Info().
		Str("to", r.To).
		Str("kind", r.Kind).
		Str("subject", r.Subject).
		Str("link", r.Link).
		Msg("[log-mailer] mail")
	return true
}
