package rabbitmq

import (
	"context"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/infrastructure/mail"
	"github.com/baechuer/account-service/internal/logger"
)

type jsonPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, payload any) error
}

// Mailer hands rendered mail to a downstream mail worker over RabbitMQ.
type Mailer struct {
	pub jsonPublisher
}

func NewMailer(pub jsonPublisher) *Mailer {
	return &Mailer{pub: pub}
}

// RoutingKey is account.mail.<kind>, e.g. account.mail.forgetpassword.
func RoutingKey(kind domain.MailKind) string {
	return "account.mail." + strings.ToLower(string(kind))
}

func (m *Mailer) Send(ctx context.Context, msg domain.MailMessage) bool {
	r, err := mail.Render(msg)
	if err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("mail render failed")
		return false
	}
	if err := m.pub.PublishJSON(ctx, RoutingKey(msg.Kind), r); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Str("kind", r.Kind).Msg("mail publish failed")
		return false
	}
	return true
}
