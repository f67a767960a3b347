package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/baechuer/account-service/internal/domain"
)

type mailTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[domain.MailKind]mailTemplate{
	domain.MailVerify: {
		subject: "Verify your Account",
		body: template.Must(template.New("verify").Parse(
			`<p>Hi, this is a verification email.</p>
{{if .Link}}<p>Please click <a href="{{.Link}}">here</a> to verify your account.</p>
<p>{{.Link}}</p>{{end}}`)),
	},
	domain.MailForgotPassword: {
		subject: "Change Password of your Account",
		body: template.Must(template.New("forgot").Parse(
			`<p>Hi, this is an email to change your password.</p>
{{if .Link}}<p>Please click <a href="{{.Link}}">here</a> to change your password.</p>
<p>{{.Link}}</p>{{end}}
<p>If you did not request this change, you can ignore this email.</p>`)),
	},
	domain.MailKYC: {
		subject: "Complete Kyc of your Account",
		body: template.Must(template.New("kyc").Parse(
			`<p>Hi, this is an email to complete kyc of your account.</p>
{{if .Link}}<p>{{.Link}}</p>{{end}}`)),
	},
}

// Rendered is a mail ready for a transport.
type Rendered struct {
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Link    string `json:"link,omitempty"`
}

func Render(msg domain.MailMessage) (Rendered, error) {
	t, ok := templates[msg.Kind]
	if !ok {
		return Rendered{}, fmt.Errorf("mail: unknown kind %q", msg.Kind)
	}
	var buf bytes.Buffer
	if err := t.body.Execute(&buf, msg); err != nil {
		return Rendered{}, fmt.Errorf("mail: render %s: %w", msg.Kind, err)
	}
	return Rendered{
		To:      msg.To,
		Kind:    string(msg.Kind),
		Subject: t.subject,
		HTML:    buf.String(),
		Link:    msg.Link,
	}, nil
}
