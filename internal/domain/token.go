package domain

import "time"

// TokenKind separates the four signed token families so one cannot stand in for another.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
	TokenVerify  TokenKind = "verify"
	TokenReset   TokenKind = "reset"
)

// TokenClaims is what a signed token carries.
// ExpiresAt is zero for verify/reset tokens; their lifetime lives on the account record.
type TokenClaims struct {
	AccountID string
	Role      Role
	Email     string
	ExpiresAt time.Time
}

// MailKind is the mail template selector.
type MailKind string

const (
	MailVerify         MailKind = "VERIFY"
	MailForgotPassword MailKind = "FORGETPASSWORD"
	MailKYC            MailKind = "KYC"
)

func ParseMailKind(raw string) (MailKind, bool) {
	switch MailKind(raw) {
	case MailVerify, MailForgotPassword, MailKYC:
		return MailKind(raw), true
	default:
		return "", false
	}
}

// MailMessage is one outbound mail request. Link may be empty for KYC reminders.
type MailMessage struct {
	To   string
	Kind MailKind
	Link string
}
