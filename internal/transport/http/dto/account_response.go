package dto

import (
	"time"

	"github.com/baechuer/account-service/internal/domain"
)

type AccountView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"isActive"`
	IsBlocked      bool      `json:"isBlocked"`
	IsVerified     bool      `json:"isVerified"`
	IsKYCCompleted bool      `json:"isKYCCompleted"`
	Is2FAEnabled   bool      `json:"is2FAEnabled"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewAccountView never carries the password hash or any stored token.
func NewAccountView(a domain.Account) AccountView {
	return AccountView{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		Role:           string(a.Role),
		IsActive:       a.IsActive,
		IsBlocked:      a.IsBlocked,
		IsVerified:     a.IsVerified,
		IsKYCCompleted: a.IsKYCCompleted,
		Is2FAEnabled:   a.Is2FAEnabled,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func NewAccountViews(as []domain.Account) []AccountView {
	out := make([]AccountView, 0, len(as))
	for _, a := range as {
		out = append(out, NewAccountView(a))
	}
	return out
}

// TokensView exposes the access token only; the refresh token travels as a cookie.
type TokensView struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type SessionData struct {
	User   AccountView `json:"user"`
	Tokens TokensView  `json:"tokens"`
}

type RegisterData struct {
	User     AccountView `json:"user"`
	MailSent bool        `json:"mailSent"`
}

type ForgotPasswordData struct {
	Token    string `json:"token,omitempty"`
	MailSent bool   `json:"mailSent"`
}

type ResendEmailData struct {
	Sent bool `json:"sent"`
}
