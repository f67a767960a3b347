package dto

import (
	"time"

	"github.com/baechuer/account-service/internal/domain"
)

// bcrypt only reads the first 72 bytes of a password.

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN USER"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenPasswordRequest carries a verify or reset token with the new password.
type TokenPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResendEmailRequest struct {
	Email     string `json:"email" validate:"required,email"`
	EmailType string `json:"emailType" validate:"required,oneof=VERIFY FORGETPASSWORD KYC"`
	URL       string `json:"url,omitempty" validate:"omitempty,url"`
}

type BlockRequest struct {
	Blocked *bool `json:"blocked" validate:"required"`
}

// FilterRequest is the admin account query. Every field is optional.
type FilterRequest struct {
	Roles          []string   `json:"roles,omitempty" validate:"omitempty,dive,oneof=ADMIN USER"`
	CreatedFrom    *time.Time `json:"createdFrom,omitempty"`
	CreatedTo      *time.Time `json:"createdTo,omitempty"`
	IsActive       []bool     `json:"isActive,omitempty"`
	IsVerified     []bool     `json:"isVerified,omitempty"`
	IsKYCCompleted []bool     `json:"isKYCCompleted,omitempty"`
}

func (r FilterRequest) ToFilter() domain.AccountFilter {
	f := domain.AccountFilter{
		CreatedFrom:  r.CreatedFrom,
		CreatedTo:    r.CreatedTo,
		Active:       r.IsActive,
		Verified:     r.IsVerified,
		KYCCompleted: r.IsKYCCompleted,
	}
	for _, role := range r.Roles {
		f.Roles = append(f.Roles, domain.Role(role))
	}
	return f
}
