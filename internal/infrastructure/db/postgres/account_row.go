package postgres

import (
	"database/sql"
	"time"

	"github.com/baechuer/account-service/internal/domain"
)

const accountColumns = `id, name, email, password_hash, role, is_active, is_blocked, is_verified,
is_kyc_completed, is_2fa_enabled, refresh_token, verify_token, verify_token_expiry,
forgot_password_token, forgot_password_token_expiry, created_at, updated_at`

// accountRow mirrors the accounts table; cleared tokens are NULL.
type accountRow struct {
	ID                        string
	Name                      string
	Email                     string
	PasswordHash              string
	Role                      string
	IsActive                  bool
	IsBlocked                 bool
	IsVerified                bool
	IsKYCCompleted            bool
	Is2FAEnabled              bool
	RefreshToken              sql.NullString
	VerifyToken               sql.NullString
	VerifyTokenExpiry         sql.NullTime
	ForgotPasswordToken       sql.NullString
	ForgotPasswordTokenExpiry sql.NullTime
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (accountRow, error) {
	var r accountRow
	err := s.Scan(
		&r.ID,
		&r.Name,
		&r.Email,
		&r.PasswordHash,
		&r.Role,
		&r.IsActive,
		&r.IsBlocked,
		&r.IsVerified,
		&r.IsKYCCompleted,
		&r.Is2FAEnabled,
		&r.RefreshToken,
		&r.VerifyToken,
		&r.VerifyTokenExpiry,
		&r.ForgotPasswordToken,
		&r.ForgotPasswordTokenExpiry,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

func (r accountRow) toDomain() domain.Account {
	return domain.Account{
		ID:                        r.ID,
		Name:                      r.Name,
		Email:                     r.Email,
		PasswordHash:              r.PasswordHash,
		Role:                      domain.Role(r.Role),
		IsActive:                  r.IsActive,
		IsBlocked:                 r.IsBlocked,
		IsVerified:                r.IsVerified,
		IsKYCCompleted:            r.IsKYCCompleted,
		Is2FAEnabled:              r.Is2FAEnabled,
		RefreshToken:              r.RefreshToken.String,
		VerifyToken:               r.VerifyToken.String,
		VerifyTokenExpiry:         r.VerifyTokenExpiry.Time,
		ForgotPasswordToken:       r.ForgotPasswordToken.String,
		ForgotPasswordTokenExpiry: r.ForgotPasswordTokenExpiry.Time,
		CreatedAt:                 r.CreatedAt,
		UpdatedAt:                 r.UpdatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
