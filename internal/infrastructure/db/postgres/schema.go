package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/account-service/internal/domain"
)

// email is indexed but not unique: registration only pre-checks it.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS accounts (
    id                           TEXT PRIMARY KEY,
    name                         TEXT NOT NULL,
    email                        TEXT NOT NULL,
    password_hash                TEXT NOT NULL,
    role                         TEXT NOT NULL DEFAULT 'USER',
    is_active                    BOOLEAN NOT NULL DEFAULT FALSE,
    is_blocked                   BOOLEAN NOT NULL DEFAULT FALSE,
    is_verified                  BOOLEAN NOT NULL DEFAULT FALSE,
    is_kyc_completed             BOOLEAN NOT NULL DEFAULT FALSE,
    is_2fa_enabled               BOOLEAN NOT NULL DEFAULT FALSE,
    refresh_token                TEXT,
    verify_token                 TEXT,
    verify_token_expiry          TIMESTAMPTZ,
    forgot_password_token        TEXT,
    forgot_password_token_expiry TIMESTAMPTZ,
    created_at                   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at                   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS accounts_email_idx ON accounts (email);
CREATE INDEX IF NOT EXISTS accounts_verify_token_idx ON accounts (verify_token) WHERE verify_token IS NOT NULL;
CREATE INDEX IF NOT EXISTS accounts_forgot_password_token_idx ON accounts (forgot_password_token) WHERE forgot_password_token IS NOT NULL;
`

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}
