package account

import (
	"context"

	"github.com/baechuer/account-service/internal/domain"
)

/*
AccountRepository
-----------------
Persistence port for account records.
Lookups return domain.ErrAccountNotFound when nothing matches.
Find never populates PasswordHash.
*/
type AccountRepository interface {
	Insert(ctx context.Context, a domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)

	// GetBySideToken looks up the pending verify (TokenVerify) or reset (TokenReset) token.
	GetBySideToken(ctx context.Context, kind domain.TokenKind, token string) (domain.Account, error)

	// Update applies the patch as one atomic write and returns the post-update record.
	Update(ctx context.Context, id string, patch domain.AccountPatch) (domain.Account, error)
	Find(ctx context.Context, f domain.AccountFilter) ([]domain.Account, error)

	Ping(ctx context.Context) error
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

/*
TokenIssuer
-----------
Issues and validates every signed token kind.
Validate fails with domain.ErrTokenInvalid for any bad, expired or mismatched token.
*/
type TokenIssuer interface {
	Issue(kind domain.TokenKind, claims domain.TokenClaims) (string, domain.TokenClaims, error)
	Validate(kind domain.TokenKind, token string) (domain.TokenClaims, error)
}

/*
Mailer
------
Delivers templated mail. Failures are reported as false, never as errors.
*/
type Mailer interface {
	Send(ctx context.Context, msg domain.MailMessage) bool
}
