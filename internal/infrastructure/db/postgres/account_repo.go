package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/account-service/internal/domain"
)

type AccountRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db, now: time.Now}
}

func (r *AccountRepo) Insert(ctx context.Context, a domain.Account) (domain.Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := r.now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	q := `
INSERT INTO accounts (` + accountColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
RETURNING ` + accountColumns + `;`

	row, err := scanAccount(r.db.QueryRowContext(ctx, q,
		a.ID, a.Name, a.Email, a.PasswordHash, string(a.Role),
		a.IsActive, a.IsBlocked, a.IsVerified, a.IsKYCCompleted, a.Is2FAEnabled,
		nullString(a.RefreshToken),
		nullString(a.VerifyToken), nullTime(a.VerifyTokenExpiry),
		nullString(a.ForgotPasswordToken), nullTime(a.ForgotPasswordTokenExpiry),
		a.CreatedAt, a.UpdatedAt,
	))
	if err != nil {
		return domain.Account{}, domain.ErrDBUnavailable(err)
	}
	return row.toDomain(), nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return r.getOne(ctx, "id", id)
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.getOne(ctx, "email", email)
}

func (r *AccountRepo) GetBySideToken(ctx context.Context, kind domain.TokenKind, token string) (domain.Account, error) {
	if token == "" {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	switch kind {
	case domain.TokenVerify:
		return r.getOne(ctx, "verify_token", token)
	case domain.TokenReset:
		return r.getOne(ctx, "forgot_password_token", token)
	default:
		return domain.Account{}, domain.ErrAccountNotFound()
	}
}

// getOne returns the oldest row where column = value. column is never user input.
func (r *AccountRepo) getOne(ctx context.Context, column, value string) (domain.Account, error) {
	q := `
SELECT ` + accountColumns + `
FROM accounts
WHERE ` + column + ` = $1
ORDER BY created_at
LIMIT 1;`

	row, err := scanAccount(r.db.QueryRowContext(ctx, q, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound()
		}
		return domain.Account{}, domain.ErrDBUnavailable(err)
	}
	return row.toDomain(), nil
}

func (r *AccountRepo) Update(ctx context.Context, id string, p domain.AccountPatch) (domain.Account, error) {
	sets, args := buildUpdate(p)
	args = append(args, r.now().UTC(), id)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)-1))

	q := `
UPDATE accounts
SET ` + strings.Join(sets, ", ") + `
WHERE id = $` + fmt.Sprint(len(args)) + `
RETURNING ` + accountColumns + `;`

	row, err := scanAccount(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound()
		}
		return domain.Account{}, domain.ErrDBUnavailable(err)
	}
	return row.toDomain(), nil
}

func (r *AccountRepo) Find(ctx context.Context, f domain.AccountFilter) ([]domain.Account, error) {
	where, args := buildWhere(f)
	q := `
SELECT ` + accountColumns + `
FROM accounts` + where + `
ORDER BY created_at;`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.Account{}
	for rows.Next() {
		row, err := scanAccount(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		a := row.toDomain()
		a.PasswordHash = ""
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *AccountRepo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

// buildUpdate returns SET clauses numbered from $1 in a fixed column order.
func buildUpdate(p domain.AccountPatch) ([]string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.PasswordHash != nil {
		add("password_hash", *p.PasswordHash)
	}
	if p.IsActive != nil {
		add("is_active", *p.IsActive)
	}
	if p.IsBlocked != nil {
		add("is_blocked", *p.IsBlocked)
	}
	if p.IsVerified != nil {
		add("is_verified", *p.IsVerified)
	}
	if p.IsKYCCompleted != nil {
		add("is_kyc_completed", *p.IsKYCCompleted)
	}
	if p.RefreshToken != nil {
		add("refresh_token", nullString(*p.RefreshToken))
	}
	if p.VerifyToken != nil {
		add("verify_token", nullString(*p.VerifyToken))
	}
	if p.VerifyTokenExpiry != nil {
		add("verify_token_expiry", nullTime(*p.VerifyTokenExpiry))
	}
	if p.ForgotPasswordToken != nil {
		add("forgot_password_token", nullString(*p.ForgotPasswordToken))
	}
	if p.ForgotPasswordTokenExpiry != nil {
		add("forgot_password_token_expiry", nullTime(*p.ForgotPasswordTokenExpiry))
	}
	return sets, args
}

// buildWhere returns " WHERE ..." (or "") with positional args.
func buildWhere(f domain.AccountFilter) (string, []any) {
	var conds []string
	var args []any

	in := func(col string, vals []any) {
		if len(vals) == 0 {
			return
		}
		ph := make([]string, 0, len(vals))
		for _, v := range vals {
			args = append(args, v)
			ph = append(ph, fmt.Sprintf("$%d", len(args)))
		}
		conds = append(conds, fmt.Sprintf("%s IN (%s)", col, strings.Join(ph, ", ")))
	}

	roles := make([]any, 0, len(f.Roles))
	for _, r := range f.Roles {
		roles = append(roles, string(r))
	}
	in("role", roles)

	if f.CreatedFrom != nil {
		args = append(args, *f.CreatedFrom)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.CreatedTo != nil {
		args = append(args, *f.CreatedTo)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	in("is_active", boolsToAny(f.Active))
	in("is_verified", boolsToAny(f.Verified))
	in("is_kyc_completed", boolsToAny(f.KYCCompleted))

	if len(conds) == 0 {
		return "", nil
	}
	return "\nWHERE " + strings.Join(conds, " AND "), args
}

func boolsToAny(bs []bool) []any {
	out := make([]any, 0, len(bs))
	for _, b := range bs {
		out = append(out, b)
	}
	return out
}
