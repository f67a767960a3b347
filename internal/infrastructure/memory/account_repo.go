package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/account-service/internal/domain"
)

// AccountRepo keeps accounts in process memory. Email uniqueness is not enforced
// here; the registration pre-check is the only guard.
type AccountRepo struct {
	mu    sync.RWMutex
	byID  map[string]domain.Account
	order []string // insertion order, for stable listings
	now   func() time.Time
}

func NewAccountRepo() *AccountRepo {
	return &AccountRepo{
		byID: make(map[string]domain.Account),
		now:  time.Now,
	}
}

func (r *AccountRepo) Insert(ctx context.Context, a domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if _, exists := r.byID[a.ID]; exists {
		return domain.Account{}, domain.ErrInternal(nil)
	}
	now := r.now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	r.byID[a.ID] = a
	r.order = append(r.order, a.ID)
	return a, nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return a, nil
}

// GetByEmail returns the oldest account with email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.first(func(a domain.Account) bool { return a.Email == email })
}

func (r *AccountRepo) GetBySideToken(ctx context.Context, kind domain.TokenKind, token string) (domain.Account, error) {
	if token == "" {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	switch kind {
	case domain.TokenVerify:
		return r.first(func(a domain.Account) bool { return a.VerifyToken == token })
	case domain.TokenReset:
		return r.first(func(a domain.Account) bool { return a.ForgotPasswordToken == token })
	default:
		return domain.Account{}, domain.ErrAccountNotFound()
	}
}

func (r *AccountRepo) Update(ctx context.Context, id string, patch domain.AccountPatch) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	patch.Apply(&a)
	a.UpdatedAt = r.now().UTC()
	r.byID[id] = a
	return a, nil
}

func (r *AccountRepo) Find(ctx context.Context, f domain.AccountFilter) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Account{}
	for _, id := range r.order {
		a := r.byID[id]
		if f.Matches(a) {
			a.PasswordHash = ""
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AccountRepo) Ping(ctx context.Context) error { return nil }

func (r *AccountRepo) first(match func(domain.Account) bool) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if a := r.byID[id]; match(a) {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound()
}
