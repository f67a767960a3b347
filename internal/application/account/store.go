package account

import (
	"context"
	"errors"

	"github.com/baechuer/account-service/internal/domain"
)

// Store owns the account record lifecycle. It is the only place a raw
// password is turned into a hash, and it never hands a hash back out.
type Store struct {
	repo   AccountRepository
	hasher PasswordHasher
}

func NewStore(repo AccountRepository, hasher PasswordHasher) *Store {
	return &Store{repo: repo, hasher: hasher}
}

// Create hashes password and inserts a with store defaults applied.
func (s *Store) Create(ctx context.Context, a domain.Account, password string) (domain.Account, error) {
	if password == "" {
		return domain.Account{}, domain.ErrMissingField("password")
	}
	hash, err := s.hash(password)
	if err != nil {
		return domain.Account{}, err
	}
	a.PasswordHash = hash
	if a.Role == "" {
		a.Role = domain.RoleUser
	}

	created, err := s.repo.Insert(ctx, a)
	if err != nil {
		return domain.Account{}, err
	}
	return created.Sanitized(), nil
}

// Authenticate checks password against the stored hash for email.
func (s *Store) Authenticate(ctx context.Context, email, password string) (domain.Account, error) {
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return domain.Account{}, err
	}
	if !s.hasher.Verify(password, a.PasswordHash) {
		return domain.Account{}, domain.ErrInvalidCredentials()
	}
	s.upgradeHash(ctx, a, password)
	return a.Sanitized(), nil
}

// rehasher is implemented by hashers whose cost can change between deployments.
type rehasher interface {
	NeedsRehash(hash string) bool
}

// upgradeHash re-hashes a verified password stored under an old cost.
// It is best effort: the login proceeds whatever the outcome.
func (s *Store) upgradeHash(ctx context.Context, a domain.Account, password string) {
	rh, ok := s.hasher.(rehasher)
	if !ok || !rh.NeedsRehash(a.PasswordHash) {
		return
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return
	}
	_, _ = s.repo.Update(ctx, a.ID, domain.AccountPatch{PasswordHash: &hash})
}

func (s *Store) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return domain.Account{}, err
	}
	return a.Sanitized(), nil
}

func (s *Store) FindByID(ctx context.Context, id string) (domain.Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	return a.Sanitized(), nil
}

func (s *Store) FindBySideToken(ctx context.Context, kind domain.TokenKind, token string) (domain.Account, error) {
	a, err := s.repo.GetBySideToken(ctx, kind, token)
	if err != nil {
		return domain.Account{}, err
	}
	return a.Sanitized(), nil
}

// Update applies a flag/token patch. Passwords go through ReplacePassword.
func (s *Store) Update(ctx context.Context, id string, patch domain.AccountPatch) (domain.Account, error) {
	if patch.PasswordHash != nil {
		return domain.Account{}, domain.ErrInternal(errors.New("password hash must be set via ReplacePassword"))
	}
	a, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Account{}, err
	}
	return a.Sanitized(), nil
}

// ReplacePassword hashes password and writes it together with patch in one update.
func (s *Store) ReplacePassword(ctx context.Context, id, password string, patch domain.AccountPatch) (domain.Account, error) {
	if password == "" {
		return domain.Account{}, domain.ErrMissingField("password")
	}
	hash, err := s.hash(password)
	if err != nil {
		return domain.Account{}, err
	}
	patch.PasswordHash = &hash

	a, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Account{}, err
	}
	return a.Sanitized(), nil
}

func (s *Store) ListByRole(ctx context.Context, role domain.Role) ([]domain.Account, error) {
	return s.Query(ctx, domain.AccountFilter{Roles: []domain.Role{role}})
}

func (s *Store) Query(ctx context.Context, f domain.AccountFilter) ([]domain.Account, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	list, err := s.repo.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(list))
	for _, a := range list {
		out = append(out, a.Sanitized())
	}
	return out, nil
}

// hash keeps domain errors from the hasher (e.g. an over-long password) and
// wraps anything else as hash_failed.
func (s *Store) hash(password string) (string, error) {
	h, err := s.hasher.Hash(password)
	if err == nil {
		return h, nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return "", err
	}
	return "", domain.ErrHashFailed(err)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
