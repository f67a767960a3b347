package account

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/account-service/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

/*
Fakes for ports
*/

type fakeRepo struct {
	mu sync.Mutex

	byID   map[string]domain.Account
	nextID int

	// injected errors (if set, method returns error)
	insertErr     error
	getByIDErr    error
	getByEmailErr error
	updateErr     error
	findErr       error
	pingErr       error

	// record calls
	updates []domain.AccountPatch
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]domain.Account{}}
}

func (f *fakeRepo) put(a domain.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[a.ID] = a
}

func (f *fakeRepo) get(id string) domain.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

func (f *fakeRepo) Insert(ctx context.Context, a domain.Account) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return domain.Account{}, f.insertErr
	}
	f.nextID++
	a.ID = fmt.Sprintf("u%d", f.nextID)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	f.byID[a.ID] = a
	return a, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.Account{}, f.getByIDErr
	}
	a, ok := f.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return a, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.Account{}, f.getByEmailErr
	}
	for _, a := range f.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound()
}

func (f *fakeRepo) GetBySideToken(ctx context.Context, kind domain.TokenKind, token string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.byID {
		if kind == domain.TokenVerify && a.VerifyToken == token {
			return a, nil
		}
		if kind == domain.TokenReset && a.ForgotPasswordToken == token {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound()
}

func (f *fakeRepo) Update(ctx context.Context, id string, p domain.AccountPatch) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return domain.Account{}, f.updateErr
	}
	a, ok := f.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	p.Apply(&a)
	a.UpdatedAt = time.Now()
	f.byID[id] = a
	f.updates = append(f.updates, p)
	return a, nil
}

func (f *fakeRepo) Find(ctx context.Context, flt domain.AccountFilter) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []domain.Account
	for _, a := range f.byID {
		if flt.Matches(a) {
			a.PasswordHash = ""
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) Ping(ctx context.Context) error { return f.pingErr }

// fakeHasher prefixes instead of hashing.
type fakeHasher struct {
	hashErr error
	calls   int
}

func (h *fakeHasher) Hash(pw string) (string, error) {
	h.calls++
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + pw, nil
}

func (h *fakeHasher) Verify(pw, hash string) bool {
	return hash == "hashed:"+pw
}

// fakeIssuer hands out sequential tokens and remembers their claims.
type fakeIssuer struct {
	mu sync.Mutex

	n      int
	issued map[string]issuedToken

	issueErr error
}

type issuedToken struct {
	kind   domain.TokenKind
	claims domain.TokenClaims
}

func newFakeIssuer() *fakeIssuer {
	return &fakeIssuer{issued: map[string]issuedToken{}}
}

func (f *fakeIssuer) Issue(kind domain.TokenKind, c domain.TokenClaims) (string, domain.TokenClaims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.issueErr != nil {
		return "", domain.TokenClaims{}, f.issueErr
	}
	f.n++
	tok := fmt.Sprintf("%s-%d", kind, f.n)
	if kind == domain.TokenAccess || kind == domain.TokenRefresh {
		c.ExpiresAt = time.Now().Add(15 * time.Minute)
	}
	f.issued[tok] = issuedToken{kind: kind, claims: c}
	return tok, c, nil
}

func (f *fakeIssuer) Validate(kind domain.TokenKind, tok string) (domain.TokenClaims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	it, ok := f.issued[tok]
	if !ok || it.kind != kind {
		return domain.TokenClaims{}, domain.ErrTokenInvalid()
	}
	return it.claims, nil
}

// forge registers a token as if it had been issued.
func (f *fakeIssuer) forge(tok string, kind domain.TokenKind, c domain.TokenClaims) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued[tok] = issuedToken{kind: kind, claims: c}
}

type fakeMailer struct {
	mu sync.Mutex

	ok   bool
	sent []domain.MailMessage
}

func (m *fakeMailer) Send(ctx context.Context, msg domain.MailMessage) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.ok
}

func (m *fakeMailer) last() domain.MailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return domain.MailMessage{}
	}
	return m.sent[len(m.sent)-1]
}

/*
Service builder
*/

type testDeps struct {
	repo   *fakeRepo
	hasher *fakeHasher
	tokens *fakeIssuer
	mailer *fakeMailer
	audits *[]auditEntry
	now    *time.Time
}

func newSvcForTest(t *testing.T) (*Service, testDeps) {
	return newSvcWithConfig(t, Config{
		RequireEmailVerification: true,
		SideTokenTTL:             time.Hour,
		VerifyURLBase:            "https://app/verify?token=",
		ResetURLBase:             "https://app/reset?token=",
	})
}

func newSvcWithConfig(t *testing.T, cfg Config) (*Service, testDeps) {
	t.Helper()

	d := testDeps{
		repo:   newFakeRepo(),
		hasher: &fakeHasher{},
		tokens: newFakeIssuer(),
		mailer: &fakeMailer{ok: true},
		audits: &[]auditEntry{},
	}
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	d.now = &now

	var mu sync.Mutex
	svc := NewService(NewStore(d.repo, d.hasher), d.tokens, d.mailer, cfg).
		WithClock(func() time.Time { return *d.now }).
		WithAudit(func(action string, fields map[string]string) {
			mu.Lock()
			defer mu.Unlock()
			*d.audits = append(*d.audits, auditEntry{action: action, fields: fields})
		})
	return svc, d
}

// seed inserts an account with a hashed password.
func (d testDeps) seed(a domain.Account, password string) domain.Account {
	if a.Role == "" {
		a.Role = domain.RoleUser
	}
	a.PasswordHash = "hashed:" + password
	d.repo.put(a)
	return a
}

func (d testDeps) lastAudit(t *testing.T, action string) auditEntry {
	t.Helper()
	for i := len(*d.audits) - 1; i >= 0; i-- {
		if (*d.audits)[i].action == action {
			return (*d.audits)[i]
		}
	}
	t.Fatalf("no audit entry for %s in %+v", action, *d.audits)
	return auditEntry{}
}

func hasPrefix(s, p string) bool { return strings.HasPrefix(s, p) }
