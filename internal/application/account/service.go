package account

import (
	"time"

	"github.com/baechuer/account-service/internal/domain"
)

type Service struct {
	store  *Store
	tokens TokenIssuer
	mailer Mailer

	now   func() time.Time
	audit func(action string, fields map[string]string)

	requireVerification bool
	strictRefresh       bool
	sideTokenTTL        time.Duration

	// links sent by mail, token is appended
	verifyURLBase string // e.g. https://frontend/verify?token=
	resetURLBase  string // e.g. https://frontend/reset-password?token=
}

type Config struct {
	RequireEmailVerification bool
	// StrictRefreshRotation rejects refresh tokens that are not the one stored on the account.
	StrictRefreshRotation bool
	SideTokenTTL          time.Duration
	VerifyURLBase         string
	ResetURLBase          string
}

func NewService(store *Store, tokens TokenIssuer, mailer Mailer, cfg Config) *Service {
	ttl := cfg.SideTokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		store:  store,
		tokens: tokens,
		mailer: mailer,
		now:    time.Now,
		audit:  func(string, map[string]string) {},

		requireVerification: cfg.RequireEmailVerification,
		strictRefresh:       cfg.StrictRefreshRotation,
		sideTokenTTL:        ttl,
		verifyURLBase:       cfg.VerifyURLBase,
		resetURLBase:        cfg.ResetURLBase,
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// AuthTokens is the common token output for handlers/DTO mapping.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64  // seconds until the access token expires
	TokenType    string // "Bearer"
}

// issueSession signs a fresh access/refresh pair for a.
func (s *Service) issueSession(a domain.Account) (AuthTokens, error) {
	claims := domain.TokenClaims{AccountID: a.ID, Role: a.Role}

	access, ac, err := s.tokens.Issue(domain.TokenAccess, claims)
	if err != nil {
		return AuthTokens{}, err
	}
	refresh, _, err := s.tokens.Issue(domain.TokenRefresh, claims)
	if err != nil {
		return AuthTokens{}, err
	}

	expiresIn := int64(0)
	if !ac.ExpiresAt.IsZero() {
		expiresIn = int64(ac.ExpiresAt.Sub(s.now()).Seconds())
	}
	return AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
		TokenType:    "Bearer",
	}, nil
}

// issueSideToken signs a verify/reset token and returns it with its tracked expiry.
func (s *Service) issueSideToken(kind domain.TokenKind, email string) (string, time.Time, error) {
	tok, _, err := s.tokens.Issue(kind, domain.TokenClaims{Email: email})
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, s.now().Add(s.sideTokenTTL), nil
}
