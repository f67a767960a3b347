package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/baechuer/account-service/internal/domain"
)

// JWTIssuer signs and validates every token kind with one HS256 secret.
// The "typ" claim pins a token to its kind.
type JWTIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWTIssuer(secret, issuer string, accessTTL, refreshTTL time.Duration) *JWTIssuer {
	return &JWTIssuer{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

type tokenClaims struct {
	Kind      string `json:"typ"`
	AccountID string `json:"uid,omitempty"`
	Role      string `json:"role,omitempty"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ttl returns 0 for verify/reset tokens; their expiry is tracked on the account.
func (s *JWTIssuer) ttl(kind domain.TokenKind) time.Duration {
	switch kind {
	case domain.TokenAccess:
		return s.accessTTL
	case domain.TokenRefresh:
		return s.refreshTTL
	default:
		return 0
	}
}

func (s *JWTIssuer) Issue(kind domain.TokenKind, c domain.TokenClaims) (string, domain.TokenClaims, error) {
	now := s.now()
	claims := tokenClaims{
		Kind: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
	}

	switch kind {
	case domain.TokenAccess, domain.TokenRefresh:
		claims.AccountID = c.AccountID
		claims.Role = string(c.Role)
		claims.Subject = c.AccountID
		c.ExpiresAt = now.Add(s.ttl(kind))
		claims.ExpiresAt = jwt.NewNumericDate(c.ExpiresAt)
	case domain.TokenVerify, domain.TokenReset:
		claims.Email = c.Email
		c.ExpiresAt = time.Time{}
	default:
		return "", domain.TokenClaims{}, domain.ErrTokenSignFailed(nil)
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", domain.TokenClaims{}, domain.ErrTokenSignFailed(err)
	}
	return signed, c, nil
}

// Validate checks signature, expiry and kind. Every failure is token_invalid:
// callers do not learn whether a token was expired or forged.
func (s *JWTIssuer) Validate(kind domain.TokenKind, token string) (domain.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrTokenInvalid()
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domain.TokenClaims{}, domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid || claims.Kind != string(kind) {
		return domain.TokenClaims{}, domain.ErrTokenInvalid()
	}

	out := domain.TokenClaims{
		AccountID: claims.AccountID,
		Role:      domain.Role(claims.Role),
		Email:     claims.Email,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
