package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/infrastructure/security"
)

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

type TokenValidator interface {
	Validate(kind domain.TokenKind, token string) (domain.TokenClaims, error)
}

// Gate authorizes requests from the access token alone. It never consults the
// account store, so a blocked or logged-out account keeps access until its
// access token expires.
type Gate struct {
	tokens   TokenValidator
	writeErr WriteErrFunc
	public   map[string]struct{}
}

// NewGate builds a gate. publicPaths are exact request paths that bypass every check.
func NewGate(tokens TokenValidator, writeErr WriteErrFunc, publicPaths ...string) *Gate {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}
	return &Gate{tokens: tokens, writeErr: writeErr, public: public}
}

// Require admits requests whose access token carries one of roles.
func (g *Gate) Require(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := slices.Clone(roles)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := g.public[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			raw := accessToken(r)
			if raw == "" {
				g.writeErr(w, r, domain.ErrUnauthenticated())
				return
			}

			claims, err := g.tokens.Validate(domain.TokenAccess, raw)
			if err != nil {
				g.writeErr(w, r, err)
				return
			}
			if strings.TrimSpace(claims.AccountID) == "" {
				g.writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			role, ok := domain.ParseRole(string(claims.Role))
			if !ok {
				g.writeErr(w, r, domain.ErrInvalidRole(string(claims.Role)))
				return
			}
			if !slices.Contains(allowed, role) {
				g.writeErr(w, r, domain.ErrForbidden(role))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.AccountID, role)))
		})
	}
}

// accessToken reads the accessToken cookie, then Authorization: Bearer.
func accessToken(r *http.Request) string {
	if tok := security.ReadAccessToken(r); tok != "" {
		return tok
	}
	h := r.Header.Get("Authorization")
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}
