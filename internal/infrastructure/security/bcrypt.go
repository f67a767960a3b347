package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/account-service/internal/domain"
)

// DefaultCost matches the cost accounts have always been hashed with.
const DefaultCost = 12

var errAlreadyHashed = errors.New("refusing to hash a bcrypt digest")

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash rejects input that already parses as a bcrypt digest, so a hash is never
// hashed twice. Passwords over bcrypt's 72 byte input limit are a validation error.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if _, err := bcrypt.Cost([]byte(password)); err == nil {
		return "", domain.ErrHashFailed(errAlreadyHashed)
	}

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return "", domain.ErrInvalidField("password", "must be at most 72 bytes")
	case err != nil:
		return "", domain.ErrHashFailed(err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NeedsRehash reports whether hash was produced with a different cost than h uses.
func (h *BcryptHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err != nil || cost != h.cost
}
