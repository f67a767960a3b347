package memory

import (
	"context"

	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/logger"
)

// Hasher is the minimal surface we need for seeding.
type Hasher interface {
	Hash(password string) (string, error)
}

// SeedAccounts creates verified accounts for local development.
// Safe to call multiple times (existing emails are skipped).
func SeedAccounts(ctx context.Context, repo *AccountRepo, hasher Hasher) {
	type seedAccount struct {
		Name  string
		Email string
		Role  domain.Role
		Pass  string
	}

	seeds := []seedAccount{
		{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin, Pass: "AdminPassword123!"},
		{Name: "User", Email: "user@example.com", Role: domain.RoleUser, Pass: "UserPassword123!"},
	}

	for _, s := range seeds {
		if _, err := repo.GetByEmail(ctx, s.Email); err == nil {
			continue
		}

		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("email", s.Email).Msg("seed: hash failed")
			continue
		}

		a := domain.NewAccount(s.Name, s.Email)
		a.Role = s.Role
		a.PasswordHash = hash
		a.IsVerified = true

		if _, err := repo.Insert(ctx, a); err != nil {
			logger.Logger.Warn().Err(err).Str("email", s.Email).Msg("seed: insert failed")
		}
	}

	logger.Logger.Info().Int("count", len(seeds)).Msg("seed: in-memory accounts ready")
}
