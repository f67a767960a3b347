package postgres

import (
	"context"

	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/logger"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Insert(ctx context.Context, a domain.Account) (domain.Account, error)
}

// SeedAdmin creates a verified ADMIN account when none with email exists.
// Restart safe; also used for the document store.
func SeedAdmin(ctx context.Context, repo SeederRepo, hasher SeederHasher, email, password string) {
	if email == "" || password == "" {
		return
	}
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("seed: hash failed")
		return
	}

	a := domain.NewAccount("Admin", email)
	a.Role = domain.RoleAdmin
	a.PasswordHash = hash
	a.IsVerified = true

	if _, err := repo.Insert(ctx, a); err != nil {
		logger.Logger.Warn().Err(err).Msg("seed: insert admin failed")
		return
	}
	logger.Logger.Info().Msg("seed: admin account created")
}
