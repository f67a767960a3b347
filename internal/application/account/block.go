package account

import (
	"context"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
)

// SetBlocked blocks or unblocks an account. Login re-checks the flag on every attempt;
// access tokens already issued stay valid until they expire.
func (s *Service) SetBlocked(ctx context.Context, actorID, targetID string, blocked bool) (a domain.Account, err error) {
	action := "admin.unblock_account"
	if blocked {
		action = "admin.block_account"
	}

	targetID = strings.TrimSpace(targetID)
	defer func() {
		s.record(action, err, map[string]string{
			"actor_id":  actorID,
			"target_id": targetID,
		})
	}()

	if targetID == "" {
		return domain.Account{}, domain.ErrMissingField("id")
	}

	return s.store.Update(ctx, targetID, domain.AccountPatch{IsBlocked: &blocked})
}
