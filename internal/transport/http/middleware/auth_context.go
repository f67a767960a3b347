package middleware

import (
	"context"

	"github.com/baechuer/account-service/internal/domain"
	appCtx "github.com/baechuer/account-service/internal/pkg/context"
)

func WithUser(ctx context.Context, accountID string, role domain.Role) context.Context {
	return appCtx.WithActor(ctx, appCtx.Actor{AccountID: accountID, Role: role})
}

func AccountIDFromContext(ctx context.Context) (string, bool) {
	a, ok := appCtx.GetActor(ctx)
	return a.AccountID, ok
}

func RoleFromContext(ctx context.Context) (domain.Role, bool) {
	a, ok := appCtx.GetActor(ctx)
	return a.Role, ok && a.Role != ""
}
