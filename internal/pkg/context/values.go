// Package context holds the request-scoped values shared by transport, logging and error rendering.
package context

import (
	"context"

	"github.com/baechuer/account-service/internal/domain"
)

type key int

const (
	requestIDKey key = iota
	actorKey
)

// Actor is the caller admitted by the access gate.
type Actor struct {
	AccountID string
	Role      domain.Role
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns "" when no id was attached.
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// GetActor reports false for anonymous requests.
func GetActor(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok && a.AccountID != ""
}
