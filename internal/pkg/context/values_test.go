package context

import (
	"context"
	"testing"

	"github.com/baechuer/account-service/internal/domain"
)

func TestRequestID(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}

	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}
}

func TestActor(t *testing.T) {
	if _, ok := GetActor(context.Background()); ok {
		t.Fatalf("anonymous request must have no actor")
	}

	ctx := WithActor(context.Background(), Actor{AccountID: "acc-1", Role: domain.RoleUser})
	a, ok := GetActor(ctx)
	if !ok || a.AccountID != "acc-1" || a.Role != domain.RoleUser {
		t.Fatalf("unexpected actor %+v ok=%v", a, ok)
	}

	if _, ok := GetActor(WithActor(context.Background(), Actor{Role: domain.RoleUser})); ok {
		t.Fatalf("actor without account id must not count")
	}
}
