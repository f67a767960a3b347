package observability

import "testing"

func TestInitSentry_EmptyDSN_NoOp(t *testing.T) {
	if err := InitSentry("", "test", ""); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	FlushSentry()
}

func TestInitSentry_BadDSN(t *testing.T) {
	if err := InitSentry("not a dsn", "test", ""); err == nil {
		t.Fatalf("expected error for malformed dsn")
	}
}
