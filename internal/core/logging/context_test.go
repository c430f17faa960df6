package logging

import (
	"context"
	"testing"
)

func TestWithRequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "req-123"

	ctx = WithRequestID(ctx, requestID)
	got := GetRequestID(ctx)

	if got != requestID {
		t.Errorf("GetRequestID() = %q, want %q", got, requestID)
	}
}

func TestWithActorID(t *testing.T) {
	ctx := context.Background()
	actorID := "alice"

	ctx = WithActorID(ctx, actorID)
	got := GetActorID(ctx)

	if got != actorID {
		t.Errorf("GetActorID() = %q, want %q", got, actorID)
	}
}

func TestGetRequestID_NotPresent(t *testing.T) {
	ctx := context.Background()
	if got := GetRequestID(ctx); got != "" {
		t.Errorf("GetRequestID() = %q, want empty string", got)
	}
}

func TestGetActorID_NotPresent(t *testing.T) {
	ctx := context.Background()
	if got := GetActorID(ctx); got != "" {
		t.Errorf("GetActorID() = %q, want empty string", got)
	}
}

func TestBothIDs(t *testing.T) {
	ctx := context.Background()

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithActorID(ctx, "bob")

	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-1")
	}
	if got := GetActorID(ctx); got != "bob" {
		t.Errorf("GetActorID() = %q, want %q", got, "bob")
	}
}
