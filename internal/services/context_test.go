package services_test

import (
	"context"
	"testing"

	"cliptag/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithClipID(ctx, "clip-42")
	ctx = services.WithTier(ctx, "ai")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.ClipIDFromContext(ctx); !ok || id != "clip-42" {
		t.Fatalf("unexpected clip id: %v %v", id, ok)
	}
	if tier, ok := services.TierFromContext(ctx); !ok || tier != "ai" {
		t.Fatalf("unexpected tier: %v %v", tier, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestTierBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithTier(ctx, "")
	if _, ok := services.TierFromContext(ctx); ok {
		t.Fatal("expected no tier value")
	}
	ctx = services.WithClipID(ctx, "")
	if _, ok := services.ClipIDFromContext(ctx); ok {
		t.Fatal("expected no clip id value")
	}
}
