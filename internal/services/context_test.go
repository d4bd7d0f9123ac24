package services_test

import (
	"context"
	"testing"

	"poparch/internal/services"
)

func TestScopeAccumulates(t *testing.T) {
	ctx := services.WithCommand(context.Background(), "update")
	ctx = services.WithMovie(ctx, "Alien (1979)")

	got := services.ScopeFrom(ctx)
	if got.Command != "update" || got.Movie != "Alien (1979)" {
		t.Fatalf("unexpected scope %+v", got)
	}

	// A later movie replaces the earlier one without losing the command.
	got = services.ScopeFrom(services.WithMovie(ctx, "Brazil (1985)"))
	if got.Command != "update" || got.Movie != "Brazil (1985)" {
		t.Fatalf("unexpected scope %+v", got)
	}
	if services.ScopeFrom(ctx).Movie != "Alien (1979)" {
		t.Fatal("parent context was modified")
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	if services.WithCommand(ctx, "") != ctx || services.WithMovie(ctx, "") != ctx {
		t.Fatal("blank values should return the same context")
	}
	if scope := services.ScopeFrom(ctx); scope != (services.Scope{}) {
		t.Fatalf("expected zero scope, got %+v", scope)
	}
}
