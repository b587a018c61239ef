package service

import (
	"context"
	"testing"
)

func TestRequestGuard_LatestWins(t *testing.T) {
	var g RequestGuard
	ctx1, tok1 := g.Begin(context.Background())
	_, tok2 := g.Begin(context.Background())

	if ctx1.Err() == nil {
		t.Fatalf("starting a new request must cancel the previous one")
	}
	if g.Apply(tok1, func() { t.Fatalf("stale response applied") }) {
		t.Fatalf("stale token must be rejected")
	}
	applied := false
	if !g.Apply(tok2, func() { applied = true }) || !applied {
		t.Fatalf("current token must be applied")
	}
}

func TestRequestGuard_CloseDropsResponses(t *testing.T) {
	var g RequestGuard
	ctx, tok := g.Begin(context.Background())
	g.Close()

	if ctx.Err() == nil {
		t.Fatalf("close must cancel the in-flight request")
	}
	if g.Current(tok) {
		t.Fatalf("closed guard must not accept responses")
	}
	if g.Apply(tok, func() { t.Fatalf("response applied after close") }) {
		t.Fatalf("expected Apply to report false")
	}

	late, _ := g.Begin(context.Background())
	if late.Err() == nil {
		t.Fatalf("requests begun after close start cancelled")
	}
}

func TestLoadState_String(t *testing.T) {
	want := map[LoadState]string{
		StateIdle: "idle", StateLoading: "loading", StateReady: "ready",
		StateEmpty: "empty", StateFailed: "failed",
	}
	for s, name := range want {
		if s.String() != name {
			t.Fatalf("%d: expected %q, got %q", s, name, s.String())
		}
	}
}
