package memory

import (
	"context"
	"testing"
)

func TestSessionStorage_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStorage()

	if _, ok, _ := s.Get(ctx, "sid", "token"); ok {
		t.Fatalf("expected missing key")
	}

	_ = s.Set(ctx, "sid", "token", "abc")
	_ = s.Set(ctx, "sid", "user", "7")
	_ = s.Set(ctx, "other", "token", "xyz")

	v, ok, err := s.Get(ctx, "sid", "token")
	if err != nil || !ok || v != "abc" {
		t.Fatalf("unexpected get: %q %v %v", v, ok, err)
	}

	_ = s.Delete(ctx, "sid", "token")
	if _, ok, _ := s.Get(ctx, "sid", "token"); ok {
		t.Fatalf("expected token deleted")
	}
	if s.Len("sid") != 1 {
		t.Fatalf("expected one key left, got %d", s.Len("sid"))
	}
}

func TestSessionStorage_ClearIsScopedToSession(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStorage()
	_ = s.Set(ctx, "a", "token", "1")
	_ = s.Set(ctx, "b", "token", "2")

	_ = s.Clear(ctx, "a")

	if s.Len("a") != 0 {
		t.Fatalf("expected session a cleared")
	}
	if v, ok, _ := s.Get(ctx, "b", "token"); !ok || v != "2" {
		t.Fatalf("session b must be untouched")
	}
}
