package sealer

import (
	"errors"
	"testing"
)

func TestSealer_RoundTrip(t *testing.T) {
	s, err := New("secret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sealed, err := s.Seal("eyJhbGciOi.token")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if sealed == "eyJhbGciOi.token" {
		t.Fatalf("sealed value equals plaintext")
	}

	plain, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if plain != "eyJhbGciOi.token" {
		t.Fatalf("expected original token, got %q", plain)
	}
}

func TestSealer_NonceVaries(t *testing.T) {
	s, _ := New("secret")
	a, _ := s.Seal("same")
	b, _ := s.Seal("same")
	if a == b {
		t.Fatalf("two seals of the same value must differ")
	}
}

func TestSealer_WrongKey(t *testing.T) {
	a, _ := New("secret-a")
	b, _ := New("secret-b")

	sealed, _ := a.Seal("token")
	if _, err := b.Open(sealed); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestSealer_Corrupt(t *testing.T) {
	s, _ := New("secret")
	for _, in := range []string{"", "not base64!", "c2hvcnQ"} {
		if _, err := s.Open(in); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("Open(%q): expected ErrCorrupt, got %v", in, err)
		}
	}
}

func TestNew_EmptySecret(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
}
