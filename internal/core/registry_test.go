package core

import (
	"strings"
	"testing"
)

func TestRegistryAssignAndRelease(t *testing.T) {
	r := NewRegistry()
	a := NewClient("a", 0)
	b := NewClient("b", 0)

	if err := r.Assign(a, "  mina  "); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if nick, ok := r.Lookup(a); !ok || nick != "mina" {
		t.Fatalf("expected trimmed nickname mina, got %q (%v)", nick, ok)
	}

	if err := r.Assign(b, "MINA"); err == nil || err.Code != ErrCodeNicknameTaken {
		t.Fatalf("expected case-insensitive conflict, got %+v", err)
	}

	if err := r.Assign(a, "other"); err == nil || err.Code != ErrCodeNicknameSet {
		t.Fatalf("expected immutability error, got %+v", err)
	}

	r.Release(a)
	r.Release(a) // idempotent
	if _, ok := r.Lookup(a); ok {
		t.Fatal("lookup succeeded after release")
	}
	if err := r.Assign(b, "MINA"); err != nil {
		t.Fatalf("released nickname not reusable: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 binding, got %d", r.Len())
	}
}

func TestRegistryLengthBounds(t *testing.T) {
	r := NewRegistry()
	c := NewClient("c", 0)

	if err := r.Assign(c, " x "); err == nil || err.Code != ErrCodeNicknameTooShort {
		t.Fatalf("expected nickname_too_short, got %+v", err)
	}
	if err := r.Assign(c, strings.Repeat("한", 21)); err == nil || err.Code != ErrCodeNicknameTooLong {
		t.Fatalf("expected nickname_too_long, got %+v", err)
	}
	// 20 runes exactly is accepted, multibyte included.
	if err := r.Assign(c, strings.Repeat("한", 20)); err != nil {
		t.Fatalf("20-rune nickname rejected: %v", err)
	}
}
