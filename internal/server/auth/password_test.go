package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewPasswordHasher: %v", err)
	}
	return h
}

func TestPasswordHasher_HashAndCompare(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("Password123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "Password123" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
	if !h.Compare(hash, "Password123") {
		t.Fatalf("expected match")
	}
	if h.Compare(hash, "password123") {
		t.Fatalf("expected mismatch")
	}
	if h.Compare("not-a-hash", "Password123") {
		t.Fatalf("malformed hash must not match")
	}

	other, _ := h.Hash("Password123")
	if other == hash {
		t.Fatalf("hashes must be salted")
	}

	h.CompareDummy("anything")
}

func TestPasswordHasher_TooLong(t *testing.T) {
	h := newTestHasher(t)
	if _, err := h.Hash(strings.Repeat("x", MaxPasswordBytes+1)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}
