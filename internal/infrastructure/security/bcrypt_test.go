package security

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("securepassword")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if digest == "securepassword" || !strings.HasPrefix(digest, "$2") {
		t.Fatalf("expected a bcrypt digest, got %q", digest)
	}
	if !h.Verify("securepassword", digest) {
		t.Fatalf("expected password to verify")
	}
	if h.Verify("securepassword1", digest) {
		t.Fatalf("expected wrong password to fail")
	}
	if h.Verify("securepassword", "not-a-digest") {
		t.Fatalf("expected malformed digest to fail")
	}
}

func TestBcryptHasher_Salted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected distinct digests for the same password")
	}
}

func TestNewBcryptHasher_FallsBackToDefaultCost(t *testing.T) {
	h := NewBcryptHasher(0)
	if h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}
