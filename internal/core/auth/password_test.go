package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	digest, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if digest == "secret123" {
		t.Fatalf("digest equals plaintext")
	}
	if !h.Verify("secret123", digest) {
		t.Fatalf("Verify failed for correct password")
	}
	if h.Verify("secret124", digest) {
		t.Fatalf("Verify succeeded for altered password")
	}
}

func TestPasswordHasher_SaltIsRandom(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	a, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	b, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same input are identical")
	}
	if !h.Verify("secret123", a) || !h.Verify("secret123", b) {
		t.Fatalf("both digests should verify")
	}
}

func TestPasswordHasher_MalformedDigest(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	for _, digest := range []string{"", "not-a-bcrypt-digest", "$2a$xx$garbage"} {
		if h.Verify("secret123", digest) {
			t.Fatalf("Verify succeeded for malformed digest %q", digest)
		}
	}
}

func TestNewPasswordHasher_CostFallback(t *testing.T) {
	h := NewPasswordHasher(-1)
	if h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}

	h = NewPasswordHasher(bcrypt.MaxCost + 1)
	if h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}
