// Package auth implements the two credential primitives the service is built
// on: bcrypt password hashing and HS256 bearer tokens.
package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher wraps bcrypt with a fixed work factor. The cost is the
// adaptive knob: raising it makes every hash and verify proportionally more
// expensive, which is the point.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using the given bcrypt cost.
// Costs outside bcrypt's supported range fall back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted bcrypt digest of plaintext. The salt is random per
// call, so digests for equal inputs differ and must never be compared
// directly.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. bcrypt treats a malformed
// digest as a compare error, which we fold into a plain mismatch.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
