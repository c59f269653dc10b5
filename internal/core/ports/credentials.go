package ports

import "time"

// PasswordHasher produces and checks salted adaptive password digests.
type PasswordHasher interface {
	// Hash returns a one-way digest with a fresh random salt; two calls with
	// the same plaintext yield different digests.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A malformed digest is
	// a mismatch, never a failure.
	Verify(plaintext, digest string) bool
}

// TokenManager mints and validates self-contained bearer tokens.
type TokenManager interface {
	// Issue signs a token for subject expiring after the configured TTL.
	Issue(subject string) (string, error)
	// IssueFor signs a token with an explicit validity duration.
	IssueFor(subject string, ttl time.Duration) (string, error)
	// Validate returns the subject of a well-formed, correctly signed,
	// unexpired token. Every failure mode yields the same error.
	Validate(token string) (string, error)
}
