package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every token validation failure: bad
// signature, wrong algorithm, malformed payload, missing subject, expiry in
// the past. Collapsing the failure modes keeps callers from leaking which
// check rejected the token.
var ErrInvalidToken = errors.New("invalid token")

const defaultTokenTTL = 30 * time.Minute

// TokenConfig carries the signing material for the token manager. The secret
// comes from deployment configuration; it is never a compiled-in literal.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// TokenManager issues and validates HS256-signed bearer tokens whose payload
// is the subject identity plus an absolute expiry. Tokens are stateless and
// self-contained: there is no revocation list, so an issued token stays valid
// until it expires unless the secret is rotated (which invalidates all
// outstanding tokens at once).
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(cfg TokenConfig) *TokenManager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenManager{secret: cfg.Secret, ttl: ttl}
}

// Issue signs a token for subject using the configured TTL.
func (m *TokenManager) Issue(subject string) (string, error) {
	return m.IssueFor(subject, m.ttl)
}

// IssueFor signs a token for subject with an explicit validity duration.
// The signature covers both claims, so tampering with either invalidates
// the token.
func (m *TokenManager) IssueFor(subject string, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Validate verifies signature and expiry and returns the embedded subject.
func (m *TokenManager) Validate(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
