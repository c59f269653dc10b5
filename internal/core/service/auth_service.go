package service

import (
	"context"
	"time"

	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/ports"
)

// AuthService implements signup, login, and token-based identity lookup by
// orchestrating the user store, the password hasher, and the token manager.
// It holds no state of its own; every operation is a single request/response.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenManager
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenManager) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens}
}

var _ ports.AuthService = (*AuthService)(nil)

// Signup registers a new account. The email and username checks are advisory
// pre-checks for a friendlier error; the store's unique constraints remain
// the authoritative arbiter, so a concurrent signup racing past the
// pre-checks still surfaces as the same taken error.
func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	existing, err = s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: hash,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}

	// A concurrent signup can still hit the unique constraint here; the
	// repository maps that violation to the same taken errors, so a lost
	// race reads exactly like a failed pre-check.
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies the email/password pair and mints a bearer token with the
// username as subject. Unknown email and wrong password return the identical
// error so the response never reveals whether the email is registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return "", domain.ErrInvalidCredentials
	}

	return s.tokens.Issue(user.Username)
}

// WhoAmI resolves a bearer token to the user it identifies. An invalid or
// expired token and a valid token whose subject no longer exists are
// indistinguishable to the caller.
func (s *AuthService) WhoAmI(ctx context.Context, token string) (*domain.User, error) {
	subject, err := s.tokens.Validate(token)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}
