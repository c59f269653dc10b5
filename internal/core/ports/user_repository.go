package ports

import (
	"context"

	"github.com/accounthub/account-service/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
//
// Lookups return (nil, nil) when no record matches — absence is a normal
// result, not an error. Create and Update surface unique-constraint
// violations as domain.ErrUsernameTaken / domain.ErrEmailTaken; the store
// constraint, not any caller-side pre-check, is the source of truth.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, params domain.UpdateUserParams) (*domain.User, error)
}
