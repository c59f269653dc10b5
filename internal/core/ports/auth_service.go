package ports

import (
	"context"

	"github.com/accounthub/account-service/internal/core/domain"
)

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	WhoAmI(ctx context.Context, token string) (*domain.User, error)
}

// SignupInput is the single accepted signup shape. The request-parsing layer
// is responsible for producing it; the service performs no shape sniffing.
type SignupInput struct {
	Username string
	Email    string
	Password string
}
