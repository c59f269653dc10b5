package ports

import "context"

// LoginThrottle limits failed login attempts per account. Implementations
// are advisory: an infrastructure failure should degrade to allowing the
// attempt, never to locking accounts out.
type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
