package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/accounthub/account-service/internal/core/auth"
	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/ports"
)

// stubUserRepo is an in-memory ports.UserRepository. blindPrechecks makes
// every lookup miss, so signups race straight into Create the way two
// concurrent requests would at the storage layer.
type stubUserRepo struct {
	mu             sync.Mutex
	users          map[string]*domain.User
	nextID         int64
	blindPrechecks bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.blindPrechecks {
		return nil, nil
	}
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.blindPrechecks {
		return nil, nil
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.blindPrechecks {
		return nil, nil
	}
	return cloneUser(r.users[username]), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = r.nextID
	r.users[created.Username] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) Update(_ context.Context, params domain.UpdateUserParams) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == params.ID {
			if params.Email != nil {
				u.Email = *params.Email
			}
			if params.IsActive != nil {
				u.IsActive = *params.IsActive
			}
			now := time.Now().UTC()
			u.UpdatedAt = &now
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func newTestService(repo ports.UserRepository) *AuthService {
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager(auth.TokenConfig{Secret: []byte("test-secret"), TTL: time.Hour})
	return NewAuthService(repo, hasher, tokens)
}

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	user, err := svc.Signup(context.Background(), ports.SignupInput{
		Username: "alice", Email: "alice@x.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected store-assigned id")
	}
	if !user.IsActive {
		t.Fatalf("expected is_active true at creation")
	}
	if user.UpdatedAt != nil {
		t.Fatalf("expected updated_at unset at creation")
	}
	if user.HashedPassword == "secret123" {
		t.Fatalf("password stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("secret123")) != nil {
		t.Fatalf("stored hash does not verify against password")
	}
}

func TestAuthService_Signup_EmailTaken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if _, err := svc.Signup(context.Background(), ports.SignupInput{Username: "alice", Email: "alice@x.com", Password: "secret123"}); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	// Same email, different username.
	_, err := svc.Signup(context.Background(), ports.SignupInput{Username: "alice2", Email: "alice@x.com", Password: "secret123"})
	if err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Signup_UsernameTaken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if _, err := svc.Signup(context.Background(), ports.SignupInput{Username: "alice", Email: "alice@x.com", Password: "secret123"}); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, err := svc.Signup(context.Background(), ports.SignupInput{Username: "alice", Email: "other@x.com", Password: "secret123"})
	if err != domain.ErrUsernameTaken {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_, _ = svc.Signup(context.Background(), ports.SignupInput{Username: "alice", Email: "alice@x.com", Password: "secret123"})

	if _, err := svc.Login(context.Background(), "alice@x.com", "wrongpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	// Unknown email yields exactly the same error as a wrong password.
	if _, err := svc.Login(context.Background(), "ghost@x.com", "secret123"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_WhoAmI_RoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_, _ = svc.Signup(context.Background(), ports.SignupInput{Username: "alice", Email: "alice@x.com", Password: "secret123"})

	token, err := svc.Login(context.Background(), "alice@x.com", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	user, err := svc.WhoAmI(context.Background(), token)
	if err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if user.Username != "alice" || user.Email != "alice@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthService_WhoAmI_BadToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if _, err := svc.WhoAmI(context.Background(), "not-a-token"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_WhoAmI_UnknownSubject(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	// Valid token for a user the store has never seen.
	tokens := auth.NewTokenManager(auth.TokenConfig{Secret: []byte("test-secret"), TTL: time.Hour})
	token, err := tokens.Issue("ghost")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.WhoAmI(context.Background(), token); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Signup_ConcurrentSameUsername(t *testing.T) {
	repo := newStubUserRepo()
	repo.blindPrechecks = true // both requests sail past the pre-checks
	svc := newTestService(repo)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	emails := []string{"alice@x.com", "alice@y.com"}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Signup(context.Background(), ports.SignupInput{
				Username: "alice", Email: emails[i], Password: "secret123",
			})
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch err {
		case nil:
			ok++
		case domain.ErrUsernameTaken:
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflict != 1 {
		t.Fatalf("expected exactly one success and one conflict, got ok=%d conflict=%d", ok, conflict)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected a single record, got %d", len(repo.users))
	}
}
