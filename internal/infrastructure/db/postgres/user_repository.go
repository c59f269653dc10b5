package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/ports"
)

// UserRepository is the PostgreSQL-backed user store.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, username, email, hashed_password, is_active, created_at, updated_at"

const (
	sqlInsertUser = `
		INSERT INTO users (username, email, hashed_password, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	sqlFindUserByID = `
		SELECT ` + userColumns + `
		FROM   users
		WHERE  id = $1`

	sqlFindUserByEmail = `
		SELECT ` + userColumns + `
		FROM   users
		WHERE  email = $1`

	sqlFindUserByUsername = `
		SELECT ` + userColumns + `
		FROM   users
		WHERE  username = $1`
)

// Create inserts a new record and returns it with the store-assigned id.
// created_at is set exactly once here; updated_at stays NULL until the first
// mutation. Unique violations map to the domain taken errors.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	created := *user
	err := r.db.QueryRowContext(ctx, sqlInsertUser,
		user.Username, user.Email, user.HashedPassword, user.IsActive, user.CreatedAt).Scan(&created.ID)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

// FindByID returns the user with the given id, or nil when absent.
// Non-positive ids cannot exist and short-circuit without a query.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, nil
	}
	return r.findOne(ctx, sqlFindUserByID, id)
}

// FindByEmail returns the user with the given email, or nil when absent.
// Matching is case-sensitive exact equality.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, sqlFindUserByEmail, email)
}

// FindByUsername returns the user with the given username, or nil when absent.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, sqlFindUserByUsername, username)
}

// Update applies a partial update, stamping updated_at and leaving created_at
// untouched. With no fields set it degenerates to a lookup.
func (r *UserRepository) Update(ctx context.Context, params domain.UpdateUserParams) (*domain.User, error) {
	setClauses := make([]string, 0, 4)
	args := make([]any, 0, 5)
	argIdx := 1

	if params.Username != nil {
		setClauses = append(setClauses, fmt.Sprintf("username = $%d", argIdx))
		args = append(args, *params.Username)
		argIdx++
	}
	if params.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *params.Email)
		argIdx++
	}
	if params.IsActive != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *params.IsActive)
		argIdx++
	}
	if len(setClauses) == 0 {
		return r.FindByID(ctx, params.ID)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	args = append(args, params.ID)

	query := fmt.Sprintf(`
		UPDATE users
		SET    %s
		WHERE  id = $%d
		RETURNING `+userColumns,
		strings.Join(setClauses, ", "), argIdx)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// scanUser centralises column mapping so a schema change only touches one
// place. updated_at is nullable and surfaces as a *time.Time.
func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var updatedAt sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.IsActive, &u.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		u.UpdatedAt = &t
	}
	return &u, nil
}

// mapUniqueViolation translates a SQLSTATE 23505 into the domain error for
// the violated constraint, or returns nil for any other error.
// PostgreSQL SQLSTATE codes: https://www.postgresql.org/docs/current/errcodes-appendix.html
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return domain.ErrEmailTaken
	case strings.Contains(pgErr.ConstraintName, "username"):
		return domain.ErrUsernameTaken
	default:
		return domain.ErrUsernameTaken
	}
}

var _ ports.UserRepository = (*UserRepository)(nil)
