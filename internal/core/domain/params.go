package domain

// UpdateUserParams describes a partial update. Only non-nil fields are
// written; the store stamps updated_at on every applied update and never
// touches created_at.
type UpdateUserParams struct {
	ID       int64
	Username *string
	Email    *string
	IsActive *bool
}
