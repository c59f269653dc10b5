package domain

import "errors"

var ErrEmailTaken = errors.New("email already registered")
var ErrUsernameTaken = errors.New("username already taken")

// ErrInvalidCredentials covers every authentication failure: unknown email,
// wrong password, bad or expired token, unknown token subject. Callers get
// one uniform error so the response never reveals which check failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

var ErrLoginThrottled = errors.New("too many login attempts")
