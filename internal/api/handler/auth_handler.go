package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/accounthub/account-service/internal/api/metrics"
	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	throttle    ports.LoginThrottle // nil disables throttling
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, throttle ports.LoginThrottle, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, throttle: throttle, log: log}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// userResponse is the external user view. The hashed password has no field
// here at all, so it cannot appear in output even by serialization accident.
type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// Signup creates a new user account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	defer trackDuration("signup")()

	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(signupResult(err)).Inc()
		return err
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, newUserResponse(user))
}

// Login authenticates by email/password and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	defer trackDuration("login")()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	if h.throttle != nil {
		allowed, err := h.throttle.Allow(ctx, req.Email)
		if err != nil {
			// Fail open: the throttle is a brake, not a gate.
			h.log.Warn().Err(err).Msg("login throttle unavailable")
		} else if !allowed {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return domain.ErrLoginThrottled
		}
	}

	token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			if h.throttle != nil {
				if terr := h.throttle.RecordFailure(ctx, req.Email); terr != nil {
					h.log.Warn().Err(terr).Msg("login throttle record failed")
				}
			}
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	if h.throttle != nil {
		if terr := h.throttle.Reset(ctx, req.Email); terr != nil {
			h.log.Warn().Err(terr).Msg("login throttle reset failed")
		}
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me returns the account identified by the bearer token.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	defer trackDuration("me")()

	token, err := ctxBearerToken(c)
	if err != nil {
		return err
	}

	user, err := h.authService.WhoAmI(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

func signupResult(err error) string {
	if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrUsernameTaken) {
		return "conflict"
	}
	return "error"
}

func trackDuration(route string) func() {
	start := time.Now()
	return func() {
		metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
