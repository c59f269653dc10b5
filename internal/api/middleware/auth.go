package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/account-service/internal/api/metrics"
	"github.com/accounthub/account-service/internal/core/ports"
)

// Auth validates the bearer token and injects the subject and the raw token
// into the request context. Missing header, malformed header, and invalid or
// expired tokens all answer 401 with the same message.
func Auth(tokens ports.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
			}

			subject, err := tokens.Validate(parts[1])
			if err != nil {
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
			}
			metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()

			c.Set("username", subject)
			c.Set("token", parts[1])

			return next(c)
		}
	}
}
