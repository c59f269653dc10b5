package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxBearerToken extracts the raw bearer token injected by the Auth
// middleware. An empty value means the middleware did not run for this
// route, which is a wiring mistake surfaced as 401 rather than a panic.
func ctxBearerToken(c echo.Context) (string, error) {
	token, _ := c.Get("token").(string)
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return token, nil
}
