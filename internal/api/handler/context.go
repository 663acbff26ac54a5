package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/enrollment-pipeline/internal/api/middleware"
)

// ctxClaims extracts the caller identity injected by the Auth middleware.
// An empty role means the middleware did not run.
func ctxClaims(c echo.Context) (subject, role string, err error) {
	role, _ = c.Get(middleware.ContextRole).(string)
	subject, _ = c.Get(middleware.ContextSubject).(string)
	if role == "" || subject == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return subject, role, nil
}
