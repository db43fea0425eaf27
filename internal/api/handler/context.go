package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smallplatform/personnel-api/internal/api/middleware"
	"github.com/smallplatform/personnel-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware and
// fast-fails before any service call: a missing or incomplete principal means
// the middleware did not run, which is always a denial.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	principal, ok := c.Get(middleware.PrincipalKey).(domain.Principal)
	if !ok || principal.ID == "" || principal.Role == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return principal, nil
}
