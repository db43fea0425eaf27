package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/smallplatform/personnel-api/internal/core/domain"
)

// RBAC enforces role-based access control. A request without a principal is
// always denied, never defaulted through.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(PrincipalKey).(domain.Principal)
			if !ok {
				return domain.ErrNoToken
			}
			if _, ok := allowed[principal.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// SelfOrAdmin allows the request through when the principal is an admin or
// owns the record named by the :id path parameter. The check runs before the
// handler, so a denial has no side effects.
func SelfOrAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(PrincipalKey).(domain.Principal)
			if !ok {
				return domain.ErrNoToken
			}
			if !principal.CanAccess(c.Param("id")) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
