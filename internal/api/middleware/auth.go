package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smallplatform/personnel-api/internal/api/metrics"
	"github.com/smallplatform/personnel-api/internal/core/domain"
	"github.com/smallplatform/personnel-api/internal/core/ports"
)

// PrincipalKey is the echo context key under which Auth stores the verified
// principal for downstream handlers.
const PrincipalKey = "principal"

// Auth validates the bearer token and injects the principal into the request
// context. Only the Authorization header is honoured; a missing credential is
// a denial, never an empty principal.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return domain.ErrNoToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return domain.ErrNoToken
			}

			principal, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return domain.ErrInvalidToken
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(PrincipalKey, principal)
			return next(c)
		}
	}
}
