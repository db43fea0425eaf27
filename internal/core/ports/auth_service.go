package ports

import (
	"context"

	"github.com/smallplatform/personnel-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// TokenService issues and verifies signed session tokens. Verify collapses
// every failure mode into domain.ErrInvalidToken.
type TokenService interface {
	Issue(subjectID, role string) (string, error)
	Verify(token string) (domain.Principal, error)
}
