package ports

import (
	"context"
	"time"

	"github.com/smallplatform/personnel-api/internal/core/domain"
)

// ProfileUpdate carries the mutable fields of a user record. Empty fields are
// left unchanged; PasswordHash, when set, must already be hashed.
type ProfileUpdate struct {
	Name         string
	Email        string
	Role         string
	PasswordHash string
}

// UserRepository defines the persistence interface for user records.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
	List(ctx context.Context, roleFilter string) ([]*domain.User, error)
	RecentLogins(ctx context.Context, limit int) ([]*domain.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}
