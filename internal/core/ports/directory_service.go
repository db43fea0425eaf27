package ports

import (
	"context"
	"time"

	"github.com/smallplatform/personnel-api/internal/core/domain"
)

// Overview is the role-dependent dashboard payload.
type Overview struct {
	// Admin view.
	TotalEmployees int64         `json:"total_employees,omitempty"`
	RecentLogins   []RecentLogin `json:"recent_logins,omitempty"`
	// Employee view.
	Profile        *domain.User `json:"profile,omitempty"`
	WelcomeMessage string       `json:"welcome_message,omitempty"`
}

// RecentLogin is one entry of the admin dashboard's latest-logins feed.
type RecentLogin struct {
	UserID string    `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	At     time.Time `json:"at"`
}

// ReportRow is one line of the admin report listing.
type ReportRow struct {
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// DirectoryUpdate carries the fields a profile update request may change.
// Password, when non-empty, is the new plaintext and is hashed by the service.
type DirectoryUpdate struct {
	Name     string
	Email    string
	Role     string
	Password string
}

type DirectoryService interface {
	Overview(ctx context.Context, p domain.Principal) (*Overview, error)
	Report(ctx context.Context, p domain.Principal) ([]ReportRow, error)
	List(ctx context.Context, p domain.Principal, roleFilter string) ([]*domain.User, error)
	Get(ctx context.Context, p domain.Principal, id string) (*domain.User, error)
	Update(ctx context.Context, p domain.Principal, id string, update DirectoryUpdate) (*domain.User, error)
}
