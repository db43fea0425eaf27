package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/smallplatform/personnel-api/internal/core/domain"
	"github.com/smallplatform/personnel-api/internal/core/ports"
)

const recentLoginLimit = 5

// DirectoryService serves the dashboard, the admin report and roster
// management. Every entry point checks the caller's principal before touching
// the store; a denial never leaves a partial side effect.
type DirectoryService struct {
	repo   ports.UserRepository
	feed   ports.LoginFeed
	hasher *PasswordHasher
	logger zerolog.Logger
}

func NewDirectoryService(repo ports.UserRepository, feed ports.LoginFeed, hasher *PasswordHasher, logger zerolog.Logger) *DirectoryService {
	return &DirectoryService{repo: repo, feed: feed, hasher: hasher, logger: logger}
}

// Overview returns the role-dependent dashboard payload: roster stats and the
// latest logins for admins, the caller's own profile for employees.
func (s *DirectoryService) Overview(ctx context.Context, p domain.Principal) (*ports.Overview, error) {
	switch p.Role {
	case domain.RoleAdmin:
		total, err := s.repo.CountByRole(ctx, domain.RoleEmployee)
		if err != nil {
			return nil, err
		}
		recent, err := s.recentLogins(ctx)
		if err != nil {
			return nil, err
		}
		return &ports.Overview{TotalEmployees: total, RecentLogins: recent}, nil
	case domain.RoleEmployee:
		user, err := s.repo.FindByID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		return &ports.Overview{
			Profile:        user.Sanitized(),
			WelcomeMessage: fmt.Sprintf("Welcome back, %s!", user.Name),
		}, nil
	default:
		return nil, domain.ErrForbidden
	}
}

// recentLogins reads the Redis feed and falls back to the store when the feed
// is empty or unavailable.
func (s *DirectoryService) recentLogins(ctx context.Context) ([]ports.RecentLogin, error) {
	if s.feed != nil {
		recent, err := s.feed.Latest(ctx, recentLoginLimit)
		if err == nil && len(recent) > 0 {
			return recent, nil
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("login feed unavailable, falling back to store")
		}
	}

	users, err := s.repo.RecentLogins(ctx, recentLoginLimit)
	if err != nil {
		return nil, err
	}
	recent := make([]ports.RecentLogin, 0, len(users))
	for _, u := range users {
		if u.LastLoginAt == nil {
			continue
		}
		recent = append(recent, ports.RecentLogin{
			UserID: u.ID,
			Name:   u.Name,
			Email:  u.Email,
			At:     *u.LastLoginAt,
		})
	}
	return recent, nil
}

// Report lists name, role and last login for every account. Admin only; the
// password hash never appears in a row.
func (s *DirectoryService) Report(ctx context.Context, p domain.Principal) ([]ports.ReportRow, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	users, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	rows := make([]ports.ReportRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, ports.ReportRow{Name: u.Name, Role: u.Role, LastLoginAt: u.LastLoginAt})
	}
	return rows, nil
}

// List returns the roster, optionally filtered by role. Admin only.
func (s *DirectoryService) List(ctx context.Context, p domain.Principal, roleFilter string) ([]*domain.User, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if roleFilter != "" && !domain.ValidRole(roleFilter) {
		return nil, domain.ErrInvalidInput
	}
	users, err := s.repo.List(ctx, roleFilter)
	if err != nil {
		return nil, err
	}
	for i, u := range users {
		users[i] = u.Sanitized()
	}
	return users, nil
}

// Get returns a single user record. Self or admin.
func (s *DirectoryService) Get(ctx context.Context, p domain.Principal, id string) (*domain.User, error) {
	if !p.CanAccess(id) {
		return nil, domain.ErrForbidden
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// Update modifies a user record. Self or admin; only admins may touch the
// role field, so a user editing their own profile cannot escalate.
func (s *DirectoryService) Update(ctx context.Context, p domain.Principal, id string, update ports.DirectoryUpdate) (*domain.User, error) {
	if !p.CanAccess(id) {
		return nil, domain.ErrForbidden
	}
	if update.Role != "" {
		if !domain.ValidRole(update.Role) {
			return nil, domain.ErrInvalidInput
		}
		if !p.IsAdmin() {
			return nil, domain.ErrForbidden
		}
	}

	profile := ports.ProfileUpdate{
		Name:  update.Name,
		Email: NormalizeEmail(update.Email),
		Role:  update.Role,
	}
	if update.Password != "" {
		hash, err := s.hasher.Hash(update.Password)
		if err != nil {
			return nil, err
		}
		profile.PasswordHash = hash
	}

	updated, err := s.repo.UpdateProfile(ctx, id, profile)
	if err != nil {
		return nil, err
	}
	return updated.Sanitized(), nil
}
