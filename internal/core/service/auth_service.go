package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smallplatform/personnel-api/internal/core/domain"
	"github.com/smallplatform/personnel-api/internal/core/ports"
)

// AuthService implements registration and login. Successful logins stamp the
// user's last-login timestamp and hand a login event to the publisher; both
// are best-effort telemetry and never fail the login itself.
type AuthService struct {
	repo    ports.UserRepository
	hasher  *PasswordHasher
	tokens  ports.TokenService
	publish func(ports.LoginEvent)
	now     func() time.Time
	logger  zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, hasher *PasswordHasher, tokens ports.TokenService, publish func(ports.LoginEvent), logger zerolog.Logger) *AuthService {
	if publish == nil {
		publish = func(ports.LoginEvent) {}
	}
	return &AuthService{
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		publish: publish,
		now:     time.Now,
		logger:  logger,
	}
}

// NormalizeEmail is the single email case policy: addresses are trimmed and
// lower-cased before storage and before every lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" || role == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created.Sanitized(), nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidInput
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// An unknown email reads exactly like a wrong password.
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrBadCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, domain.ErrBadCredentials
	}

	tok, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	at := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, at); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("last-login update failed")
	} else {
		user.LastLoginAt = &at
	}

	s.publish(ports.LoginEvent{UserID: user.ID, Name: user.Name, Email: user.Email, At: at})

	return tok, user.Sanitized(), nil
}
