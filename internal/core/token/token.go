// Package token issues and verifies the signed session tokens that carry a
// principal between requests. Tokens are HS256 JWTs holding the subject id,
// the role at issuance and a fixed expiry; there is no server-side revocation,
// so a role change only takes effect once the old token expires and the user
// logs in again.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/smallplatform/personnel-api/internal/core/domain"
)

const defaultTTL = time.Hour

// Claims is the signed claim set embedded in every session token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens with a process-wide secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

// NewService creates a token Service. If ttl <= 0, defaultTTL is used.
func NewService(secret string, ttl time.Duration, log zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		log:    log,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Issue creates a signed token for the given subject and role.
func (s *Service) Issue(subjectID, role string) (string, error) {
	issued := s.now().UTC()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify validates raw and returns the principal it encodes. Malformed,
// tampered and expired tokens all yield domain.ErrInvalidToken; the
// underlying cause is logged at debug level only.
func (s *Service) Verify(raw string) (domain.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		s.log.Debug().Err(err).Msg("token verification failed")
		return domain.Principal{}, domain.ErrInvalidToken
	}
	if claims.Subject == "" || !domain.ValidRole(claims.Role) {
		s.log.Debug().Msg("token carries incomplete claims")
		return domain.Principal{}, domain.ErrInvalidToken
	}
	return domain.Principal{ID: claims.Subject, Role: claims.Role}, nil
}
