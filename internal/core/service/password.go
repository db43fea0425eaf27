package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/smallplatform/personnel-api/internal/core/domain"
)

// PasswordHasher wraps bcrypt with a fixed work factor. Verification is
// bcrypt's own constant-time compare, so mismatch position never leaks
// through timing.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. Costs
// outside bcrypt's supported range fall back to the library default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash produces a salted one-way hash of plaintext. A hashing failure is
// always surfaced; it never degrades into an empty or fixed hash.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext reproduces hashed.
func (h *PasswordHasher) Verify(plaintext, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
