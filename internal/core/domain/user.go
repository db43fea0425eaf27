package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}

// User models an account in the personnel directory.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Sanitized returns a copy safe to embed in API responses. The password hash
// is already excluded from JSON; clearing it outright means a sanitized user
// cannot leak the hash through any other encoding either.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
