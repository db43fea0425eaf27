package domain

import "errors"

var (
	// ErrInvalidInput covers missing or malformed request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBadCredentials is returned for a wrong password and for an unknown
	// email alike, so a caller cannot probe which addresses are registered.
	ErrBadCredentials = errors.New("invalid credentials")

	// ErrNoToken means the request carried no bearer credential at all.
	ErrNoToken = errors.New("no token provided")

	// ErrInvalidToken covers malformed, tampered and expired tokens. The
	// cases are deliberately indistinguishable to the caller.
	ErrInvalidToken = errors.New("invalid token")

	// ErrForbidden means the principal is authenticated but not allowed.
	ErrForbidden = errors.New("access forbidden")

	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")

	// ErrStoreUnavailable signals a transient store failure; safe to retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)
