package session

import "errors"

var (
	// ErrInvalidCredentials indicates the token endpoint rejected the
	// username/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAuthenticated indicates an operation that needs an active
	// session was called without one.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired indicates the access token was rejected and could
	// not be refreshed. The local session has already been cleared when
	// this error is returned; the caller must re-authenticate.
	ErrSessionExpired = errors.New("session expired")
)
