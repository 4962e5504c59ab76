package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPair is the credential pair issued by the token endpoint.
// Access is short-lived and attached to every authenticated request;
// Refresh is long-lived and exchanged for a new access token on expiry.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Session is the client-side view of an authenticated session: the token
// pair plus the access token's expiry horizon.
type Session struct {
	TokenPair

	// ExpiresAt is the access token's "exp" claim, or the zero time if the
	// claim is absent or unreadable. Informational only: expiry is always
	// discovered authoritatively via a 401 from the server.
	ExpiresAt time.Time
}

// NewSession builds a Session from a token pair, extracting the expiry
// horizon from the access token's claims without verifying the signature.
// The client has no signing key; verification is the server's job.
func NewSession(pair TokenPair) Session {
	s := Session{TokenPair: pair}

	token, _, err := jwt.NewParser().ParseUnverified(pair.Access, jwt.MapClaims{})
	if err != nil {
		return s
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return s
	}

	s.ExpiresAt = exp.Time
	return s
}
