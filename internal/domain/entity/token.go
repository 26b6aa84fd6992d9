package entity

import "time"

// RefreshWindow is the safety margin inside which an access token is
// refreshed proactively instead of being returned as-is.
const RefreshWindow = 5 * time.Minute

// TokenSet holds the provider-issued token material for one user.
// AccessToken and RefreshToken are opaque strings; IDToken is transient and
// never persisted. ExpiresAt is an absolute Unix-millisecond instant. The
// token strings are secrets and excluded from JSON marshalling.
type TokenSet struct {
	AccessToken  string `firestore:"access_token" json:"-"`
	RefreshToken string `firestore:"refresh_token" json:"-"`
	IDToken      string `firestore:"-" json:"-"`
	ExpiresAt    int64  `firestore:"expires_at" json:"expires_at"`
}

// ExpiresWithin reports whether the access token expires inside the given
// window measured from now.
func (t *TokenSet) ExpiresWithin(now time.Time, window time.Duration) bool {
	return t.ExpiresAt-now.UnixMilli() < window.Milliseconds()
}
