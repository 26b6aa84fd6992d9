// Package service defines the domain service contracts implemented by the
// infrastructure layer.
package service

import (
	"context"

	"niaga/internal/domain/entity"
)

// Identity is the verified claim set recovered from the encrypted payload of
// an INAPAS ID token. It is transient: used exactly once to construct or
// update a UserProfile.
type Identity struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	NIK         string `json:"nik"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dob"`
	InapasID    string `json:"inapas_id"`
}

// IdentityProvider is the relying-party contract for the INAPAS
// OpenID-Connect flow: authorization URL construction with PKCE, single-use
// attempt consumption, token exchange with private-key-JWT client
// authentication, and decryption of the embedded identity payload.
type IdentityProvider interface {
	// BuildAuthorizationURL generates a fresh state and PKCE pair, records
	// them as the pending login attempt (replacing any earlier one), and
	// returns the full authorization URL to redirect the browser to.
	BuildAuthorizationURL() (string, error)

	// ConsumeAttempt validates the callback state against the pending
	// attempt and returns its code verifier. The pending attempt is cleared
	// unconditionally, regardless of outcome.
	ConsumeAttempt(state string) (codeVerifier string, err error)

	// ExchangeCode exchanges an authorization code for a token set.
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*entity.TokenSet, error)

	// Refresh exchanges a refresh token for a new token set.
	Refresh(ctx context.Context, refreshToken string) (*entity.TokenSet, error)

	// DecryptIdentity extracts and decrypts the encrypted claim payload
	// embedded in the provider's ID token.
	DecryptIdentity(idToken string) (*Identity, error)

	// Provider returns the identity provider type.
	Provider() entity.ProviderType
}
