// Package usecase defines the application-level contracts between the
// delivery layer and the business logic implementations.
package usecase

import (
	"context"

	"niaga/internal/domain/entity"
)

// BeginLoginOutput carries the authorization URL the browser must visit.
type BeginLoginOutput struct {
	AuthURL string `json:"auth_url"`
}

// CallbackInput is the authorization-code callback from the provider.
type CallbackInput struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// CallbackOutput is the result of a completed federated login: the minted
// custom session token the frontend exchanges for a live session, plus the
// upserted profile.
type CallbackOutput struct {
	CustomToken string              `json:"custom_token"`
	User        *entity.UserProfile `json:"user"`
	NewUser     bool                `json:"new_user"`
}

// IdentityUsecase orchestrates the INAPAS federated login flow and the
// token lifecycle of established sessions.
type IdentityUsecase interface {
	// BeginLogin starts a fresh login attempt and returns the provider
	// authorization URL. Any earlier pending attempt is invalidated.
	BeginLogin(ctx context.Context) (*BeginLoginOutput, error)

	// HandleCallback processes the authorization-code callback end to end:
	// state validation, code exchange, identity decryption, custom-token
	// minting and profile upsert. Any failing step aborts the whole
	// callback; no partial profile is persisted.
	HandleCallback(ctx context.Context, input *CallbackInput) (*CallbackOutput, error)

	// GetValidAccessToken returns a provider access token for the user,
	// refreshing it first when it expires within the safety window.
	GetValidAccessToken(ctx context.Context, userID string) (string, error)
}
