// Package firebase wraps the Firebase Admin SDK for custom-token minting.
package firebase

import (
	"context"

	"niaga/config"
	domainerrors "niaga/internal/domain/errors"
	"niaga/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
)

type authService struct {
	client *auth.Client
}

// NewTokenMinter creates a Firebase-backed custom token minter.
func NewTokenMinter(ctx context.Context, cfg *config.Config) (service.TokenMinter, error) {
	opt, err := ResolveCredentials(cfg.Firebase)
	if err != nil {
		return nil, errors.Wrap(err, "resolve firebase credentials")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get auth client")
	}

	return &authService{client: client}, nil
}

// MintCustomToken issues a provider-signed custom token asserting the given
// uid. Federation implies verification, so emailVerified is always true.
func (s *authService) MintCustomToken(ctx context.Context, uid, email, displayName string) (string, error) {
	claims := map[string]any{
		"email":         email,
		"emailVerified": true,
	}
	if displayName != "" {
		claims["displayName"] = displayName
	}

	token, err := s.client.CustomTokenWithClaims(ctx, uid, claims)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrMintingFailed, err.Error())
	}

	return token, nil
}
