package service

import "context"

// TokenMinter issues short-lived custom session tokens binding a local user
// id to verified email and display-name claims. The frontend exchanges the
// minted token for a live session with the auth provider.
type TokenMinter interface {
	MintCustomToken(ctx context.Context, uid, email, displayName string) (string, error)
}
