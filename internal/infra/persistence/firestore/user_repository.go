// Package firestore implements the document-store repositories on Cloud
// Firestore, the database the marketplace frontend reads directly.
package firestore

import (
	"context"

	"niaga/config"
	"niaga/internal/domain/entity"
	"niaga/internal/domain/repository"
	infrafirebase "niaga/internal/infra/firebase"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

type userProfileRepository struct {
	client *firestore.Client
}

// NewClient creates the Firestore client shared by the repositories. It
// resolves credentials the same way the Admin SDK does, so reads and writes
// run under the identity that mints tokens.
func NewClient(ctx context.Context, cfg *config.Config) (*firestore.Client, error) {
	opt, err := infrafirebase.ResolveCredentials(cfg.Firebase)
	if err != nil {
		return nil, errors.Wrap(err, "resolve firebase credentials")
	}

	client, err := firestore.NewClient(ctx, cfg.Firebase.ProjectID, opt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create firestore client")
	}

	return client, nil
}

// NewUserProfileRepository creates the Firestore-backed profile repository.
func NewUserProfileRepository(client *firestore.Client) repository.UserProfileRepository {
	return &userProfileRepository{client: client}
}

// FindByID loads the profile document keyed by the local user id.
func (r *userProfileRepository) FindByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	snapshot, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, repository.ErrProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to get user profile")
	}

	var profile entity.UserProfile
	if err := snapshot.DataTo(&profile); err != nil {
		return nil, errors.Wrap(err, "failed to decode user profile")
	}
	profile.ID = snapshot.Ref.ID

	return &profile, nil
}

// Upsert merges the profile into its document. Empty fields are omitted so
// a login can never destructively blank out previously stored data.
func (r *userProfileRepository) Upsert(ctx context.Context, profile *entity.UserProfile) error {
	data := map[string]any{
		"emailVerified": profile.EmailVerified,
		"lastLogin":     profile.LastLogin,
	}

	setIfNotEmpty := func(key, value string) {
		if value != "" {
			data[key] = value
		}
	}
	setIfNotEmpty("email", profile.Email)
	setIfNotEmpty("firstName", profile.FirstName)
	setIfNotEmpty("lastName", profile.LastName)
	setIfNotEmpty("nik", profile.NIK)
	setIfNotEmpty("phone", profile.Phone)
	setIfNotEmpty("dob", profile.DateOfBirth)
	setIfNotEmpty("inapasId", profile.InapasID)
	setIfNotEmpty("accountType", profile.AccountType)

	if profile.InapasTokens != nil {
		data["inapas_tokens"] = tokenData(profile.InapasTokens)
	}

	if _, err := r.client.Collection(usersCollection).Doc(profile.ID).Set(ctx, data, firestore.MergeAll); err != nil {
		return errors.Wrap(err, "failed to upsert user profile")
	}

	return nil
}

// SaveTokens replaces only the embedded provider token set.
func (r *userProfileRepository) SaveTokens(ctx context.Context, id string, tokens *entity.TokenSet) error {
	data := map[string]any{
		"inapas_tokens": tokenData(tokens),
	}

	if _, err := r.client.Collection(usersCollection).Doc(id).Set(ctx, data, firestore.MergeAll); err != nil {
		return errors.Wrap(err, "failed to save token set")
	}

	return nil
}

func tokenData(tokens *entity.TokenSet) map[string]any {
	return map[string]any{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.ExpiresAt,
	}
}
