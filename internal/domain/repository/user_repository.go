// Package repository defines the persistence contracts the use cases depend on.
package repository

import (
	"context"

	"niaga/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrProfileNotFound is returned when no profile document exists for an id.
var ErrProfileNotFound = errors.New("user profile not found")

// UserProfileRepository persists UserProfile documents in the document store.
type UserProfileRepository interface {
	// FindByID loads the profile document for the given local user id.
	// Returns ErrProfileNotFound when the document does not exist.
	FindByID(ctx context.Context, id string) (*entity.UserProfile, error)

	// Upsert writes the profile with merge semantics: fields present in the
	// profile overwrite the stored document, fields absent are left intact.
	// The document is created when missing.
	Upsert(ctx context.Context, profile *entity.UserProfile) error

	// SaveTokens replaces only the embedded provider token set of an
	// existing profile document.
	SaveTokens(ctx context.Context, id string, tokens *entity.TokenSet) error
}
