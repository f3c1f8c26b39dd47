// Package authtokens declares the server-side repository contract for the
// per-user session tokens.
package authtokens

import (
	"context"

	"github.com/dmitrijs2005/profiles/internal/server/models"
)

// Repository defines operations for storing, resolving and revoking tokens.
// A user owns at most one row; the storage enforces it with a unique index.
type Repository interface {
	// Create stores token and fills in IssuedAt.
	Create(ctx context.Context, token *models.AuthToken) error

	// Find looks up a token by its key. It returns common.ErrorNotFound when
	// the key is unknown.
	Find(ctx context.Context, key string) (*models.AuthToken, error)

	// DeleteByUser removes the token of userID, if any. Deleting a
	// non-existent token is not an error.
	DeleteByUser(ctx context.Context, userID string) error
}
