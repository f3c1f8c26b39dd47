// Package users declares the storage contract for user records and its
// PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/profiles/internal/server/models"
)

// Repository persists users. Lookups return common.ErrorNotFound on a miss;
// writes that collide on the email index return common.ErrDuplicateIdentity.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByIDForUpdate reads the user and locks its row until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*models.User, error)

	// Update writes every mutable column of user and refreshes UpdatedAt.
	Update(ctx context.Context, user *models.User) error

	List(ctx context.Context) ([]*models.User, error)
}
