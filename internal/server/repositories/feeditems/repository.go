// Package feeditems declares the repository contract for user status updates.
package feeditems

import (
	"context"

	"github.com/dmitrijs2005/profiles/internal/server/models"
)

type Repository interface {
	// Create stores item and fills in CreatedAt.
	Create(ctx context.Context, item *models.FeedItem) (*models.FeedItem, error)
	Get(ctx context.Context, id string) (*models.FeedItem, error)
	// GetForUpdate is Get with a row lock held until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id string) (*models.FeedItem, error)
	// List returns items newest first. An empty ownerID lists every owner.
	List(ctx context.Context, ownerID string) ([]*models.FeedItem, error)
	UpdateStatus(ctx context.Context, id string, statusText string) error
	Delete(ctx context.Context, id string) error
}
