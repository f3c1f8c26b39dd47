package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/dbx"
	"github.com/dmitrijs2005/profiles/internal/logging"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"github.com/dmitrijs2005/profiles/internal/server/permissions"
	"github.com/dmitrijs2005/profiles/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// FeedInput is a feed item as submitted by a client. OwnerID is accepted
// for compatibility and ignored: the owner is always the requester.
type FeedInput struct {
	StatusText string
	OwnerID    string
}

// FeedService manages status updates. Every operation is authorized against
// the requester with the permissions package.
type FeedService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewFeedService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *FeedService {
	return &FeedService{
		db:          db,
		repomanager: m,
		log:         log.With("component", "feed"),
	}
}

func (s *FeedService) Create(ctx context.Context, requester *models.User, in FeedInput) (*models.FeedItem, error) {
	if requester == nil {
		return nil, common.ErrPermissionDenied
	}
	text, err := checkStatusText(in.StatusText)
	if err != nil {
		return nil, err
	}
	if err := permissions.Check(requester, permissions.OpCreate, permissions.NewFeedItem(requester.ID)); err != nil {
		return nil, err
	}

	item := &models.FeedItem{
		ID:         uuid.NewString(),
		OwnerID:    requester.ID,
		StatusText: text,
	}
	item, err = s.repomanager.FeedItems(s.db).Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("error creating feed item: %w", err)
	}

	s.log.Debug(ctx, "feed item created", "user_id", requester.ID, "item_id", item.ID)
	return item, nil
}

func (s *FeedService) Get(ctx context.Context, requester *models.User, id string) (*models.FeedItem, error) {
	if err := permissions.Check(requester, permissions.OpRetrieve, permissions.Resource{Kind: permissions.KindFeedItem, ID: id}); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.FeedItems(s.db).Get(ctx, id)
}

// List returns feed items newest first, restricted to ownerID unless it is empty.
func (s *FeedService) List(ctx context.Context, requester *models.User, ownerID string) ([]*models.FeedItem, error) {
	if err := permissions.Check(requester, permissions.OpList, permissions.NewFeedItem(ownerID)); err != nil {
		return nil, err
	}
	if ownerID != "" && !validID(ownerID) {
		return nil, nil
	}
	return s.repomanager.FeedItems(s.db).List(ctx, ownerID)
}

// Update replaces the status text. Only the owner may do it.
func (s *FeedService) Update(ctx context.Context, requester *models.User, id, statusText string) (*models.FeedItem, error) {
	text, err := checkStatusText(statusText)
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	var item *models.FeedItem
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.FeedItems(tx)
		found, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := permissions.Check(requester, permissions.OpUpdate, permissions.FeedItem(found)); err != nil {
			return err
		}
		if err := repo.UpdateStatus(ctx, id, text); err != nil {
			return err
		}
		found.StatusText = text
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the item. Only the owner may do it.
func (s *FeedService) Delete(ctx context.Context, requester *models.User, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.FeedItems(tx)
		found, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := permissions.Check(requester, permissions.OpDelete, permissions.FeedItem(found)); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

func checkStatusText(text string) (string, error) {
	if strings.TrimSpace(text) == "" || utf8.RuneCountInString(text) > common.MaxStatusTextLength {
		return "", common.ErrInvalidStatusText
	}
	return text, nil
}
