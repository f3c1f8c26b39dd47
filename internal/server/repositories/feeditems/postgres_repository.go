package feeditems

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/dbx"
	"github.com/dmitrijs2005/profiles/internal/server/models"
)

const selectColumns = `SELECT id, owner_id, status_text, created_at
		 FROM feed_items`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.FeedItem) (*models.FeedItem, error) {

	query :=
		`INSERT INTO feed_items (id, owner_id, status_text)
		 VALUES ($1, $2, $3)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, item.ID, item.OwnerID, item.StatusText).Scan(&item.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.FeedItem, error) {
	return r.getOne(ctx, selectColumns+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.FeedItem, error) {
	return r.getOne(ctx, selectColumns+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.FeedItem, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if ownerID == "" {
		rows, err = r.db.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC, id`)
	} else {
		rows, err = r.db.QueryContext(ctx, selectColumns+` WHERE owner_id = $1 ORDER BY created_at DESC, id`, ownerID)
	}
	if err != nil {
		if dbx.IsInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.FeedItem
	for rows.Next() {
		item := &models.FeedItem{}
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.StatusText, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, statusText string) error {

	query :=
		`UPDATE feed_items
		 SET status_text = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, statusText)
	if err != nil {
		return execError(err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feed_items WHERE id = $1`, id)
	if err != nil {
		return execError(err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, id string) (*models.FeedItem, error) {
	item := &models.FeedItem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.OwnerID, &item.StatusText, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// execError treats an id PostgreSQL cannot parse as a missing row.
func execError(err error) error {
	if dbx.IsInvalidText(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
