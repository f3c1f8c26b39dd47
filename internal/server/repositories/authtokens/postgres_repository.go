package authtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/dbx"
	"github.com/dmitrijs2005/profiles/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, token *models.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (key, user_id)
		VALUES ($1, $2)
		RETURNING issued_at
	`
	if err := r.db.QueryRowContext(ctx, query, token.Key, token.UserID).Scan(&token.IssuedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, key string) (*models.AuthToken, error) {
	query := `
		SELECT key, user_id, issued_at
		FROM auth_tokens
		WHERE key = $1
	`
	token := &models.AuthToken{}
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&token.Key, &token.UserID, &token.IssuedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	query := `
		DELETE FROM auth_tokens
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
