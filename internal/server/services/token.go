package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/dbx"
	"github.com/dmitrijs2005/profiles/internal/logging"
	"github.com/dmitrijs2005/profiles/internal/server/config"
	"github.com/dmitrijs2005/profiles/internal/server/credentials"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"github.com/dmitrijs2005/profiles/internal/server/repositories/repomanager"
)

// TokenService issues, resolves and revokes the opaque per-user tokens.
// A user holds at most one token; issuing a new one replaces the old one
// atomically.
type TokenService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      credentials.Hasher
	keyBytes    int
	log         logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewTokenService constructs a TokenService using repositories and server config.
func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, hasher credentials.Hasher, cfg *config.Config, log logging.Logger) *TokenService {
	return &TokenService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		keyBytes:    cfg.TokenKeyBytes,
		log:         log.With("component", "tokens"),
	}
}

// Issue checks the credentials and returns a fresh token for the user.
// Unknown email, wrong password and inactive account all yield
// common.ErrInvalidCredentials.
func (s *TokenService) Issue(ctx context.Context, email, password string) (*models.AuthToken, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same hashing work as a real check
			s.hasher.Verify(password, s.dummy())
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) || !user.IsActive {
		s.log.Info(ctx, "login rejected", "user_id", user.ID)
		return nil, common.ErrInvalidCredentials
	}

	key, err := common.MakeRandHexString(s.keyBytes)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	token := &models.AuthToken{Key: key, UserID: user.ID}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		// Locking the user row serializes concurrent logins and deactivation.
		u, err := s.repomanager.Users(tx).GetByIDForUpdate(ctx, user.ID)
		if err != nil {
			return err
		}
		// The password was verified against the unlocked read; a change
		// committed since then voids that check.
		if !u.IsActive || u.PasswordHash != user.PasswordHash {
			return common.ErrInvalidCredentials
		}

		repo := s.repomanager.AuthTokens(tx)
		if err := repo.DeleteByUser(ctx, u.ID); err != nil {
			return fmt.Errorf("error deleting token: %w", err)
		}
		if err := repo.Create(ctx, token); err != nil {
			return fmt.Errorf("error creating token: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	s.log.Info(ctx, "token issued", "user_id", user.ID)
	return token, nil
}

// Resolve maps a token key to its active owner. Any failure to do so other
// than a storage error is common.ErrInvalidToken.
func (s *TokenService) Resolve(ctx context.Context, key string) (*models.User, error) {
	if key == "" {
		return nil, common.ErrInvalidToken
	}

	token, err := s.repomanager.AuthTokens(s.db).Find(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching token: %w", err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	if !user.IsActive {
		return nil, common.ErrInvalidToken
	}

	return user, nil
}

// Revoke deletes the token of userID. Revoking twice is not an error.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	if err := s.repomanager.AuthTokens(s.db).DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("error deleting token: %w", err)
	}
	s.log.Info(ctx, "token revoked", "user_id", userID)
	return nil
}

// dummy returns a hash no password verifies against, made with the
// configured hasher so that verifying it costs the same as a real check.
func (s *TokenService) dummy() string {
	s.dummyOnce.Do(func() {
		secret, err := common.MakeRandHexString(16)
		if err == nil {
			s.dummyHash, _ = s.hasher.Hash(secret)
		}
	})
	return s.dummyHash
}
