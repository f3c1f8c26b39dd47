// Package services contains server-side business logic. This file implements
// IdentityService, which owns the user records: creation, lookup, profile
// updates and the admin-only activation and password paths.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/dbx"
	"github.com/dmitrijs2005/profiles/internal/logging"
	"github.com/dmitrijs2005/profiles/internal/server/config"
	"github.com/dmitrijs2005/profiles/internal/server/credentials"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"github.com/dmitrijs2005/profiles/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const maxFieldLength = 255

// IdentityService is safe for concurrent use; writes to one user are
// serialized by a row lock.
type IdentityService struct {
	db                *sql.DB
	repomanager       repomanager.RepositoryManager
	hasher            credentials.Hasher
	passwordMinLength int
	log               logging.Logger
}

// NewIdentityService constructs an IdentityService using repositories and server config.
func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager, hasher credentials.Hasher, cfg *config.Config, log logging.Logger) *IdentityService {
	return &IdentityService{
		db:                db,
		repomanager:       m,
		hasher:            hasher,
		passwordMinLength: cfg.PasswordMinLength,
		log:               log.With("component", "identity"),
	}
}

// CreateUser registers a regular user. The email is normalized before the
// uniqueness check and storage.
func (s *IdentityService) CreateUser(ctx context.Context, email, name, password string) (*models.User, error) {
	return s.create(ctx, email, name, password, false)
}

// CreateSuperuser registers a user with the staff and superuser flags set.
// It is reachable from the admin CLI only.
func (s *IdentityService) CreateSuperuser(ctx context.Context, email, name, password string) (*models.User, error) {
	return s.create(ctx, email, name, password, true)
}

func (s *IdentityService) create(ctx context.Context, email, name, password string, superuser bool) (*models.User, error) {
	email, err := checkEmail(email)
	if err != nil {
		return nil, err
	}
	name, err = checkName(name)
	if err != nil {
		return nil, err
	}
	if err := s.checkPassword(password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	// The unique index is the real guard; this only gives the common case a
	// clean error without hashing first.
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrDuplicateIdentity
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      superuser,
		IsSuperuser:  superuser,
	}

	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user created", "user_id", u.ID, "superuser", superuser)
	return u, nil
}

// UpdateProfile applies the non-nil fields of update to the user. A new
// password goes through the policy check and is stored hashed.
func (s *IdentityService) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.User, error) {
	var (
		email, name, hash string
		err               error
	)

	if update.Email != nil {
		if email, err = checkEmail(*update.Email); err != nil {
			return nil, err
		}
	}
	if update.Name != nil {
		if name, err = checkName(*update.Name); err != nil {
			return nil, err
		}
	}
	if update.Password != nil {
		if hash, err = s.hashPassword(*update.Password); err != nil {
			return nil, err
		}
	}

	var updated *models.User
	err = s.modify(ctx, userID, func(_ context.Context, _ dbx.DBTX, u *models.User) error {
		if update.Email != nil {
			u.Email = email
		}
		if update.Name != nil {
			u.Name = name
		}
		if update.Password != nil {
			u.PasswordHash = hash
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "profile updated", "user_id", userID, "password_changed", update.Password != nil)
	return updated, nil
}

// SetPassword replaces the password of userID.
func (s *IdentityService) SetPassword(ctx context.Context, userID, password string) error {
	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	err = s.modify(ctx, userID, func(_ context.Context, _ dbx.DBTX, u *models.User) error {
		u.PasswordHash = hash
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "password changed", "user_id", userID)
	return nil
}

// SetActive flips the active flag. Deactivation revokes the live token in
// the same transaction, so an inactive user never holds a usable token.
func (s *IdentityService) SetActive(ctx context.Context, userID string, active bool) error {
	err := s.modify(ctx, userID, func(ctx context.Context, tx dbx.DBTX, u *models.User) error {
		u.IsActive = active
		if active {
			return nil
		}
		if err := s.repomanager.AuthTokens(tx).DeleteByUser(ctx, u.ID); err != nil {
			return fmt.Errorf("error revoking token: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "user activation changed", "user_id", userID, "active", active)
	return nil
}

// FindByEmail looks a user up by email, normalizing it first. Absence is
// reported through the bool; only storage failures are errors.
func (s *IdentityService) FindByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	return found(s.repomanager.Users(s.db).GetByEmail(ctx, models.NormalizeEmail(email)))
}

// FindByID is FindByEmail keyed by id.
func (s *IdentityService) FindByID(ctx context.Context, id string) (*models.User, bool, error) {
	if !validID(id) {
		return nil, false, nil
	}
	return found(s.repomanager.Users(s.db).GetByID(ctx, id))
}

// GetUser returns the user or common.ErrorNotFound.
func (s *IdentityService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// ListUsers returns every user in creation order.
func (s *IdentityService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// modify runs fn on the row-locked user and persists the result, all in
// one transaction.
func (s *IdentityService) modify(ctx context.Context, userID string, fn func(ctx context.Context, tx dbx.DBTX, u *models.User) error) error {
	if !validID(userID) {
		return common.ErrorNotFound
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		u, err := repo.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err := fn(ctx, tx, u); err != nil {
			return err
		}
		return repo.Update(ctx, u)
	})
}

func (s *IdentityService) checkPassword(password string) error {
	if utf8.RuneCountInString(password) < s.passwordMinLength {
		return common.ErrWeakCredential
	}
	return nil
}

func (s *IdentityService) hashPassword(password string) (string, error) {
	if err := s.checkPassword(password); err != nil {
		return "", err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return hash, nil
}

func checkEmail(email string) (string, error) {
	email = models.NormalizeEmail(email)
	if email == "" || utf8.RuneCountInString(email) > maxFieldLength {
		return "", common.ErrInvalidIdentity
	}
	return email, nil
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxFieldLength {
		return "", common.ErrInvalidIdentity
	}
	return name, nil
}

// validID reports whether id has the shape of a stored key. Anything else
// cannot name a record, so lookups treat it as absent.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func found(u *models.User, err error) (*models.User, bool, error) {
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return u, true, nil
}
