package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/dbx"
	"github.com/dmitrijs2005/profiles/internal/logging"
	"github.com/dmitrijs2005/profiles/internal/server/config"
	"github.com/dmitrijs2005/profiles/internal/server/credentials"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"github.com/dmitrijs2005/profiles/internal/server/repositories/authtokens"
	"github.com/dmitrijs2005/profiles/internal/server/repositories/feeditems"
	"github.com/dmitrijs2005/profiles/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// --- helpers ---

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Argon2MemoryKiB = 1024
	cfg.Argon2Threads = 1
	cfg.BcryptCost = bcrypt.MinCost
	return cfg
}

// newTxDB returns a real database handle for dbx.WithTx. The fakes below
// ignore the DBTX they are bound to, so no tables are needed.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fixture struct {
	db       *sql.DB
	rm       *fakeRepoManager
	hasher   *credentials.Manager
	identity *IdentityService
	tokens   *TokenService
	feed     *FeedService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig()
	db := newTxDB(t)
	rm := newFakeRepoManager()
	h := credentials.NewManager(cfg)
	log := logging.Nop{}
	return &fixture{
		db:       db,
		rm:       rm,
		hasher:   h,
		identity: NewIdentityService(db, rm, h, cfg, log),
		tokens:   NewTokenService(db, rm, h, cfg, log),
		feed:     NewFeedService(db, rm, log),
	}
}

// --- users ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	byID   map[string]*models.User
	failOn error
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != nil {
		return nil, f.failOn
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrDuplicateIdentity
		}
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	f.byID[u.ID] = cloneUser(u)
	return u, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != nil {
		return nil, f.failOn
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (f *fakeUsersRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.User, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != nil {
		return nil, f.failOn
	}
	for _, u := range f.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Update(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != nil {
		return f.failOn
	}
	if _, ok := f.byID[u.ID]; !ok {
		return common.ErrorNotFound
	}
	for id, existing := range f.byID {
		if id != u.ID && existing.Email == u.Email {
			return common.ErrDuplicateIdentity
		}
	}
	u.UpdatedAt = time.Now()
	f.byID[u.ID] = cloneUser(u)
	return nil
}

func (f *fakeUsersRepo) List(_ context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- tokens ---

type fakeTokensRepo struct {
	mu        sync.Mutex
	byKey     map[string]*models.AuthToken
	createErr error
	deleteErr error
}

func (f *fakeTokensRepo) Create(_ context.Context, t *models.AuthToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byKey {
		if existing.UserID == t.UserID {
			return common.ErrDuplicateIdentity
		}
	}
	t.IssuedAt = time.Now()
	c := *t
	f.byKey[t.Key] = &c
	return nil
}

func (f *fakeTokensRepo) Find(_ context.Context, key string) (*models.AuthToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byKey[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}

func (f *fakeTokensRepo) DeleteByUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for k, t := range f.byKey {
		if t.UserID == userID {
			delete(f.byKey, k)
		}
	}
	return nil
}

func (f *fakeTokensRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byKey)
}

// --- feed items ---

type fakeFeedRepo struct {
	mu   sync.Mutex
	byID map[string]*models.FeedItem
	seq  int
}

func (f *fakeFeedRepo) Create(_ context.Context, item *models.FeedItem) (*models.FeedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	item.CreatedAt = time.Unix(int64(f.seq), 0)
	c := *item
	f.byID[item.ID] = &c
	return item, nil
}

func (f *fakeFeedRepo) Get(_ context.Context, id string) (*models.FeedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *item
	return &c, nil
}

func (f *fakeFeedRepo) GetForUpdate(ctx context.Context, id string) (*models.FeedItem, error) {
	return f.Get(ctx, id)
}

func (f *fakeFeedRepo) List(_ context.Context, ownerID string) ([]*models.FeedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.FeedItem
	for _, item := range f.byID {
		if ownerID == "" || item.OwnerID == ownerID {
			c := *item
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeFeedRepo) UpdateStatus(_ context.Context, id, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	item.StatusText = text
	return nil
}

func (f *fakeFeedRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	usersOverride users.Repository

	u *fakeUsersRepo
	t *fakeTokensRepo
	f *fakeFeedRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: &fakeUsersRepo{byID: map[string]*models.User{}},
		t: &fakeTokensRepo{byKey: map[string]*models.AuthToken{}},
		f: &fakeFeedRepo{byID: map[string]*models.FeedItem{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) AuthTokens(dbx.DBTX) authtokens.Repository    { return m.t }
func (m *fakeRepoManager) FeedItems(dbx.DBTX) feeditems.Repository      { return m.f }

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository {
	if m.usersOverride != nil {
		return m.usersOverride
	}
	return m.u
}
