package grpc

import (
	"context"

	"github.com/dmitrijs2005/profiles/internal/logging"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"github.com/dmitrijs2005/profiles/internal/server/services"
	"github.com/stretchr/testify/mock"
)

type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) CreateUser(ctx context.Context, email, name, password string) (*models.User, error) {
	args := m.Called(email, name, password)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockIdentity) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockIdentity) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called()
	list, _ := args.Get(0).([]*models.User)
	return list, args.Error(1)
}

func (m *MockIdentity) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.User, error) {
	args := m.Called(userID, update)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type MockTokens struct {
	mock.Mock
}

func (m *MockTokens) Issue(ctx context.Context, email, password string) (*models.AuthToken, error) {
	args := m.Called(email, password)
	t, _ := args.Get(0).(*models.AuthToken)
	return t, args.Error(1)
}

func (m *MockTokens) Resolve(ctx context.Context, key string) (*models.User, error) {
	args := m.Called(key)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockTokens) Revoke(ctx context.Context, userID string) error {
	return m.Called(userID).Error(0)
}

type MockFeed struct {
	mock.Mock
}

func (m *MockFeed) Create(ctx context.Context, requester *models.User, in services.FeedInput) (*models.FeedItem, error) {
	args := m.Called(requester, in)
	item, _ := args.Get(0).(*models.FeedItem)
	return item, args.Error(1)
}

func (m *MockFeed) Get(ctx context.Context, requester *models.User, id string) (*models.FeedItem, error) {
	args := m.Called(requester, id)
	item, _ := args.Get(0).(*models.FeedItem)
	return item, args.Error(1)
}

func (m *MockFeed) List(ctx context.Context, requester *models.User, ownerID string) ([]*models.FeedItem, error) {
	args := m.Called(requester, ownerID)
	items, _ := args.Get(0).([]*models.FeedItem)
	return items, args.Error(1)
}

func (m *MockFeed) Update(ctx context.Context, requester *models.User, id, statusText string) (*models.FeedItem, error) {
	args := m.Called(requester, id, statusText)
	item, _ := args.Get(0).(*models.FeedItem)
	return item, args.Error(1)
}

func (m *MockFeed) Delete(ctx context.Context, requester *models.User, id string) error {
	return m.Called(requester, id).Error(0)
}

type testServer struct {
	*Server
	identity *MockIdentity
	tokens   *MockTokens
	feed     *MockFeed
}

func newTestServer() *testServer {
	identity, tokens, feed := &MockIdentity{}, &MockTokens{}, &MockFeed{}
	return &testServer{
		Server:   NewServer("bufnet", 0, logging.Nop{}, identity, tokens, feed),
		identity: identity,
		tokens:   tokens,
		feed:     feed,
	}
}

const (
	aliceID = "6f1c2b0e-8a4d-4c57-9e0f-3a2b1c4d5e6f"
	bobID   = "0b7e5f3a-2c1d-4e8f-a9b6-7c5d4e3f2a1b"
	itemID  = "d4c3b2a1-9e8f-4a7b-b6c5-1f2e3d4c5b6a"
)

var (
	alice = &models.User{ID: aliceID, Email: "alice@example.com", Name: "Alice", IsActive: true}
	bob   = &models.User{ID: bobID, Email: "bob@example.com", Name: "Bob", IsActive: true}
)
