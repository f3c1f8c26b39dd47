package grpc

import (
	"context"

	"github.com/dmitrijs2005/profiles/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Client calls the profiles service over an established connection. The
// token returned by Login is attached to every later call.
type Client struct {
	conn  grpc.ClientConnInterface
	token string
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	if c.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx,
			common.AuthorizationHeaderName, common.AuthorizationScheme+" "+c.token)
	}
	return c.conn.Invoke(ctx, method, req, resp, grpc.CallContentSubtype(codecName))
}

func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*Profile, error) {
	out := &Profile{}
	return out, c.invoke(ctx, MethodRegister, req, out)
}

// Login authenticates and keeps the issued token for later calls.
func (c *Client) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	out := &LoginResponse{}
	if err := c.invoke(ctx, MethodLogin, req, out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.invoke(ctx, MethodLogout, &Empty{}, &Empty{}); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *Client) GetProfile(ctx context.Context, id string) (*Profile, error) {
	out := &Profile{}
	return out, c.invoke(ctx, MethodGetProfile, &GetProfileRequest{ID: id}, out)
}

func (c *Client) ListProfiles(ctx context.Context) (*ListProfilesResponse, error) {
	out := &ListProfilesResponse{}
	return out, c.invoke(ctx, MethodListProfiles, &Empty{}, out)
}

func (c *Client) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*Profile, error) {
	out := &Profile{}
	return out, c.invoke(ctx, MethodUpdateProfile, req, out)
}

func (c *Client) CreateFeedItem(ctx context.Context, req *CreateFeedItemRequest) (*FeedItem, error) {
	out := &FeedItem{}
	return out, c.invoke(ctx, MethodCreateFeedItem, req, out)
}

func (c *Client) GetFeedItem(ctx context.Context, id string) (*FeedItem, error) {
	out := &FeedItem{}
	return out, c.invoke(ctx, MethodGetFeedItem, &GetFeedItemRequest{ID: id}, out)
}

func (c *Client) ListFeedItems(ctx context.Context, ownerID string) (*ListFeedItemsResponse, error) {
	out := &ListFeedItemsResponse{}
	return out, c.invoke(ctx, MethodListFeedItems, &ListFeedItemsRequest{OwnerID: ownerID}, out)
}

func (c *Client) UpdateFeedItem(ctx context.Context, req *UpdateFeedItemRequest) (*FeedItem, error) {
	out := &FeedItem{}
	return out, c.invoke(ctx, MethodUpdateFeedItem, req, out)
}

func (c *Client) DeleteFeedItem(ctx context.Context, id string) error {
	return c.invoke(ctx, MethodDeleteFeedItem, &DeleteFeedItemRequest{ID: id}, &Empty{})
}
