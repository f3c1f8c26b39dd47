package grpc

import (
	"context"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/server/models"
	"github.com/dmitrijs2005/profiles/internal/server/permissions"
	"github.com/dmitrijs2005/profiles/internal/server/services"
)

func (s *Server) Register(ctx context.Context, req *RegisterRequest) (*Profile, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	u, err := s.identity.CreateUser(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		return nil, err
	}
	return toProfile(u), nil
}

func (s *Server) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token.Key, UserID: token.UserID}, nil
}

func (s *Server) Logout(ctx context.Context, _ *Empty) (*Empty, error) {
	u := userFromContext(ctx)
	if u == nil {
		return nil, common.ErrInvalidToken
	}
	if err := s.tokens.Revoke(ctx, u.ID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *Server) GetProfile(ctx context.Context, req *GetProfileRequest) (*Profile, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	res := permissions.Resource{Kind: permissions.KindProfile, ID: req.ID, OwnerID: req.ID}
	if err := permissions.Check(userFromContext(ctx), permissions.OpRetrieve, res); err != nil {
		return nil, err
	}

	u, err := s.identity.GetUser(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return toProfile(u), nil
}

func (s *Server) ListProfiles(ctx context.Context, _ *Empty) (*ListProfilesResponse, error) {
	if err := permissions.Check(userFromContext(ctx), permissions.OpList, permissions.Resource{Kind: permissions.KindProfile}); err != nil {
		return nil, err
	}

	list, err := s.identity.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := &ListProfilesResponse{Profiles: make([]*Profile, 0, len(list))}
	for _, u := range list {
		out.Profiles = append(out.Profiles, toProfile(u))
	}
	return out, nil
}

func (s *Server) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*Profile, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	res := permissions.Resource{Kind: permissions.KindProfile, ID: req.ID, OwnerID: req.ID}
	if err := permissions.Check(userFromContext(ctx), permissions.OpPartialUpdate, res); err != nil {
		return nil, err
	}

	u, err := s.identity.UpdateProfile(ctx, req.ID, models.ProfileUpdate{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}
	return toProfile(u), nil
}

func (s *Server) CreateFeedItem(ctx context.Context, req *CreateFeedItemRequest) (*FeedItem, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	item, err := s.feed.Create(ctx, userFromContext(ctx), services.FeedInput{
		StatusText: req.StatusText,
		OwnerID:    req.OwnerID,
	})
	if err != nil {
		return nil, err
	}
	return toFeedItem(item), nil
}

func (s *Server) GetFeedItem(ctx context.Context, req *GetFeedItemRequest) (*FeedItem, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	item, err := s.feed.Get(ctx, userFromContext(ctx), req.ID)
	if err != nil {
		return nil, err
	}
	return toFeedItem(item), nil
}

func (s *Server) ListFeedItems(ctx context.Context, req *ListFeedItemsRequest) (*ListFeedItemsResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	items, err := s.feed.List(ctx, userFromContext(ctx), req.OwnerID)
	if err != nil {
		return nil, err
	}
	out := &ListFeedItemsResponse{Items: make([]*FeedItem, 0, len(items))}
	for _, item := range items {
		out.Items = append(out.Items, toFeedItem(item))
	}
	return out, nil
}

func (s *Server) UpdateFeedItem(ctx context.Context, req *UpdateFeedItemRequest) (*FeedItem, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	item, err := s.feed.Update(ctx, userFromContext(ctx), req.ID, req.StatusText)
	if err != nil {
		return nil, err
	}
	return toFeedItem(item), nil
}

func (s *Server) DeleteFeedItem(ctx context.Context, req *DeleteFeedItemRequest) (*Empty, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	if err := s.feed.Delete(ctx, userFromContext(ctx), req.ID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}
