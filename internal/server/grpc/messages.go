package grpc

import (
	"time"

	"github.com/dmitrijs2005/profiles/internal/server/models"
)

// Requests are validated with go-playground/validator before they reach a
// service; the services repeat the checks that guard stored data.

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type Empty struct{}

type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type GetProfileRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

type ListProfilesResponse struct {
	Profiles []*Profile `json:"profiles"`
}

// UpdateProfileRequest is a partial update: absent fields stay unchanged.
type UpdateProfileRequest struct {
	ID       string  `json:"id" validate:"required,uuid"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Password *string `json:"password,omitempty"`
}

type FeedItem struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	StatusText string    `json:"status_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateFeedItemRequest accepts owner_id but the server always records the
// caller as the owner.
type CreateFeedItemRequest struct {
	StatusText string `json:"status_text" validate:"required,max=255"`
	OwnerID    string `json:"owner_id,omitempty"`
}

type GetFeedItemRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

type ListFeedItemsRequest struct {
	OwnerID string `json:"owner_id,omitempty" validate:"omitempty,uuid"`
}

type ListFeedItemsResponse struct {
	Items []*FeedItem `json:"items"`
}

type UpdateFeedItemRequest struct {
	ID         string `json:"id" validate:"required,uuid"`
	StatusText string `json:"status_text" validate:"required,max=255"`
}

type DeleteFeedItemRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

func toProfile(u *models.User) *Profile {
	return &Profile{ID: u.ID, Email: u.Email, Name: u.Name}
}

func toFeedItem(item *models.FeedItem) *FeedItem {
	return &FeedItem{
		ID:         item.ID,
		OwnerID:    item.OwnerID,
		StatusText: item.StatusText,
		CreatedAt:  item.CreatedAt,
	}
}
