package models

import "time"

// FeedItem is a status update posted by a user. OwnerID and CreatedAt are
// assigned by the server once and never change.
type FeedItem struct {
	ID         string
	OwnerID    string
	StatusText string
	CreatedAt  time.Time
}
