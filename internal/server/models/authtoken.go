package models

import "time"

// AuthToken is the single live session credential of a user.
type AuthToken struct {
	Key      string
	UserID   string
	IssuedAt time.Time
}
