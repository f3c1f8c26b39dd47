package models

import (
	"strings"
	"time"
)

// User is the identity aggregate. PasswordHash holds an encoded digest
// produced by the credentials package, never the plaintext.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileUpdate carries the fields of a profile update. A nil field is left
// untouched. Privilege flags are deliberately absent.
type ProfileUpdate struct {
	Email    *string
	Name     *string
	Password *string
}

// NormalizeEmail trims surrounding whitespace and lower-cases the domain
// part (everything after the last "@"). The local part keeps its case.
// Addresses without "@" are returned trimmed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
