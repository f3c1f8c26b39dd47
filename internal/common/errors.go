// Package common defines shared constants and sentinel errors used across
// the identity, token and feed layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Identity errors.
	ErrInvalidIdentity   = errors.New("invalid identity")
	ErrDuplicateIdentity = errors.New("identity already exists")
	ErrWeakCredential    = errors.New("password does not meet the policy")

	// Auth errors. Login failures and inactive accounts share one value so
	// callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// Authorization errors.
	ErrPermissionDenied = errors.New("permission denied")

	// Feed item errors.
	ErrInvalidStatusText = errors.New("invalid status text")
)
