// Package permissions decides whether a requester may perform an operation
// on a resource. Decisions are pure functions of their inputs: no storage,
// no configuration.
//
// Rules, in order:
//   - a nil or inactive requester is denied everything;
//   - safe operations (list, retrieve) are allowed;
//   - writes to a profile are allowed only to the profile's own user;
//   - writes to a feed item are allowed only to its owner.
package permissions

import (
	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/server/models"
)

type Operation int

const (
	OpList Operation = iota
	OpRetrieve
	OpCreate
	OpUpdate
	OpPartialUpdate
	OpDelete
)

var opNames = map[Operation]string{
	OpList:          "list",
	OpRetrieve:      "retrieve",
	OpCreate:        "create",
	OpUpdate:        "update",
	OpPartialUpdate: "partial_update",
	OpDelete:        "delete",
}

func (o Operation) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "unknown"
}

// Safe reports whether o never mutates state.
func (o Operation) Safe() bool {
	return o == OpList || o == OpRetrieve
}

type Kind int

const (
	KindProfile Kind = iota + 1
	KindFeedItem
)

// Resource identifies what an operation targets. For a profile ID is the
// user id; for a feed item OwnerID is the posting user.
type Resource struct {
	Kind    Kind
	ID      string
	OwnerID string
}

func Profile(u *models.User) Resource {
	return Resource{Kind: KindProfile, ID: u.ID, OwnerID: u.ID}
}

func FeedItem(item *models.FeedItem) Resource {
	return Resource{Kind: KindFeedItem, ID: item.ID, OwnerID: item.OwnerID}
}

// NewFeedItem describes a feed item that does not exist yet.
func NewFeedItem(ownerID string) Resource {
	return Resource{Kind: KindFeedItem, OwnerID: ownerID}
}

type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

func (d Decision) String() string {
	if d {
		return "allow"
	}
	return "deny"
}

// Authorize returns the decision for requester performing op on res.
func Authorize(requester *models.User, op Operation, res Resource) Decision {
	if requester == nil || !requester.IsActive || requester.ID == "" {
		return Deny
	}
	if op.Safe() {
		return Allow
	}

	switch res.Kind {
	case KindProfile:
		return Decision(res.ID != "" && requester.ID == res.ID)
	case KindFeedItem:
		return Decision(res.OwnerID != "" && requester.ID == res.OwnerID)
	default:
		return Deny
	}
}

// Check is Authorize returning common.ErrPermissionDenied on Deny.
func Check(requester *models.User, op Operation, res Resource) error {
	if Authorize(requester, op, res) == Deny {
		return common.ErrPermissionDenied
	}
	return nil
}
