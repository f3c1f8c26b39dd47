package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/profiles/internal/dbx"
	"github.com/dmitrijs2005/profiles/internal/server/repositories/authtokens"
	"github.com/dmitrijs2005/profiles/internal/server/repositories/feeditems"
	"github.com/dmitrijs2005/profiles/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX, so the same
// code runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	AuthTokens(db dbx.DBTX) authtokens.Repository
	FeedItems(db dbx.DBTX) feeditems.Repository
}
