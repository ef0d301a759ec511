// Package repomanager vends repository implementations bound to a DBTX, so
// a service can run several repositories against one shared transaction. It
// also owns schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/entries"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/events"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/ids"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/labels"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/settings"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/users"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/words"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Entries(db dbx.DBTX) entries.Repository
	Words(db dbx.DBTX) words.Repository
	Labels(db dbx.DBTX) labels.Repository
	Events(db dbx.DBTX) events.Repository
	Settings(db dbx.DBTX) settings.Repository
	IDs(db dbx.DBTX) ids.Repository
}
