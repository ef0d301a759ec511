package repomanager

import (
	"context"
	"database/sql"
	"io/fs"

	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
	"github.com/dmitrijs2005/journalkeeper/internal/migrations"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/entries"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/events"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/ids"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/labels"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/settings"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/users"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/words"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories. This is the
// default backend for a single-machine journal.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Words(db dbx.DBTX) words.Repository {
	return words.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Labels(db dbx.DBTX) labels.Repository {
	return labels.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Events(db dbx.DBTX) events.Repository {
	return events.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) IDs(db dbx.DBTX) ids.Repository {
	return ids.NewSQLiteRepository(db)
}

// RunMigrations applies the embedded SQLite migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	sub, err := fs.Sub(migrations.SQLite, "sqlite")
	if err != nil {
		return err
	}
	goose.SetBaseFS(sub)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
