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

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories for a
// multi-user deployment.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Words(db dbx.DBTX) words.Repository {
	return words.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Labels(db dbx.DBTX) labels.Repository {
	return labels.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Events(db dbx.DBTX) events.Repository {
	return events.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) IDs(db dbx.DBTX) ids.Repository {
	return ids.NewPostgresRepository(db)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	sub, err := fs.Sub(migrations.Postgres, "postgres")
	if err != nil {
		return err
	}
	goose.SetBaseFS(sub)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
