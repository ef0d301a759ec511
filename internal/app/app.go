// Package app wires configuration, storage and the service layer into one
// bundle that both the CLI and tests can start from.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/journalkeeper/internal/config"
	"github.com/dmitrijs2005/journalkeeper/internal/logging"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/journalkeeper/internal/services"
	"github.com/dmitrijs2005/journalkeeper/internal/uid"
)

// App holds an open database handle and every service bound to it.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Logger logging.Logger

	WordIndex *services.WordIndexService
	Entries   *services.EntryService
	Labels    *services.LabelService
	Events    *services.EventService
	Settings  *services.SettingsService
	Backup    *services.BackupService
	Users     *services.UserService
}

// OpenDatabase opens the configured backend and runs pending migrations.
// The returned manager matches the opened driver.
func OpenDatabase(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {

	var rm repomanager.RepositoryManager

	switch c.DatabaseDriver {
	case "sqlite":
		rm = repomanager.NewSQLiteRepositoryManager()
	case "pgx", "postgres":
		rm = repomanager.NewPostgresRepositoryManager()
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", c.DatabaseDriver)
	}

	driver := c.DatabaseDriver
	if driver == "postgres" {
		driver = "pgx"
	}

	db, err := sql.Open(driver, c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db migration error: %w", err)
	}

	return db, rm, nil
}

// New opens the database and constructs the full service graph.
func New(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout)

	db, rm, err := OpenDatabase(ctx, c)
	if err != nil {
		return nil, err
	}

	g := uid.NewGenerator(rm)

	wi := services.NewWordIndexService(db, rm)
	es := services.NewEntryService(db, rm, g, wi, logger, c.MaxEntriesPerUser)
	ls := services.NewLabelService(db, rm, g)
	evs := services.NewEventService(db, rm, g)
	ss := services.NewSettingsService(db, rm, g, logger)
	bs := services.NewBackupService(db, rm, g, es, ls, evs, ss, wi, logger)
	us := services.NewUserService(db, rm, g, bs, ss, logger,
		[]byte(c.SecretKey), c.SessionTokenValidityDuration)

	return &App{
		Config: c, DB: db, Logger: logger,
		WordIndex: wi, Entries: es, Labels: ls, Events: evs,
		Settings: ss, Backup: bs, Users: us,
	}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.DB.Close()
}
