package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/journalkeeper/internal/logging"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/journalkeeper/internal/uid"
)

// testEnv wires every service against one in-memory SQLite database with the
// real schema applied.
type testEnv struct {
	db        *sql.DB
	rm        repomanager.RepositoryManager
	log       *logging.Capture
	wordIndex *WordIndexService
	entries   *EntryService
	labels    *LabelService
	events    *EventService
	settings  *SettingsService
	backup    *BackupService
	users     *UserService
}

const testMaxEntries = 10

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	// each pooled connection would get its own in-memory database
	db.SetMaxOpenConns(1)

	rm := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, rm.RunMigrations(context.Background(), db))

	log := &logging.Capture{}
	g := uid.NewGenerator(rm)
	wordIndex := NewWordIndexService(db, rm)
	entries := NewEntryService(db, rm, g, wordIndex, log, testMaxEntries)
	labels := NewLabelService(db, rm, g)
	events := NewEventService(db, rm, g)
	settings := NewSettingsService(db, rm, g, log)
	backup := NewBackupService(db, rm, g, entries, labels, events, settings, wordIndex, log)
	users := NewUserService(db, rm, g, backup, settings, log, []byte("test-secret"), time.Hour)

	return &testEnv{
		db: db, rm: rm, log: log,
		wordIndex: wordIndex, entries: entries, labels: labels, events: events,
		settings: settings, backup: backup, users: users,
	}
}

// newTestUser registers a user and logs in, returning the session auth.
func (e *testEnv) newTestUser(t *testing.T, username, password string) *models.Auth {
	t.Helper()
	ctx := context.Background()

	_, err := e.users.Register(ctx, username, password, time.Now().Unix())
	require.NoError(t, err)

	auth, _, err := e.users.Login(ctx, username, password)
	require.NoError(t, err)
	return auth
}

func ptr[T any](v T) *T { return &v }
