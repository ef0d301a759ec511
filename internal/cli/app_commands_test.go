package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/journalkeeper/internal/config"
	"github.com/dmitrijs2005/journalkeeper/internal/logging"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/journalkeeper/internal/services"
	"github.com/dmitrijs2005/journalkeeper/internal/uid"

	_ "modernc.org/sqlite"
)

// newTestApp wires an App against an in-memory SQLite database, bypassing
// NewApp so tests control the connection pool.
func newTestApp(t *testing.T) *App {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	// each pooled connection would get its own in-memory database
	db.SetMaxOpenConns(1)

	rm := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, rm.RunMigrations(context.Background(), db))

	log := &logging.Nop{}
	g := uid.NewGenerator(rm)
	wordIndex := services.NewWordIndexService(db, rm)
	entries := services.NewEntryService(db, rm, g, wordIndex, log, 1000)
	labels := services.NewLabelService(db, rm, g)
	events := services.NewEventService(db, rm, g)
	settings := services.NewSettingsService(db, rm, g, log)
	backup := services.NewBackupService(db, rm, g, entries, labels, events, settings, wordIndex, log)
	users := services.NewUserService(db, rm, g, backup, settings, log, []byte("test-secret"), time.Hour)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	return &App{
		config:  cfg,
		entries: entries, labels: labels, events: events,
		settings: settings, backup: backup, users: users, wordIndex: wordIndex,
		reader: bufio.NewReader(strings.NewReader("")),
	}
}

// stubInputs feeds scripted answers to the input seams. Text prompts consume
// from texts in order; password prompts consume from passwords.
func stubInputs(t *testing.T, texts []string, passwords [][]byte) {
	t.Helper()
	origST, origGP, origGM := getSimpleText, getPassword, getMultiline

	ti, pi := 0, 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if ti >= len(texts) {
			return "", io.EOF
		}
		s := texts[ti]
		ti++
		return s, nil
	}
	getMultiline = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if ti >= len(texts) {
			return "", io.EOF
		}
		s := texts[ti]
		ti++
		return s, nil
	}
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		if pi >= len(passwords) {
			return nil, io.EOF
		}
		p := append([]byte(nil), passwords[pi]...)
		pi++
		return p, nil
	}

	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
		getMultiline = origGM
	})
}

func TestRegisterAndLogin(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	stubInputs(t, []string{"alice"}, [][]byte{[]byte("correct horse")})
	require.NoError(t, a.Register(ctx))
	require.False(t, a.isLoggedIn())

	stubInputs(t, []string{"alice"}, [][]byte{[]byte("correct horse")})
	require.NoError(t, a.Login(ctx))
	require.True(t, a.isLoggedIn())
	require.NotEmpty(t, a.token)
	require.Equal(t, "(alice)", a.getStatus())

	require.NoError(t, a.Logout(ctx))
	require.False(t, a.isLoggedIn())
	require.Empty(t, a.token)
}

func TestLogin_WrongPassword(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	stubInputs(t, []string{"bob"}, [][]byte{[]byte("password-one")})
	require.NoError(t, a.Register(ctx))

	stubInputs(t, []string{"bob"}, [][]byte{[]byte("password-two")})
	require.Error(t, a.Login(ctx))
	require.False(t, a.isLoggedIn())
}

func loginTestUser(t *testing.T, a *App, username, password string) {
	t.Helper()
	ctx := context.Background()
	stubInputs(t, []string{username}, [][]byte{[]byte(password)})
	require.NoError(t, a.Register(ctx))
	stubInputs(t, []string{username}, [][]byte{[]byte(password)})
	require.NoError(t, a.Login(ctx))
}

func TestAddEntryAndSearch(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	loginTestUser(t, a, "carol", "carol-password")

	// title, body (no labels exist, so no label prompt)
	stubInputs(t, []string{"Morning pages", "walked the dog in the rain"}, nil)
	require.NoError(t, a.AddEntry(ctx))

	results, err := a.wordIndex.Search(ctx, a.auth, "dog rain")
	require.NoError(t, err)
	require.Len(t, results, 1)

	entry, err := a.getEntry(ctx, results[0].EntryID)
	require.NoError(t, err)
	require.Equal(t, "Morning pages", entry.Title)
	require.Equal(t, "walked the dog in the rain", entry.Body)
}

func TestCommandsRequireLogin(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.AddEntry(ctx))
	require.NoError(t, a.List(ctx))
	require.NoError(t, a.Search(ctx))
	require.NoError(t, a.Streaks(ctx))
	require.NoError(t, a.ExportBackup(ctx))
	require.NoError(t, a.ChangePassword(ctx))
	require.NoError(t, a.Purge(ctx))
}

func TestBackupExportImport(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	loginTestUser(t, a, "dave", "dave-password")

	stubInputs(t, []string{"First entry", "some words to keep"}, nil)
	require.NoError(t, a.AddEntry(ctx))

	path := filepath.Join(t.TempDir(), "backup.txt")
	stubInputs(t, []string{path}, nil)
	require.NoError(t, a.ExportBackup(ctx))

	stubInputs(t, []string{path, "yes"}, nil)
	require.NoError(t, a.ImportBackup(ctx))

	labelsByID, err := a.labels.MapByID(ctx, a.auth)
	require.NoError(t, err)
	entries, err := a.entries.All(ctx, a.auth, labelsByID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "First entry", entries[0].Title)
}

func TestPurge_RequiresConfirmation(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	loginTestUser(t, a, "erin", "erin-password")

	stubInputs(t, []string{"no"}, nil)
	require.NoError(t, a.Purge(ctx))
	require.True(t, a.isLoggedIn())

	stubInputs(t, []string{"yes"}, nil)
	require.NoError(t, a.Purge(ctx))
	require.False(t, a.isLoggedIn())
}

func TestChangePassword_FlowReLogin(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	loginTestUser(t, a, "frank", "frank-old-password")

	stubInputs(t, nil, [][]byte{[]byte("frank-old-password"), []byte("frank-new-password")})
	require.NoError(t, a.ChangePassword(ctx))

	require.NoError(t, a.Logout(ctx))

	stubInputs(t, []string{"frank"}, [][]byte{[]byte("frank-new-password")})
	require.NoError(t, a.Login(ctx))
	require.True(t, a.isLoggedIn())
}
