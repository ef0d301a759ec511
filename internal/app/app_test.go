package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/journalkeeper/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DatabaseDriver:               "sqlite",
		DatabaseDSN:                  filepath.Join(t.TempDir(), "journal.db"),
		SecretKey:                    "test-secret",
		SessionTokenValidityDuration: time.Hour,
		MaxEntriesPerUser:            100,
	}
}

func TestOpenDatabase_SQLite(t *testing.T) {
	db, rm, err := OpenDatabase(context.Background(), testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, rm)
	defer db.Close()

	// migrations ran, so the schema is queryable
	var n int
	err = db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestOpenDatabase_UnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseDriver = "oracle"
	_, _, err := OpenDatabase(context.Background(), cfg)
	require.ErrorContains(t, err, "unsupported database driver")
}

func TestNew_BuildsServiceGraph(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Entries)
	require.NotNil(t, a.Labels)
	require.NotNil(t, a.Events)
	require.NotNil(t, a.Settings)
	require.NotNil(t, a.Backup)
	require.NotNil(t, a.Users)
	require.NotNil(t, a.WordIndex)

	// the graph is usable end to end
	ctx := context.Background()
	_, err = a.Users.Register(ctx, "alice", "correct horse", time.Now().Unix())
	require.NoError(t, err)
	auth, token, err := a.Users.Login(ctx, "alice", "correct horse")
	require.NoError(t, err)
	require.NotNil(t, auth)
	require.NotEmpty(t, token)
}
