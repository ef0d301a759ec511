package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/journalkeeper/internal/cryptox"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
)

// decryptIndex loads an entry's index rows as word → count.
func decryptIndex(t *testing.T, env *testEnv, auth *models.Auth, entryID string) map[string]int {
	t.Helper()
	rows, err := env.rm.Words(env.db).SelectForEntry(context.Background(), auth.UserID, entryID)
	require.NoError(t, err)

	out := map[string]int{}
	for _, row := range rows {
		word, err := cryptox.Decrypt(row.Word, auth.Key)
		require.NoError(t, err)
		out[word] = row.Count
	}
	return out
}

func TestRebuildForEntry_TitleWordsSearchableButNotCounted(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "wi-title", "password123")
	ctx := context.Background()

	err := env.wordIndex.RebuildForEntry(ctx, env.db, auth, "e1", "the cat", "the cat sat", false, false)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"the": 1, "cat": 1, "sat": 1}, decryptIndex(t, env, auth, "e1"))
}

func TestRebuildForEntry_ClearIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "wi-idem", "password123")
	ctx := context.Background()

	require.NoError(t, env.wordIndex.RebuildForEntry(ctx, env.db, auth, "e1", "Morning", "coffee and coffee again", false, false))
	first := decryptIndex(t, env, auth, "e1")

	require.NoError(t, env.wordIndex.RebuildForEntry(ctx, env.db, auth, "e1", "Morning", "coffee and coffee again", false, true))
	second := decryptIndex(t, env, auth, "e1")

	assert.Equal(t, first, second)
	assert.Equal(t, map[string]int{"morning": 0, "coffee": 2, "and": 1, "again": 1}, second)

	rows, err := env.rm.Words(env.db).SelectForEntry(ctx, auth.UserID, "e1")
	require.NoError(t, err)
	assert.Len(t, rows, 4, "clear must not leave stale rows behind")
}

func TestRebuildForEntry_EmptyContentYieldsNoRows(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "wi-empty", "password123")

	require.NoError(t, env.wordIndex.RebuildForEntry(context.Background(), env.db, auth, "e1", "", "", false, false))
	assert.Empty(t, decryptIndex(t, env, auth, "e1"))
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "wi-search", "password123")
	ctx := context.Background()

	require.NoError(t, env.wordIndex.RebuildForEntry(ctx, env.db, auth, "e1", "", "the quick brown fox", false, false))
	require.NoError(t, env.wordIndex.RebuildForEntry(ctx, env.db, auth, "e2", "", "the lazy dog and the fox", false, false))
	require.NoError(t, env.wordIndex.RebuildForEntry(ctx, env.db, auth, "e3", "", "nothing relevant", false, false))

	t.Run("single word", func(t *testing.T) {
		results, err := env.wordIndex.Search(ctx, auth, "fox")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.ElementsMatch(t, []string{"e1", "e2"}, []string{results[0].EntryID, results[1].EntryID})
	})

	t.Run("all words must match", func(t *testing.T) {
		results, err := env.wordIndex.Search(ctx, auth, "the fox")
		require.NoError(t, err)
		require.Len(t, results, 2)

		results, err = env.wordIndex.Search(ctx, auth, "lazy fox")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "e2", results[0].EntryID)
	})

	t.Run("higher counts rank first", func(t *testing.T) {
		results, err := env.wordIndex.Search(ctx, auth, "the")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "e2", results[0].EntryID, "two occurrences of 'the' outrank one")
		assert.Equal(t, 2, results[0].Matches)
	})

	t.Run("empty query", func(t *testing.T) {
		results, err := env.wordIndex.Search(ctx, auth, "  ...  ")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("no match", func(t *testing.T) {
		results, err := env.wordIndex.Search(ctx, auth, "zebra")
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestSearch_SkipsDeletedEntries(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "wi-del", "password123")
	ctx := context.Background()

	require.NoError(t, env.wordIndex.RebuildForEntry(ctx, env.db, auth, "live", "", "shared word", false, false))
	require.NoError(t, env.wordIndex.RebuildForEntry(ctx, env.db, auth, "gone", "", "shared word", true, false))

	results, err := env.wordIndex.Search(ctx, auth, "shared")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "live", results[0].EntryID)
}

func TestSearch_WrongKeyAborts(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "wi-key", "password123")
	ctx := context.Background()

	require.NoError(t, env.wordIndex.RebuildForEntry(ctx, env.db, auth, "e1", "", "secret text", false, false))

	badAuth := &models.Auth{UserID: auth.UserID, Username: auth.Username, Key: "not-the-key"}
	_, err := env.wordIndex.Search(ctx, badAuth, "secret")
	require.Error(t, err)
}
