package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/journalkeeper/internal/common"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
)

func seedAccount(t *testing.T, env *testEnv, auth *models.Auth, now int64) {
	t.Helper()
	ctx := context.Background()

	label, err := env.labels.Create(ctx, auth, "travel", "#abcdef", now)
	require.NoError(t, err)

	_, err = env.entries.Create(ctx, auth, []models.Label{*label}, &CreateEntryArgs{
		Title: "day one", Body: "arrived at the coast", Created: now, LabelID: &label.ID,
		Edits: []EntryEditArgs{{OldTitle: "draft", OldBody: "arrived", Created: now - 60}},
	})
	require.NoError(t, err)

	deleted, err := env.entries.Create(ctx, auth, nil, &CreateEntryArgs{
		Title: "scrapped", Body: "never mind", Created: now + 10,
	})
	require.NoError(t, err)
	require.NoError(t, env.entries.Delete(ctx, auth, deleted.ID, false, now+20))

	_, err = env.events.Create(ctx, auth, map[string]models.Label{label.ID: *label},
		"flight", now, now+7200, 1, &label.ID, now)
	require.NoError(t, err)

	_, err = env.settings.Update(ctx, auth, "entriesPerPage", float64(5), now)
	require.NoError(t, err)
}

func TestBackupGenerate(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "bak-gen", "password123")
	now := time.Now().Unix()
	seedAccount(t, env, auth, now)

	backup, err := env.backup.Generate(context.Background(), auth, now+100)
	require.NoError(t, err)

	assert.EqualValues(t, now+100, backup.Created)
	require.Len(t, backup.Entries, 2, "soft-deleted entries are included")
	require.Len(t, backup.Labels, 1)
	require.Len(t, backup.Events, 1)
	require.Len(t, backup.Settings, 1)

	var withEdits *models.BackupEntry
	for i := range backup.Entries {
		if len(backup.Entries[i].Edits) > 0 {
			withEdits = &backup.Entries[i]
		}
	}
	require.NotNil(t, withEdits)
	assert.Equal(t, "day one", withEdits.Title)
	assert.Equal(t, "draft", withEdits.Edits[0].OldTitle)
	require.NotNil(t, withEdits.LabelID)
	assert.Equal(t, backup.Labels[0].ID, *withEdits.LabelID)
}

func TestBackupEncryptedStringRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "bak-enc", "password123")
	now := time.Now().Unix()
	seedAccount(t, env, auth, now)

	backup, err := env.backup.Generate(context.Background(), auth, now)
	require.NoError(t, err)

	encrypted, err := env.backup.AsEncryptedString(backup, auth.Key)
	require.NoError(t, err)
	assert.NotContains(t, encrypted, "coast", "export must be opaque")

	decoded, err := env.backup.FromEncryptedString(encrypted, auth.Key)
	require.NoError(t, err)
	assert.Equal(t, backup, decoded)

	_, err = env.backup.FromEncryptedString(encrypted, "wrong-key")
	require.ErrorIs(t, err, common.ErrorDecrypt)
}

func TestBackupImport(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "bak-imp", "password123")
	ctx := context.Background()
	now := time.Now().Unix()
	seedAccount(t, env, auth, now)

	payload, err := env.backup.Generate(ctx, auth, now)
	require.NoError(t, err)
	exported, err := env.backup.AsEncryptedString(payload, auth.Key)
	require.NoError(t, err)

	// wreck the account, then bring it back
	require.NoError(t, env.entries.PurgeAll(ctx, auth))
	require.NoError(t, env.labels.PurgeAll(ctx, auth))
	require.NoError(t, env.events.PurgeAll(ctx, auth))
	require.NoError(t, env.settings.PurgeAll(ctx, auth))

	require.NoError(t, env.backup.Import(ctx, auth, exported))

	labelsByID, err := env.labels.MapByID(ctx, auth)
	require.NoError(t, err)
	require.Len(t, labelsByID, 1)

	entries, err := env.entries.All(ctx, auth, labelsByID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	events, err := env.events.All(ctx, auth, labelsByID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "flight", events[0].Name)

	value, err := env.settings.GetValue(ctx, auth, "entriesPerPage")
	require.NoError(t, err)
	assert.Equal(t, float64(5), value)

	// the word index was rebuilt, deleted entries stay unsearchable
	results, err := env.wordIndex.Search(ctx, auth, "coast")
	require.NoError(t, err)
	require.Len(t, results, 1)
	results, err = env.wordIndex.Search(ctx, auth, "mind")
	require.NoError(t, err)
	assert.Empty(t, results)
}
