package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/journalkeeper/internal/common"
	"github.com/dmitrijs2005/journalkeeper/internal/cryptox"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
)

func TestSettingsUpdate(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "set-update", "password123")
	ctx := context.Background()
	now := time.Now().Unix()

	t.Run("unknown key rejected", func(t *testing.T) {
		_, err := env.settings.Update(ctx, auth, "noSuchSetting", true, now)
		require.ErrorIs(t, err, common.ErrorValidation)
	})

	t.Run("wrong kind rejected and no row written", func(t *testing.T) {
		_, err := env.settings.Update(ctx, auth, "hideEntriesByDefault", "yes", now)
		require.ErrorIs(t, err, common.ErrorValidation)

		rows, err := env.rm.Settings(env.db).SelectByKey(ctx, auth.UserID, "hideEntriesByDefault")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("upsert keeps one row per key", func(t *testing.T) {
		first, err := env.settings.Update(ctx, auth, "entriesPerPage", float64(50), now)
		require.NoError(t, err)

		second, err := env.settings.Update(ctx, auth, "entriesPerPage", float64(10), now+5)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID, "update happens in place")
		assert.EqualValues(t, now+5, second.Created, "created refreshes on update")

		rows, err := env.rm.Settings(env.db).SelectByKey(ctx, auth.UserID, "entriesPerPage")
		require.NoError(t, err)
		require.Len(t, rows, 1)

		value, err := env.settings.GetValue(ctx, auth, "entriesPerPage")
		require.NoError(t, err)
		assert.Equal(t, float64(10), value)
	})
}

func TestSettingsGetValue_DefaultFallback(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "set-default", "password123")
	ctx := context.Background()

	value, err := env.settings.GetValue(ctx, auth, "entriesPerPage")
	require.NoError(t, err)
	assert.Equal(t, float64(25), value)

	value, err = env.settings.GetValue(ctx, auth, "passcode")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	_, err = env.settings.GetValue(ctx, auth, "bogus")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestSettingsAll_SelfHealsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "set-dup", "password123")
	ctx := context.Background()
	now := time.Now().Unix()

	// plant duplicate rows behind the service's back
	repo := env.rm.Settings(env.db)
	for i, created := range []int64{now, now + 10, now + 20} {
		raw := &models.RawSetting{
			ID:      string(rune('a' + i)),
			UserID:  auth.UserID,
			Created: created,
			Key:     "hideEntriesByDefault",
			Value:   cryptox.Encrypt("true", auth.Key),
		}
		require.NoError(t, repo.Insert(ctx, raw))
	}

	settings, err := env.settings.All(ctx, auth)
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, "a", settings[0].ID, "the oldest row survives")

	rows, err := repo.SelectByKey(ctx, auth.UserID, "hideEntriesByDefault")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	var logged bool
	for _, r := range env.log.Records() {
		if r.Level == "ERROR" {
			logged = true
		}
	}
	assert.True(t, logged, "duplicate repair is logged")
}

func TestSettingsAllAsMapWithDefaults(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "set-map", "password123")
	ctx := context.Background()

	_, err := env.settings.Update(ctx, auth, "preferLocationOn", true, time.Now().Unix())
	require.NoError(t, err)

	all, err := env.settings.AllAsMapWithDefaults(ctx, auth)
	require.NoError(t, err)
	assert.Len(t, all, len(SettingsConfig))
	assert.Equal(t, true, all["preferLocationOn"])
	assert.Equal(t, float64(25), all["entriesPerPage"])
}

func TestSettingsChangeEncryptionKeyInDB(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "set-rotate", "password123")
	ctx := context.Background()

	_, err := env.settings.Update(ctx, auth, "passcode", "1234", time.Now().Unix())
	require.NoError(t, err)

	const newKey = "completely-different-key"
	require.NoError(t, env.settings.ChangeEncryptionKeyInDB(ctx, env.db, auth, newKey))

	// old key no longer works
	_, err = env.settings.GetValue(ctx, auth, "passcode")
	require.ErrorIs(t, err, common.ErrorDecrypt)

	newAuth := &models.Auth{UserID: auth.UserID, Username: auth.Username, Key: newKey}
	value, err := env.settings.GetValue(ctx, newAuth, "passcode")
	require.NoError(t, err)
	assert.Equal(t, "1234", value)
}
