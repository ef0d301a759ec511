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

func TestUserRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().Unix()

	t.Run("ok", func(t *testing.T) {
		user, err := env.users.Register(ctx, "alice", "password123", now)
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.NotEmpty(t, user.Salt)
		assert.NotEmpty(t, user.Verifier)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := env.users.Register(ctx, "alice", "password456", now)
		require.ErrorIs(t, err, common.ErrorStateConflict)
	})

	t.Run("username too short", func(t *testing.T) {
		_, err := env.users.Register(ctx, "ab", "password123", now)
		require.ErrorIs(t, err, common.ErrorValidation)
	})

	t.Run("password too short", func(t *testing.T) {
		_, err := env.users.Register(ctx, "bob", "short", now)
		require.ErrorIs(t, err, common.ErrorValidation)
	})
}

func TestUserLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Register(ctx, "carol", "password123", time.Now().Unix())
	require.NoError(t, err)

	t.Run("ok", func(t *testing.T) {
		auth, token, err := env.users.Login(ctx, "carol", "password123")
		require.NoError(t, err)
		assert.Equal(t, "carol", auth.Username)
		assert.NotEmpty(t, auth.Key)
		assert.NotEmpty(t, token)

		user, err := env.users.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, auth.UserID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := env.users.Login(ctx, "carol", "password124")
		require.ErrorIs(t, err, common.ErrorUnauthorized)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := env.users.Login(ctx, "nobody", "password123")
		require.ErrorIs(t, err, common.ErrorUnauthorized)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := env.users.Authenticate(ctx, "not.a.token")
		require.Error(t, err)
	})
}

func TestChangePassword_Validation(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "dave", "password123")
	ctx := context.Background()
	now := time.Now().Unix()

	_, err := env.users.ChangePassword(ctx, auth, "", "newpassword1", now)
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = env.users.ChangePassword(ctx, auth, "password123", "short", now)
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = env.users.ChangePassword(ctx, auth, "password123", "password123", now)
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = env.users.ChangePassword(ctx, auth, "wrongpassword", "newpassword1", now)
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestChangePassword_RotatesEverything(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "erin", "password123")
	ctx := context.Background()
	now := time.Now().Unix()

	label, err := env.labels.Create(ctx, auth, "diary", "#0000ff", now)
	require.NoError(t, err)
	entry, err := env.entries.Create(ctx, auth, []models.Label{*label}, &CreateEntryArgs{
		Title: "kept", Body: "precious memories", Created: now, LabelID: &label.ID,
		Edits: []EntryEditArgs{{OldTitle: "old", OldBody: "older memories", Created: now - 10}},
	})
	require.NoError(t, err)
	_, err = env.events.Create(ctx, auth, map[string]models.Label{label.ID: *label},
		"trip", now, now+3600, 0, &label.ID, now)
	require.NoError(t, err)
	_, err = env.settings.Update(ctx, auth, "passcode", "9876", now)
	require.NoError(t, err)

	oldKey := auth.Key

	newAuth, err := env.users.ChangePassword(ctx, auth, "password123", "password456", now+1)
	require.NoError(t, err)
	require.NotEqual(t, oldKey, newAuth.Key)

	t.Run("old password no longer logs in", func(t *testing.T) {
		_, _, err := env.users.Login(ctx, "erin", "password123")
		require.ErrorIs(t, err, common.ErrorUnauthorized)
	})

	t.Run("new password logs in with the new key", func(t *testing.T) {
		loginAuth, _, err := env.users.Login(ctx, "erin", "password456")
		require.NoError(t, err)
		assert.Equal(t, newAuth.Key, loginAuth.Key)
	})

	t.Run("data decrypts under the new key only", func(t *testing.T) {
		labelsByID, err := env.labels.MapByID(ctx, newAuth)
		require.NoError(t, err)

		entries, err := env.entries.All(ctx, newAuth, labelsByID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "kept", entries[0].Title)
		assert.Equal(t, "precious memories", entries[0].Body)
		require.Len(t, entries[0].Edits, 1)
		assert.Equal(t, "older memories", entries[0].Edits[0].OldBody)
		require.NotNil(t, entries[0].Label)
		assert.Equal(t, "diary", entries[0].Label.Name)

		events, err := env.events.All(ctx, newAuth, labelsByID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "trip", events[0].Name)

		value, err := env.settings.GetValue(ctx, newAuth, "passcode")
		require.NoError(t, err)
		assert.Equal(t, "9876", value)

		// reads under the old key fail loudly
		staleAuth := &models.Auth{UserID: auth.UserID, Username: auth.Username, Key: oldKey}
		_, err = env.entries.All(ctx, staleAuth, map[string]models.Label{})
		require.ErrorIs(t, err, common.ErrorDecrypt)
		_, err = env.settings.GetValue(ctx, staleAuth, "passcode")
		require.ErrorIs(t, err, common.ErrorDecrypt)
	})

	t.Run("search still works under the new key", func(t *testing.T) {
		results, err := env.wordIndex.Search(ctx, newAuth, "memories")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.NotEqual(t, entry.ID, results[0].EntryID, "restored entries get fresh ids")
	})
}

func TestUserPurge(t *testing.T) {
	env := newTestEnv(t)
	auth := env.newTestUser(t, "frank", "password123")
	ctx := context.Background()
	now := time.Now().Unix()

	_, err := env.entries.Create(ctx, auth, nil, &CreateEntryArgs{Body: "bye", Created: now})
	require.NoError(t, err)
	_, err = env.labels.Create(ctx, auth, "l", "#333333", now)
	require.NoError(t, err)
	_, err = env.settings.Update(ctx, auth, "preferLocationOn", true, now)
	require.NoError(t, err)

	require.NoError(t, env.users.Purge(ctx, auth))

	_, _, err = env.users.Login(ctx, "frank", "password123")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	count, err := env.rm.Entries(env.db).Count(ctx, auth.UserID)
	require.NoError(t, err)
	assert.Zero(t, count)

	rows, err := env.rm.Words(env.db).SelectActive(ctx, auth.UserID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
