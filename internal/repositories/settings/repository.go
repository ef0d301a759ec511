// Package settings stores typed per-user settings. Value column values are
// ciphertext over a JSON encoding.
package settings

import (
	"context"

	"github.com/dmitrijs2005/journalkeeper/internal/models"
)

type Repository interface {
	Insert(ctx context.Context, s *models.RawSetting) error

	// SelectAll returns every settings row for a user, oldest first so the
	// duplicate-key repair can identify the row to keep deterministically.
	SelectAll(ctx context.Context, userID string) ([]models.RawSetting, error)

	// SelectByKey returns the rows for one key (at most one under correct
	// upsert logic), oldest first.
	SelectByKey(ctx context.Context, userID, key string) ([]models.RawSetting, error)

	// UpdateValue overwrites a row's value and refreshes its created stamp.
	UpdateValue(ctx context.Context, id, valueEnc string, created int64) error

	// UpdateValueKeepCreated overwrites only the value. Used by key rotation,
	// which must not look like a user edit.
	UpdateValueKeepCreated(ctx context.Context, id, valueEnc string) error

	// DeleteDuplicates removes every row for (userID, key) except the oldest.
	DeleteDuplicates(ctx context.Context, userID, key string) error

	PurgeAll(ctx context.Context, userID string) error
}
