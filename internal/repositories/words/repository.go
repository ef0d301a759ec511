// Package words stores the per-user encrypted inverted word index. Word
// column values are ciphertext; counts and deletion flags are plain.
package words

import (
	"context"

	"github.com/dmitrijs2005/journalkeeper/internal/models"
)

type Repository interface {
	// Insert writes one index row. Rows are independent: a failure partway
	// through an index rebuild leaves a partial index, which is acceptable
	// because the entry content is the source of truth and the next edit
	// rebuilds fully.
	Insert(ctx context.Context, w *models.WordIndexEntry) error

	// DeleteForEntry removes every index row of one entry.
	DeleteForEntry(ctx context.Context, userID, entryID string) error

	// SetEntryDeleted flips the deletion flag on every row of one entry.
	SetEntryDeleted(ctx context.Context, userID, entryID string, deleted bool) error

	// SelectActive returns all index rows of non-deleted entries for a user.
	SelectActive(ctx context.Context, userID string) ([]models.WordIndexEntry, error)

	// SelectForEntry returns the index rows of one entry.
	SelectForEntry(ctx context.Context, userID, entryID string) ([]models.WordIndexEntry, error)

	// PurgeAll removes every index row for a user.
	PurgeAll(ctx context.Context, userID string) error
}
