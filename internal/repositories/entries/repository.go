// Package entries provides the storage layer for journal entries and their
// edit snapshots. All content columns hold ciphertext; the services layer
// owns encryption and never hands plaintext down here.
package entries

import (
	"context"

	"github.com/dmitrijs2005/journalkeeper/internal/models"
)

type Repository interface {
	// Insert writes one entry row.
	Insert(ctx context.Context, e *models.RawEntry) error

	// InsertEdit appends one immutable edit snapshot row.
	InsertEdit(ctx context.Context, e *models.RawEntryEdit) error

	// Count returns the number of entry rows (deleted included) for a user.
	Count(ctx context.Context, userID string) (int64, error)

	// GetByID returns a single raw entry or common.ErrorNotFound.
	GetByID(ctx context.Context, userID, id string) (*models.RawEntry, error)

	// GetDeleted returns the deleted timestamp of an entry (nil when not
	// soft-deleted) or common.ErrorNotFound when no row matches.
	GetDeleted(ctx context.Context, userID, id string) (*int64, error)

	// SetDeleted stamps or clears the soft-delete marker. Setting it also
	// clears label_id and pinned; clearing it leaves them untouched.
	SetDeleted(ctx context.Context, userID, id string, deleted *int64) error

	// SetPinned stamps or clears the pinned marker.
	SetPinned(ctx context.Context, userID, id string, pinned *int64) error

	// Update overwrites an entry's content after an edit.
	Update(ctx context.Context, userID, id, titleEnc, bodyEnc string, labelID *string, wordCount int) error

	// ReassignLabels moves every reference from one label to another, in
	// both entries and entry_edits.
	ReassignLabels(ctx context.Context, userID, oldLabelID, newLabelID string) error

	// RemoveLabel clears every reference to a label, in both entries and
	// entry_edits.
	RemoveLabel(ctx context.Context, userID, labelID string) error

	// SelectTimeline returns (created, tz offset) of all non-deleted
	// entries, newest first.
	SelectTimeline(ctx context.Context, userID string) ([]models.EntryTimes, error)

	// SelectTimesBefore returns the most recent non-deleted entry strictly
	// earlier than localTime by local wall-clock, or nil.
	SelectTimesBefore(ctx context.Context, userID string, localTime int64) (*models.EntryTimes, error)

	// SelectAllRaw returns every entry row for a user, deleted included,
	// newest first.
	SelectAllRaw(ctx context.Context, userID string) ([]models.RawEntry, error)

	// SelectAllEdits returns every edit row for a user, oldest first.
	SelectAllEdits(ctx context.Context, userID string) ([]models.RawEntryEdit, error)

	// SelectEditsForEntry returns the edit rows of one entry, oldest first.
	SelectEditsForEntry(ctx context.Context, userID, entryID string) ([]models.RawEntryEdit, error)

	// PurgeAll hard-deletes all entry and edit rows for a user.
	PurgeAll(ctx context.Context, userID string) error
}
