package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/journalkeeper/internal/common"
	"github.com/dmitrijs2005/journalkeeper/internal/cryptox"
	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
	"github.com/dmitrijs2005/journalkeeper/internal/logging"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/journalkeeper/internal/textx"
	"github.com/dmitrijs2005/journalkeeper/internal/timex"
	"github.com/dmitrijs2005/journalkeeper/internal/uid"
)

// EntryService owns the lifecycle of journal entries: creation, edits with
// snapshot history, soft deletion, pinning and label cascades. Content is
// encrypted with the caller's key before it reaches a repository, and every
// multi-row mutation runs in one transaction.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	uid         *uid.Generator
	wordIndex   *WordIndexService
	logger      logging.Logger
	maxEntries  int
}

func NewEntryService(db *sql.DB, m repomanager.RepositoryManager, g *uid.Generator,
	wi *WordIndexService, logger logging.Logger, maxEntries int) *EntryService {
	return &EntryService{db: db, repomanager: m, uid: g, wordIndex: wi, logger: logger, maxEntries: maxEntries}
}

// EntryEditArgs is one historical edit supplied at entry creation, before it
// has an ID of its own.
type EntryEditArgs struct {
	OldTitle        string
	OldBody         string
	OldLabelID      *string
	Created         int64
	CreatedTzOffset float64
	Latitude        *float64
	Longitude       *float64
	AgentData       string
}

// CreateEntryArgs carries everything needed to create an entry. Title, Body
// and AgentData are plaintext here; the service encrypts them.
type CreateEntryArgs struct {
	Title           string
	Body            string
	Created         int64
	CreatedTzOffset float64
	Pinned          *int64
	Deleted         *int64
	Latitude        *float64
	Longitude       *float64
	LabelID         *string
	AgentData       string
	Edits           []EntryEditArgs
}

// Create inserts a new entry together with its word index rows and any
// historical edit snapshots, all in one transaction. labels must be the
// user's current labels; a LabelID not among them is rejected. The entry
// count quota includes soft-deleted entries.
//
// The stored word count is always recomputed from Body, even on the import
// path; caller-supplied counts are not trusted, so a restored entry can
// never disagree with its own text.
func (s *EntryService) Create(ctx context.Context, auth *models.Auth, labels []models.Label, args *CreateEntryArgs) (*models.Entry, error) {
	repo := s.repomanager.Entries(s.db)

	count, err := repo.Count(ctx, auth.UserID)
	if err != nil {
		return nil, fmt.Errorf("error counting entries: %w", err)
	}
	if count >= int64(s.maxEntries) {
		return nil, fmt.Errorf("%w: maximum number of entries (%d) reached", common.ErrorLimitExceeded, s.maxEntries)
	}

	var label *models.Label
	if args.LabelID != nil {
		for i := range labels {
			if labels[i].ID == *args.LabelID {
				label = &labels[i]
				break
			}
		}
		if label == nil {
			s.logger.Error(ctx, "label not found", "labelId", *args.LabelID, "username", auth.Username)
			return nil, common.ErrorLabelNotFound
		}
	}

	titleEnc := cryptox.Encrypt(args.Title, auth.Key)
	bodyEnc := cryptox.Encrypt(args.Body, auth.Key)
	agentDataEnc := cryptox.Encrypt(args.AgentData, auth.Key)

	entry := &models.Entry{
		Title:           args.Title,
		Body:            args.Body,
		Created:         args.Created,
		CreatedTzOffset: args.CreatedTzOffset,
		Deleted:         args.Deleted,
		Pinned:          args.Pinned,
		Label:           label,
		Latitude:        args.Latitude,
		Longitude:       args.Longitude,
		AgentData:       args.AgentData,
		WordCount:       textx.WordCount(args.Body),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		id, err := s.uid.Generate(ctx, tx)
		if err != nil {
			return err
		}
		entry.ID = id

		if err := s.wordIndex.RebuildForEntry(ctx, tx, auth, id, args.Title, args.Body, args.Deleted != nil, false); err != nil {
			return err
		}

		raw := &models.RawEntry{
			ID:              id,
			UserID:          auth.UserID,
			Title:           titleEnc,
			Body:            bodyEnc,
			Created:         args.Created,
			CreatedTzOffset: args.CreatedTzOffset,
			Deleted:         args.Deleted,
			Pinned:          args.Pinned,
			LabelID:         args.LabelID,
			Latitude:        args.Latitude,
			Longitude:       args.Longitude,
			AgentData:       agentDataEnc,
			WordCount:       entry.WordCount,
		}
		repoTx := s.repomanager.Entries(tx)
		if err := repoTx.Insert(ctx, raw); err != nil {
			return fmt.Errorf("error inserting entry: %w", err)
		}

		for _, e := range args.Edits {
			editID, err := s.uid.Generate(ctx, tx)
			if err != nil {
				return err
			}
			oldTitleEnc := cryptox.Encrypt(e.OldTitle, auth.Key)
			oldBodyEnc := cryptox.Encrypt(e.OldBody, auth.Key)
			editAgentDataEnc := cryptox.Encrypt(e.AgentData, auth.Key)
			rawEdit := &models.RawEntryEdit{
				ID:              editID,
				EntryID:         id,
				UserID:          auth.UserID,
				OldTitle:        oldTitleEnc,
				OldBody:         oldBodyEnc,
				OldLabelID:      e.OldLabelID,
				Created:         e.Created,
				CreatedTzOffset: e.CreatedTzOffset,
				Latitude:        e.Latitude,
				Longitude:       e.Longitude,
				AgentData:       editAgentDataEnc,
			}
			if err := repoTx.InsertEdit(ctx, rawEdit); err != nil {
				return fmt.Errorf("error inserting entry edit: %w", err)
			}

			var oldLabel *models.Label
			if e.OldLabelID != nil {
				for i := range labels {
					if labels[i].ID == *e.OldLabelID {
						oldLabel = &labels[i]
						break
					}
				}
			}
			entry.Edits = append(entry.Edits, models.EntryEdit{
				ID:              editID,
				EntryID:         id,
				OldTitle:        e.OldTitle,
				OldBody:         e.OldBody,
				OldLabel:        oldLabel,
				Created:         e.Created,
				CreatedTzOffset: e.CreatedTzOffset,
				Latitude:        e.Latitude,
				Longitude:       e.Longitude,
				AgentData:       e.AgentData,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Edit snapshots the entry's current content into an edit row, overwrites
// the entry with the new content and rebuilds its word index, in one
// transaction. The caller guarantees the entry is not soft-deleted.
func (s *EntryService) Edit(ctx context.Context, auth *models.Auth, entry *models.Entry,
	editTitle, editBody string, editLatitude, editLongitude *float64,
	editLabelID *string, editTzOffset float64, editAgentData string, now int64) error {

	oldTitleEnc := cryptox.Encrypt(entry.Title, auth.Key)
	oldBodyEnc := cryptox.Encrypt(entry.Body, auth.Key)
	agentDataEnc := cryptox.Encrypt(editAgentData, auth.Key)
	newTitleEnc := cryptox.Encrypt(editTitle, auth.Key)
	newBodyEnc := cryptox.Encrypt(editBody, auth.Key)

	var oldLabelID *string
	if entry.Label != nil {
		oldLabelID = &entry.Label.ID
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		editID, err := s.uid.Generate(ctx, tx)
		if err != nil {
			return err
		}
		repoTx := s.repomanager.Entries(tx)

		rawEdit := &models.RawEntryEdit{
			ID:              editID,
			EntryID:         entry.ID,
			UserID:          auth.UserID,
			OldTitle:        oldTitleEnc,
			OldBody:         oldBodyEnc,
			OldLabelID:      oldLabelID,
			Created:         now,
			CreatedTzOffset: editTzOffset,
			Latitude:        editLatitude,
			Longitude:       editLongitude,
			AgentData:       agentDataEnc,
		}
		if err := repoTx.InsertEdit(ctx, rawEdit); err != nil {
			return fmt.Errorf("error inserting entry edit: %w", err)
		}

		if err := repoTx.Update(ctx, auth.UserID, entry.ID, newTitleEnc, newBodyEnc, editLabelID, textx.WordCount(editBody)); err != nil {
			return fmt.Errorf("error updating entry: %w", err)
		}

		// a deleted entry cannot be edited, so the rebuilt rows are live
		return s.wordIndex.RebuildForEntry(ctx, tx, auth, entry.ID, editTitle, editBody, false, true)
	})
}

// Delete soft-deletes an entry, or restores it when restore is set. Deleting
// clears the entry's label and pinned state; restoring does not bring them
// back. The entry's word index rows flip with it so search skips deleted
// entries. Deleting an already-deleted entry (or restoring a live one)
// returns common.ErrorStateConflict.
func (s *EntryService) Delete(ctx context.Context, auth *models.Auth, id string, restore bool, now int64) error {
	repo := s.repomanager.Entries(s.db)

	deleted, err := repo.GetDeleted(ctx, auth.UserID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error loading entry: %w", err)
	}
	if (deleted != nil) == !restore {
		return common.ErrorStateConflict
	}

	var newDeleted *int64
	if !restore {
		newDeleted = &now
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Entries(tx).SetDeleted(ctx, auth.UserID, id, newDeleted); err != nil {
			return fmt.Errorf("error updating entry: %w", err)
		}
		if err := s.repomanager.Words(tx).SetEntryDeleted(ctx, auth.UserID, id, !restore); err != nil {
			return fmt.Errorf("error updating word index: %w", err)
		}
		return nil
	})
}

// SetPinned pins or unpins an entry and returns the updated entry. A no-op
// change returns the entry unchanged.
func (s *EntryService) SetPinned(ctx context.Context, auth *models.Auth, entry *models.Entry, pinned bool, now int64) (*models.Entry, error) {
	if entry.IsPinned() == pinned {
		return entry, nil
	}

	var newPinned *int64
	if pinned {
		newPinned = &now
	}

	repo := s.repomanager.Entries(s.db)
	if err := repo.SetPinned(ctx, auth.UserID, entry.ID, newPinned); err != nil {
		return nil, fmt.Errorf("error updating entry: %w", err)
	}

	updated := *entry
	updated.Pinned = newPinned
	return &updated, nil
}

// ReassignAllLabels moves every entry and edit reference from one label to
// another.
func (s *EntryService) ReassignAllLabels(ctx context.Context, auth *models.Auth, oldLabelID, newLabelID string) error {
	return s.repomanager.Entries(s.db).ReassignLabels(ctx, auth.UserID, oldLabelID, newLabelID)
}

// RemoveAllLabel clears every entry and edit reference to a label.
func (s *EntryService) RemoveAllLabel(ctx context.Context, auth *models.Auth, labelID string) error {
	return s.repomanager.Entries(s.db).RemoveLabel(ctx, auth.UserID, labelID)
}

// EditFromRaw decrypts a stored edit snapshot and resolves its old label
// against the given label map. A dangling label reference is an error.
func (s *EntryService) EditFromRaw(ctx context.Context, auth *models.Auth, labelsByID map[string]models.Label, rawEdit *models.RawEntryEdit) (*models.EntryEdit, error) {
	oldTitle, err := cryptox.Decrypt(rawEdit.OldTitle, auth.Key)
	if err != nil {
		return nil, err
	}
	oldBody, err := cryptox.Decrypt(rawEdit.OldBody, auth.Key)
	if err != nil {
		return nil, err
	}
	agentData, err := cryptox.Decrypt(rawEdit.AgentData, auth.Key)
	if err != nil {
		return nil, err
	}

	var oldLabel *models.Label
	if rawEdit.OldLabelID != nil {
		label, ok := labelsByID[*rawEdit.OldLabelID]
		if !ok {
			s.logger.Error(ctx, "label not found", "editId", rawEdit.ID, "labelId", *rawEdit.OldLabelID)
			return nil, common.ErrorLabelNotFound
		}
		oldLabel = &label
	}

	return &models.EntryEdit{
		ID:              rawEdit.ID,
		EntryID:         rawEdit.EntryID,
		OldTitle:        oldTitle,
		OldBody:         oldBody,
		OldLabel:        oldLabel,
		Created:         rawEdit.Created,
		CreatedTzOffset: rawEdit.CreatedTzOffset,
		Latitude:        rawEdit.Latitude,
		Longitude:       rawEdit.Longitude,
		AgentData:       agentData,
	}, nil
}

// FromRaw decrypts a stored entry row and resolves its label. Edits are not
// attached here; callers that need them load and convert edit rows
// separately.
func (s *EntryService) FromRaw(ctx context.Context, auth *models.Auth, labelsByID map[string]models.Label, raw *models.RawEntry) (*models.Entry, error) {
	title, err := cryptox.Decrypt(raw.Title, auth.Key)
	if err != nil {
		return nil, err
	}
	body, err := cryptox.Decrypt(raw.Body, auth.Key)
	if err != nil {
		return nil, err
	}
	agentData, err := cryptox.Decrypt(raw.AgentData, auth.Key)
	if err != nil {
		return nil, err
	}

	var label *models.Label
	if raw.LabelID != nil {
		l, ok := labelsByID[*raw.LabelID]
		if !ok {
			s.logger.Error(ctx, "label not found", "entryId", raw.ID, "labelId", *raw.LabelID)
			return nil, common.ErrorLabelNotFound
		}
		label = &l
	}

	return &models.Entry{
		ID:              raw.ID,
		Title:           title,
		Body:            body,
		Created:         raw.Created,
		CreatedTzOffset: raw.CreatedTzOffset,
		Deleted:         raw.Deleted,
		Pinned:          raw.Pinned,
		Label:           label,
		Latitude:        raw.Latitude,
		Longitude:       raw.Longitude,
		AgentData:       agentData,
		WordCount:       raw.WordCount,
	}, nil
}

// GetByID returns one decrypted entry with its edit history.
func (s *EntryService) GetByID(ctx context.Context, auth *models.Auth, labelsByID map[string]models.Label, id string) (*models.Entry, error) {
	repo := s.repomanager.Entries(s.db)

	raw, err := repo.GetByID(ctx, auth.UserID, id)
	if err != nil {
		return nil, err
	}
	entry, err := s.FromRaw(ctx, auth, labelsByID, raw)
	if err != nil {
		return nil, err
	}

	rawEdits, err := repo.SelectEditsForEntry(ctx, auth.UserID, id)
	if err != nil {
		return nil, fmt.Errorf("error loading entry edits: %w", err)
	}
	for i := range rawEdits {
		edit, err := s.EditFromRaw(ctx, auth, labelsByID, &rawEdits[i])
		if err != nil {
			return nil, err
		}
		entry.Edits = append(entry.Edits, *edit)
	}

	return entry, nil
}

// All returns every entry of the user, soft-deleted included, newest first,
// with edit histories attached. A single row that fails to decrypt aborts
// the whole read.
func (s *EntryService) All(ctx context.Context, auth *models.Auth, labelsByID map[string]models.Label) ([]models.Entry, error) {
	repo := s.repomanager.Entries(s.db)

	rawEntries, err := repo.SelectAllRaw(ctx, auth.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading entries: %w", err)
	}
	rawEdits, err := repo.SelectAllEdits(ctx, auth.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading entry edits: %w", err)
	}

	editsByEntry := map[string][]models.EntryEdit{}
	for i := range rawEdits {
		edit, err := s.EditFromRaw(ctx, auth, labelsByID, &rawEdits[i])
		if err != nil {
			return nil, err
		}
		editsByEntry[edit.EntryID] = append(editsByEntry[edit.EntryID], *edit)
	}

	entries := make([]models.Entry, 0, len(rawEntries))
	for i := range rawEntries {
		entry, err := s.FromRaw(ctx, auth, labelsByID, &rawEntries[i])
		if err != nil {
			return nil, err
		}
		entry.Edits = editsByEntry[entry.ID]
		entries = append(entries, *entry)
	}
	return entries, nil
}

// DayOfEntryBeforeThisOne returns the calendar day of the most recent
// non-deleted entry written strictly before the given one by local
// wall-clock time, or nil when it is the earliest.
func (s *EntryService) DayOfEntryBeforeThisOne(ctx context.Context, auth *models.Auth, entry *models.Entry) (*timex.Day, error) {
	repo := s.repomanager.Entries(s.db)

	times, err := repo.SelectTimesBefore(ctx, auth.UserID, entry.LocalTime())
	if err != nil {
		return nil, fmt.Errorf("error loading entry times: %w", err)
	}
	if times == nil {
		return nil, nil
	}
	day := timex.DayFromTimestamp(times.Created, times.CreatedTzOffset)
	return &day, nil
}

// PurgeAll hard-deletes every entry, edit and word index row of the user.
func (s *EntryService) PurgeAll(ctx context.Context, auth *models.Auth) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Entries(tx).PurgeAll(ctx, auth.UserID); err != nil {
			return fmt.Errorf("error purging entries: %w", err)
		}
		if err := s.repomanager.Words(tx).PurgeAll(ctx, auth.UserID); err != nil {
			return fmt.Errorf("error purging word index: %w", err)
		}
		return nil
	})
}
