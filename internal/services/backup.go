package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/journalkeeper/internal/cryptox"
	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
	"github.com/dmitrijs2005/journalkeeper/internal/logging"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/journalkeeper/internal/uid"
)

// BackupService exports a user's data as one decrypted payload, wraps it as
// a single encrypted string, and restores payloads back into the database.
// Restore is also the workhorse of key rotation: restoring under a new key
// re-encrypts everything.
type BackupService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	uid         *uid.Generator
	entries     *EntryService
	labels      *LabelService
	events      *EventService
	settings    *SettingsService
	wordIndex   *WordIndexService
	logger      logging.Logger
}

func NewBackupService(db *sql.DB, m repomanager.RepositoryManager, g *uid.Generator,
	entries *EntryService, labels *LabelService, events *EventService,
	settings *SettingsService, wordIndex *WordIndexService, logger logging.Logger) *BackupService {
	return &BackupService{
		db: db, repomanager: m, uid: g,
		entries: entries, labels: labels, events: events,
		settings: settings, wordIndex: wordIndex, logger: logger,
	}
}

// Generate decrypts all of the user's entries, labels, events and settings
// into one Backup payload. Any row failing to decrypt aborts the export: a
// backup must be complete or not exist.
func (s *BackupService) Generate(ctx context.Context, auth *models.Auth, now int64) (*models.Backup, error) {
	labelsByID, err := s.labels.MapByID(ctx, auth)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.All(ctx, auth, labelsByID)
	if err != nil {
		return nil, err
	}
	labels, err := s.labels.All(ctx, auth)
	if err != nil {
		return nil, err
	}
	events, err := s.events.All(ctx, auth, labelsByID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.All(ctx, auth)
	if err != nil {
		return nil, err
	}

	backup := &models.Backup{Created: now}

	for _, e := range entries {
		be := models.BackupEntry{
			Title:           e.Title,
			Body:            e.Body,
			Created:         e.Created,
			CreatedTzOffset: e.CreatedTzOffset,
			Deleted:         e.Deleted,
			Pinned:          e.Pinned,
			Latitude:        e.Latitude,
			Longitude:       e.Longitude,
			AgentData:       e.AgentData,
			WordCount:       e.WordCount,
		}
		if e.Label != nil {
			labelID := e.Label.ID
			be.LabelID = &labelID
		}
		for _, edit := range e.Edits {
			bee := models.BackupEntryEdit{
				OldTitle:        edit.OldTitle,
				OldBody:         edit.OldBody,
				Created:         edit.Created,
				CreatedTzOffset: edit.CreatedTzOffset,
				Latitude:        edit.Latitude,
				Longitude:       edit.Longitude,
				AgentData:       edit.AgentData,
			}
			if edit.OldLabel != nil {
				labelID := edit.OldLabel.ID
				bee.OldLabelID = &labelID
			}
			be.Edits = append(be.Edits, bee)
		}
		backup.Entries = append(backup.Entries, be)
	}

	for _, l := range labels {
		backup.Labels = append(backup.Labels, models.BackupLabel{
			ID: l.ID, Name: l.Name, Color: l.Color, Created: l.Created,
		})
	}
	for _, e := range events {
		be := models.BackupEvent{
			Name: e.Name, Start: e.Start, End: e.End, TzOffset: e.TzOffset, Created: e.Created,
		}
		if e.Label != nil {
			labelID := e.Label.ID
			be.LabelID = &labelID
		}
		backup.Events = append(backup.Events, be)
	}
	for _, st := range settings {
		backup.Settings = append(backup.Settings, models.BackupSetting{
			Key: st.Key, Value: st.Value, Created: st.Created,
		})
	}

	return backup, nil
}

// AsEncryptedString serializes the backup to JSON and encrypts it as one
// opaque string under the given key.
func (s *BackupService) AsEncryptedString(backup *models.Backup, key string) (string, error) {
	encoded, err := json.Marshal(backup)
	if err != nil {
		return "", fmt.Errorf("error encoding backup: %w", err)
	}
	encrypted := cryptox.Encrypt(string(encoded), key)
	return encrypted, nil
}

// FromEncryptedString decrypts and decodes a backup produced by
// AsEncryptedString.
func (s *BackupService) FromEncryptedString(encrypted, key string) (*models.Backup, error) {
	plain, err := cryptox.Decrypt(encrypted, key)
	if err != nil {
		return nil, err
	}
	backup := &models.Backup{}
	if err := json.Unmarshal([]byte(plain), backup); err != nil {
		return nil, fmt.Errorf("error decoding backup: %w", err)
	}
	return backup, nil
}

// Restore purges the user's labels, entries, edits, word index and events,
// then recreates them from the payload encrypted under auth.Key. It runs on
// the caller's handle so it can participate in a larger transaction (key
// rotation). Settings are not touched here; RestoreSettings and
// ChangeEncryptionKeyInDB cover the two settings flows.
//
// Labels keep their payload IDs so entry and event references stay intact;
// entries, edits and events receive fresh IDs.
func (s *BackupService) Restore(ctx context.Context, db dbx.DBTX, auth *models.Auth, backup *models.Backup) error {
	entriesRepo := s.repomanager.Entries(db)
	wordsRepo := s.repomanager.Words(db)
	labelsRepo := s.repomanager.Labels(db)
	eventsRepo := s.repomanager.Events(db)
	idsRepo := s.repomanager.IDs(db)

	if err := entriesRepo.PurgeAll(ctx, auth.UserID); err != nil {
		return fmt.Errorf("error purging entries: %w", err)
	}
	if err := wordsRepo.PurgeAll(ctx, auth.UserID); err != nil {
		return fmt.Errorf("error purging word index: %w", err)
	}
	if err := labelsRepo.PurgeAll(ctx, auth.UserID); err != nil {
		return fmt.Errorf("error purging labels: %w", err)
	}
	if err := eventsRepo.PurgeAll(ctx, auth.UserID); err != nil {
		return fmt.Errorf("error purging events: %w", err)
	}

	for _, l := range backup.Labels {
		// keep payload IDs; record them for uniqueness, ignoring rows that
		// are already known
		if _, err := idsRepo.TryInsert(ctx, l.ID); err != nil {
			return fmt.Errorf("error recording label id: %w", err)
		}
		nameEnc := cryptox.Encrypt(l.Name, auth.Key)
		raw := &models.RawLabel{ID: l.ID, UserID: auth.UserID, Name: nameEnc, Color: l.Color, Created: l.Created}
		if err := labelsRepo.Insert(ctx, raw); err != nil {
			return fmt.Errorf("error restoring label: %w", err)
		}
	}

	for _, e := range backup.Entries {
		id, err := s.uid.Generate(ctx, db)
		if err != nil {
			return err
		}
		titleEnc := cryptox.Encrypt(e.Title, auth.Key)
		bodyEnc := cryptox.Encrypt(e.Body, auth.Key)
		agentDataEnc := cryptox.Encrypt(e.AgentData, auth.Key)
		raw := &models.RawEntry{
			ID:              id,
			UserID:          auth.UserID,
			Title:           titleEnc,
			Body:            bodyEnc,
			Created:         e.Created,
			CreatedTzOffset: e.CreatedTzOffset,
			Deleted:         e.Deleted,
			Pinned:          e.Pinned,
			LabelID:         e.LabelID,
			Latitude:        e.Latitude,
			Longitude:       e.Longitude,
			AgentData:       agentDataEnc,
			WordCount:       e.WordCount,
		}
		if err := entriesRepo.Insert(ctx, raw); err != nil {
			return fmt.Errorf("error restoring entry: %w", err)
		}

		if err := s.wordIndex.RebuildForEntry(ctx, db, auth, id, e.Title, e.Body, e.Deleted != nil, false); err != nil {
			return err
		}

		for _, edit := range e.Edits {
			editID, err := s.uid.Generate(ctx, db)
			if err != nil {
				return err
			}
			oldTitleEnc := cryptox.Encrypt(edit.OldTitle, auth.Key)
			oldBodyEnc := cryptox.Encrypt(edit.OldBody, auth.Key)
			editAgentDataEnc := cryptox.Encrypt(edit.AgentData, auth.Key)
			rawEdit := &models.RawEntryEdit{
				ID:              editID,
				EntryID:         id,
				UserID:          auth.UserID,
				OldTitle:        oldTitleEnc,
				OldBody:         oldBodyEnc,
				OldLabelID:      edit.OldLabelID,
				Created:         edit.Created,
				CreatedTzOffset: edit.CreatedTzOffset,
				Latitude:        edit.Latitude,
				Longitude:       edit.Longitude,
				AgentData:       editAgentDataEnc,
			}
			if err := entriesRepo.InsertEdit(ctx, rawEdit); err != nil {
				return fmt.Errorf("error restoring entry edit: %w", err)
			}
		}
	}

	for _, e := range backup.Events {
		id, err := s.uid.Generate(ctx, db)
		if err != nil {
			return err
		}
		nameEnc := cryptox.Encrypt(e.Name, auth.Key)
		raw := &models.RawEvent{
			ID:       id,
			UserID:   auth.UserID,
			Name:     nameEnc,
			Start:    e.Start,
			End:      e.End,
			TzOffset: e.TzOffset,
			LabelID:  e.LabelID,
			Created:  e.Created,
		}
		if err := eventsRepo.Insert(ctx, raw); err != nil {
			return fmt.Errorf("error restoring event: %w", err)
		}
	}

	s.logger.Info(ctx, "backup restored",
		"entries", len(backup.Entries), "labels", len(backup.Labels), "events", len(backup.Events))
	return nil
}

// RestoreSettings purges the user's settings rows and recreates them from
// the payload. Key rotation does not use this (it re-encrypts rows in
// place); importing a backup into an account does.
func (s *BackupService) RestoreSettings(ctx context.Context, db dbx.DBTX, auth *models.Auth, backup *models.Backup) error {
	repo := s.repomanager.Settings(db)

	if err := repo.PurgeAll(ctx, auth.UserID); err != nil {
		return fmt.Errorf("error purging settings: %w", err)
	}
	for _, st := range backup.Settings {
		if _, ok := SettingsConfig[st.Key]; !ok {
			s.logger.Warn(ctx, "skipping unknown setting in backup", "key", st.Key)
			continue
		}
		id, err := s.uid.Generate(ctx, db)
		if err != nil {
			return err
		}
		encoded, err := json.Marshal(st.Value)
		if err != nil {
			return fmt.Errorf("error encoding setting value: %w", err)
		}
		valueEnc := cryptox.Encrypt(string(encoded), auth.Key)
		raw := &models.RawSetting{ID: id, UserID: auth.UserID, Created: st.Created, Key: st.Key, Value: valueEnc}
		if err := repo.Insert(ctx, raw); err != nil {
			return fmt.Errorf("error restoring setting: %w", err)
		}
	}
	return nil
}

// Import decrypts an exported backup string and restores it, settings
// included, in one transaction.
func (s *BackupService) Import(ctx context.Context, auth *models.Auth, encrypted string) error {
	backup, err := s.FromEncryptedString(encrypted, auth.Key)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.Restore(ctx, tx, auth, backup); err != nil {
			return err
		}
		return s.RestoreSettings(ctx, tx, auth, backup)
	})
}
