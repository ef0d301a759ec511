package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/journalkeeper/internal/common"
	"github.com/dmitrijs2005/journalkeeper/internal/cryptox"
	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/journalkeeper/internal/uid"
)

// LabelService manages user labels. Label names are stored encrypted, so
// uniqueness checks happen here, over decrypted names, not in the database.
type LabelService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	uid         *uid.Generator
}

func NewLabelService(db *sql.DB, m repomanager.RepositoryManager, g *uid.Generator) *LabelService {
	return &LabelService{db: db, repomanager: m, uid: g}
}

// Create adds a label with a name unique among the user's labels.
// A duplicate name returns common.ErrorStateConflict.
func (s *LabelService) Create(ctx context.Context, auth *models.Auth, name, color string, now int64) (*models.Label, error) {
	existing, err := s.All(ctx, auth)
	if err != nil {
		return nil, err
	}
	for _, l := range existing {
		if l.Name == name {
			return nil, fmt.Errorf("%w: label %q already exists", common.ErrorStateConflict, name)
		}
	}

	nameEnc := cryptox.Encrypt(name, auth.Key)

	label := &models.Label{Name: name, Color: color, Created: now}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		id, err := s.uid.Generate(ctx, tx)
		if err != nil {
			return err
		}
		label.ID = id
		raw := &models.RawLabel{ID: id, UserID: auth.UserID, Name: nameEnc, Color: color, Created: now}
		return s.repomanager.Labels(tx).Insert(ctx, raw)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating label: %w", err)
	}
	return label, nil
}

// All returns the user's labels, oldest first, decrypted.
func (s *LabelService) All(ctx context.Context, auth *models.Auth) ([]models.Label, error) {
	rows, err := s.repomanager.Labels(s.db).SelectAll(ctx, auth.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading labels: %w", err)
	}

	labels := make([]models.Label, 0, len(rows))
	for _, raw := range rows {
		name, err := cryptox.Decrypt(raw.Name, auth.Key)
		if err != nil {
			return nil, err
		}
		labels = append(labels, models.Label{ID: raw.ID, Name: name, Color: raw.Color, Created: raw.Created})
	}
	return labels, nil
}

// MapByID returns the user's labels keyed by ID, the shape entry and event
// reads use to resolve references.
func (s *LabelService) MapByID(ctx context.Context, auth *models.Auth) (map[string]models.Label, error) {
	labels, err := s.All(ctx, auth)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Label, len(labels))
	for _, l := range labels {
		byID[l.ID] = l
	}
	return byID, nil
}

// UpdateName renames a label.
func (s *LabelService) UpdateName(ctx context.Context, auth *models.Auth, id, name string) error {
	nameEnc := cryptox.Encrypt(name, auth.Key)
	if err := s.repomanager.Labels(s.db).UpdateName(ctx, auth.UserID, id, nameEnc); err != nil {
		return fmt.Errorf("error renaming label: %w", err)
	}
	return nil
}

// Delete removes a label and clears every reference to it from entries,
// entry edits and events, in one transaction.
func (s *LabelService) Delete(ctx context.Context, auth *models.Auth, id string) error {
	if _, err := s.repomanager.Labels(s.db).GetByID(ctx, auth.UserID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error loading label: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Entries(tx).RemoveLabel(ctx, auth.UserID, id); err != nil {
			return fmt.Errorf("error unlinking entries: %w", err)
		}
		if err := s.repomanager.Events(tx).RemoveLabel(ctx, auth.UserID, id); err != nil {
			return fmt.Errorf("error unlinking events: %w", err)
		}
		if err := s.repomanager.Labels(tx).Delete(ctx, auth.UserID, id); err != nil {
			return fmt.Errorf("error deleting label: %w", err)
		}
		return nil
	})
}

// Reassign points every entry, edit and event reference from one label to
// another, in one transaction. Both labels must exist.
func (s *LabelService) Reassign(ctx context.Context, auth *models.Auth, oldID, newID string) error {
	repo := s.repomanager.Labels(s.db)
	for _, id := range []string{oldID, newID} {
		if _, err := repo.GetByID(ctx, auth.UserID, id); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorLabelNotFound
			}
			return fmt.Errorf("error loading label: %w", err)
		}
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Entries(tx).ReassignLabels(ctx, auth.UserID, oldID, newID); err != nil {
			return fmt.Errorf("error relinking entries: %w", err)
		}
		if err := s.repomanager.Events(tx).ReassignLabels(ctx, auth.UserID, oldID, newID); err != nil {
			return fmt.Errorf("error relinking events: %w", err)
		}
		return nil
	})
}

// PurgeAll hard-deletes every label of the user.
func (s *LabelService) PurgeAll(ctx context.Context, auth *models.Auth) error {
	return s.repomanager.Labels(s.db).PurgeAll(ctx, auth.UserID)
}
