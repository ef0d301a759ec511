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

// EventService manages calendar events. Event names are stored encrypted.
type EventService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	uid         *uid.Generator
}

func NewEventService(db *sql.DB, m repomanager.RepositoryManager, g *uid.Generator) *EventService {
	return &EventService{db: db, repomanager: m, uid: g}
}

// Create adds an event. A labelID not among the user's labels is rejected.
func (s *EventService) Create(ctx context.Context, auth *models.Auth, labelsByID map[string]models.Label,
	name string, start, end int64, tzOffset float64, labelID *string, now int64) (*models.Event, error) {

	if end < start {
		return nil, fmt.Errorf("%w: event ends before it starts", common.ErrorValidation)
	}

	var label *models.Label
	if labelID != nil {
		l, ok := labelsByID[*labelID]
		if !ok {
			return nil, common.ErrorLabelNotFound
		}
		label = &l
	}

	nameEnc := cryptox.Encrypt(name, auth.Key)

	event := &models.Event{Name: name, Start: start, End: end, TzOffset: tzOffset, Label: label, Created: now}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		id, err := s.uid.Generate(ctx, tx)
		if err != nil {
			return err
		}
		event.ID = id
		raw := &models.RawEvent{
			ID:       id,
			UserID:   auth.UserID,
			Name:     nameEnc,
			Start:    start,
			End:      end,
			TzOffset: tzOffset,
			LabelID:  labelID,
			Created:  now,
		}
		return s.repomanager.Events(tx).Insert(ctx, raw)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}
	return event, nil
}

// All returns the user's events in start order, decrypted, with labels
// resolved. A dangling label reference is skipped rather than failing the
// whole read; the label cascade on delete makes it transient at worst.
func (s *EventService) All(ctx context.Context, auth *models.Auth, labelsByID map[string]models.Label) ([]models.Event, error) {
	rows, err := s.repomanager.Events(s.db).SelectAll(ctx, auth.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading events: %w", err)
	}

	events := make([]models.Event, 0, len(rows))
	for _, raw := range rows {
		name, err := cryptox.Decrypt(raw.Name, auth.Key)
		if err != nil {
			return nil, err
		}
		var label *models.Label
		if raw.LabelID != nil {
			if l, ok := labelsByID[*raw.LabelID]; ok {
				label = &l
			}
		}
		events = append(events, models.Event{
			ID:       raw.ID,
			Name:     name,
			Start:    raw.Start,
			End:      raw.End,
			TzOffset: raw.TzOffset,
			Label:    label,
			Created:  raw.Created,
		})
	}
	return events, nil
}

// Delete removes one event. common.ErrorNotFound when it does not exist.
func (s *EventService) Delete(ctx context.Context, auth *models.Auth, id string) error {
	if err := s.repomanager.Events(s.db).Delete(ctx, auth.UserID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting event: %w", err)
	}
	return nil
}

// PurgeAll hard-deletes every event of the user.
func (s *EventService) PurgeAll(ctx context.Context, auth *models.Auth) error {
	return s.repomanager.Events(s.db).PurgeAll(ctx, auth.UserID)
}
