// Package events stores calendar events. Name column values are ciphertext.
package events

import (
	"context"

	"github.com/dmitrijs2005/journalkeeper/internal/models"
)

type Repository interface {
	Insert(ctx context.Context, e *models.RawEvent) error

	// SelectAll returns every event row for a user, by start time.
	SelectAll(ctx context.Context, userID string) ([]models.RawEvent, error)

	// Delete removes one event; common.ErrorNotFound when no row matched.
	Delete(ctx context.Context, userID, id string) error

	ReassignLabels(ctx context.Context, userID, oldLabelID, newLabelID string) error

	RemoveLabel(ctx context.Context, userID, labelID string) error

	PurgeAll(ctx context.Context, userID string) error
}
