// Package labels stores user-defined labels. Name column values are
// ciphertext.
package labels

import (
	"context"

	"github.com/dmitrijs2005/journalkeeper/internal/models"
)

type Repository interface {
	Insert(ctx context.Context, l *models.RawLabel) error

	// GetByID returns one label row or common.ErrorNotFound.
	GetByID(ctx context.Context, userID, id string) (*models.RawLabel, error)

	// SelectAll returns every label row for a user, oldest first.
	SelectAll(ctx context.Context, userID string) ([]models.RawLabel, error)

	UpdateName(ctx context.Context, userID, id, nameEnc string) error

	Delete(ctx context.Context, userID, id string) error

	PurgeAll(ctx context.Context, userID string) error
}
