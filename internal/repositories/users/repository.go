// Package users stores accounts. The password never reaches this layer: the
// verifier is a digest of the derived encryption key.
package users

import (
	"context"

	"github.com/dmitrijs2005/journalkeeper/internal/models"
)

type Repository interface {
	Create(ctx context.Context, u *models.User) error

	// GetByUsername returns a user or common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID returns a user or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	ExistsUsername(ctx context.Context, username string) (bool, error)

	// UpdateAuth replaces the salt and verifier after a key rotation.
	UpdateAuth(ctx context.Context, id string, salt, verifier []byte) error

	Delete(ctx context.Context, id string) error
}
