// Package uid generates globally unique string identifiers. Candidates are
// UUIDv4; the store verifies uniqueness so a collision (however unlikely) is
// retried rather than propagated.
package uid

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/repomanager"
	"github.com/google/uuid"
)

const maxAttempts = 5

type Generator struct {
	rm repomanager.RepositoryManager
}

func NewGenerator(rm repomanager.RepositoryManager) *Generator {
	return &Generator{rm: rm}
}

// Generate returns a fresh identifier, recorded in the ids table through the
// given DBTX so generation participates in the caller's transaction.
func (g *Generator) Generate(ctx context.Context, db dbx.DBTX) (string, error) {
	repo := g.rm.IDs(db)
	for i := 0; i < maxAttempts; i++ {
		id := uuid.NewString()
		ok, err := repo.TryInsert(ctx, id)
		if err != nil {
			return "", fmt.Errorf("error generating id: %w", err)
		}
		if ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique id in %d attempts", maxAttempts)
}
