package ids

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) TryInsert(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ids (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}
