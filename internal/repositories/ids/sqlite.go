package ids

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) TryInsert(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ids (id) VALUES (?) ON CONFLICT (id) DO NOTHING`, id)
	if err != nil {
		return false, fmt.Errorf("failed to insert id: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}
