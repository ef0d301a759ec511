package words

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, w *models.WordIndexEntry) error {
	query := `
		INSERT INTO words_in_entries (user_id, entry_id, word, count, entry_is_deleted)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, w.UserID, w.EntryID, w.Word, w.Count, w.EntryIsDeleted)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteForEntry(ctx context.Context, userID, entryID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM words_in_entries WHERE user_id = $1 AND entry_id = $2`, userID, entryID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetEntryDeleted(ctx context.Context, userID, entryID string, deleted bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE words_in_entries SET entry_is_deleted = $1 WHERE user_id = $2 AND entry_id = $3`,
		deleted, userID, entryID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SelectActive(ctx context.Context, userID string) ([]models.WordIndexEntry, error) {
	query := `SELECT user_id, entry_id, word, count, entry_is_deleted
		FROM words_in_entries
		WHERE user_id = $1 AND entry_is_deleted = FALSE`
	return r.selectRows(ctx, query, userID)
}

func (r *PostgresRepository) SelectForEntry(ctx context.Context, userID, entryID string) ([]models.WordIndexEntry, error) {
	query := `SELECT user_id, entry_id, word, count, entry_is_deleted
		FROM words_in_entries
		WHERE user_id = $1 AND entry_id = $2`
	return r.selectRows(ctx, query, userID, entryID)
}

func (r *PostgresRepository) selectRows(ctx context.Context, query string, args ...any) ([]models.WordIndexEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.WordIndexEntry
	for rows.Next() {
		var w models.WordIndexEntry
		if err := rows.Scan(&w.UserID, &w.EntryID, &w.Word, &w.Count, &w.EntryIsDeleted); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) PurgeAll(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM words_in_entries WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
