package words

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, w *models.WordIndexEntry) error {
	query := `
		INSERT INTO words_in_entries (user_id, entry_id, word, count, entry_is_deleted)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, w.UserID, w.EntryID, w.Word, w.Count, w.EntryIsDeleted)
	if err != nil {
		return fmt.Errorf("failed to insert word: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteForEntry(ctx context.Context, userID, entryID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM words_in_entries WHERE user_id = ? AND entry_id = ?`, userID, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete words: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SetEntryDeleted(ctx context.Context, userID, entryID string, deleted bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE words_in_entries SET entry_is_deleted = ? WHERE user_id = ? AND entry_id = ?`,
		deleted, userID, entryID)
	if err != nil {
		return fmt.Errorf("failed to flag words: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SelectActive(ctx context.Context, userID string) ([]models.WordIndexEntry, error) {
	query := `SELECT user_id, entry_id, word, count, entry_is_deleted
		FROM words_in_entries
		WHERE user_id = ? AND entry_is_deleted = ?`
	return r.selectRows(ctx, query, userID, false)
}

func (r *SQLiteRepository) SelectForEntry(ctx context.Context, userID, entryID string) ([]models.WordIndexEntry, error) {
	query := `SELECT user_id, entry_id, word, count, entry_is_deleted
		FROM words_in_entries
		WHERE user_id = ? AND entry_id = ?`
	return r.selectRows(ctx, query, userID, entryID)
}

func (r *SQLiteRepository) selectRows(ctx context.Context, query string, args ...any) ([]models.WordIndexEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select words: %w", err)
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

func (r *SQLiteRepository) PurgeAll(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM words_in_entries WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to purge words: %w", err)
	}
	return nil
}
