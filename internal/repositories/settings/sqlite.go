package settings

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

func (r *SQLiteRepository) Insert(ctx context.Context, s *models.RawSetting) error {
	query := `INSERT INTO settings (id, user_id, created, key, value) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.Created, s.Key, s.Value); err != nil {
		return fmt.Errorf("failed to insert setting: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SelectAll(ctx context.Context, userID string) ([]models.RawSetting, error) {
	query := `SELECT id, user_id, created, key, value FROM settings
		WHERE user_id = ? ORDER BY created ASC, id`
	return r.selectRows(ctx, query, userID)
}

func (r *SQLiteRepository) SelectByKey(ctx context.Context, userID, key string) ([]models.RawSetting, error) {
	query := `SELECT id, user_id, created, key, value FROM settings
		WHERE user_id = ? AND key = ? ORDER BY created ASC, id`
	return r.selectRows(ctx, query, userID, key)
}

func (r *SQLiteRepository) selectRows(ctx context.Context, query string, args ...any) ([]models.RawSetting, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select settings: %w", err)
	}
	defer rows.Close()

	var result []models.RawSetting
	for rows.Next() {
		var s models.RawSetting
		if err := rows.Scan(&s.ID, &s.UserID, &s.Created, &s.Key, &s.Value); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) UpdateValue(ctx context.Context, id, valueEnc string, created int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE settings SET value = ?, created = ? WHERE id = ?`, valueEnc, created, id)
	if err != nil {
		return fmt.Errorf("failed to update setting: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateValueKeepCreated(ctx context.Context, id, valueEnc string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE settings SET value = ? WHERE id = ?`, valueEnc, id)
	if err != nil {
		return fmt.Errorf("failed to update setting: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteDuplicates(ctx context.Context, userID, key string) error {
	// keeps the oldest row for the key; created then id break ties
	query := `
		DELETE FROM settings
		WHERE user_id = ? AND key = ?
		  AND id <> (
			SELECT id FROM settings
			WHERE user_id = ? AND key = ?
			ORDER BY created ASC, id ASC
			LIMIT 1
		  )
	`
	if _, err := r.db.ExecContext(ctx, query, userID, key, userID, key); err != nil {
		return fmt.Errorf("failed to delete duplicate settings: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) PurgeAll(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to purge settings: %w", err)
	}
	return nil
}
