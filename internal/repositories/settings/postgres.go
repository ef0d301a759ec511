package settings

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

func (r *PostgresRepository) Insert(ctx context.Context, s *models.RawSetting) error {
	query := `INSERT INTO settings (id, user_id, created, key, value) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.Created, s.Key, s.Value); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SelectAll(ctx context.Context, userID string) ([]models.RawSetting, error) {
	query := `SELECT id, user_id, created, key, value FROM settings
		WHERE user_id = $1 ORDER BY created ASC, id`
	return r.selectRows(ctx, query, userID)
}

func (r *PostgresRepository) SelectByKey(ctx context.Context, userID, key string) ([]models.RawSetting, error) {
	query := `SELECT id, user_id, created, key, value FROM settings
		WHERE user_id = $1 AND key = $2 ORDER BY created ASC, id`
	return r.selectRows(ctx, query, userID, key)
}

func (r *PostgresRepository) selectRows(ctx context.Context, query string, args ...any) ([]models.RawSetting, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
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

func (r *PostgresRepository) UpdateValue(ctx context.Context, id, valueEnc string, created int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE settings SET value = $1, created = $2 WHERE id = $3`, valueEnc, created, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateValueKeepCreated(ctx context.Context, id, valueEnc string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE settings SET value = $1 WHERE id = $2`, valueEnc, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteDuplicates(ctx context.Context, userID, key string) error {
	query := `
		DELETE FROM settings
		WHERE user_id = $1 AND key = $2
		  AND id <> (
			SELECT id FROM settings
			WHERE user_id = $1 AND key = $2
			ORDER BY created ASC, id ASC
			LIMIT 1
		  )
	`
	if _, err := r.db.ExecContext(ctx, query, userID, key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) PurgeAll(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
