package labels

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/journalkeeper/internal/common"
	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, l *models.RawLabel) error {
	query := `INSERT INTO labels (id, user_id, name, color, created) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, l.ID, l.UserID, l.Name, l.Color, l.Created); err != nil {
		return fmt.Errorf("failed to insert label: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, userID, id string) (*models.RawLabel, error) {
	l := &models.RawLabel{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, color, created FROM labels WHERE user_id = ? AND id = ?`,
		userID, id).Scan(&l.ID, &l.UserID, &l.Name, &l.Color, &l.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select label: %w", err)
	}
	return l, nil
}

func (r *SQLiteRepository) SelectAll(ctx context.Context, userID string) ([]models.RawLabel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, color, created FROM labels WHERE user_id = ? ORDER BY created ASC, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select labels: %w", err)
	}
	defer rows.Close()

	var result []models.RawLabel
	for rows.Next() {
		var l models.RawLabel
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.Color, &l.Created); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) UpdateName(ctx context.Context, userID, id, nameEnc string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE labels SET name = ? WHERE user_id = ? AND id = ?`, nameEnc, userID, id)
	if err != nil {
		return fmt.Errorf("failed to update label: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM labels WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) PurgeAll(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM labels WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to purge labels: %w", err)
	}
	return nil
}
