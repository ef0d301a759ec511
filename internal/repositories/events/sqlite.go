package events

import (
	"context"
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

func (r *SQLiteRepository) Insert(ctx context.Context, e *models.RawEvent) error {
	query := `
		INSERT INTO events (id, user_id, name, start_ts, end_ts, tz_offset, label_id, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Name, e.Start, e.End, e.TzOffset, e.LabelID, e.Created)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SelectAll(ctx context.Context, userID string) ([]models.RawEvent, error) {
	query := `SELECT id, user_id, name, start_ts, end_ts, tz_offset, label_id, created
		FROM events WHERE user_id = ? ORDER BY start_ts ASC, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer rows.Close()

	var result []models.RawEvent
	for rows.Next() {
		var e models.RawEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Start, &e.End, &e.TzOffset, &e.LabelID, &e.Created); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM events WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) ReassignLabels(ctx context.Context, userID, oldLabelID, newLabelID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE events SET label_id = ? WHERE user_id = ? AND label_id = ?`,
		newLabelID, userID, oldLabelID)
	if err != nil {
		return fmt.Errorf("failed to reassign event labels: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RemoveLabel(ctx context.Context, userID, labelID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE events SET label_id = NULL WHERE user_id = ? AND label_id = ?`, userID, labelID)
	if err != nil {
		return fmt.Errorf("failed to remove event labels: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) PurgeAll(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to purge events: %w", err)
	}
	return nil
}
