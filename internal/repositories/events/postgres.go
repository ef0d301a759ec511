package events

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/journalkeeper/internal/common"
	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, e *models.RawEvent) error {
	query := `
		INSERT INTO events (id, user_id, name, start_ts, end_ts, tz_offset, label_id, created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Name, e.Start, e.End, e.TzOffset, e.LabelID, e.Created)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SelectAll(ctx context.Context, userID string) ([]models.RawEvent, error) {
	query := `SELECT id, user_id, name, start_ts, end_ts, tz_offset, label_id, created
		FROM events WHERE user_id = $1 ORDER BY start_ts ASC, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
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

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM events WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
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

func (r *PostgresRepository) ReassignLabels(ctx context.Context, userID, oldLabelID, newLabelID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE events SET label_id = $1 WHERE user_id = $2 AND label_id = $3`,
		newLabelID, userID, oldLabelID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveLabel(ctx context.Context, userID, labelID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE events SET label_id = NULL WHERE user_id = $1 AND label_id = $2`, userID, labelID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) PurgeAll(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
