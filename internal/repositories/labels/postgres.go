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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, l *models.RawLabel) error {
	query := `INSERT INTO labels (id, user_id, name, color, created) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, l.ID, l.UserID, l.Name, l.Color, l.Created); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*models.RawLabel, error) {
	l := &models.RawLabel{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, color, created FROM labels WHERE user_id = $1 AND id = $2`,
		userID, id).Scan(&l.ID, &l.UserID, &l.Name, &l.Color, &l.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) SelectAll(ctx context.Context, userID string) ([]models.RawLabel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, color, created FROM labels WHERE user_id = $1 ORDER BY created ASC, id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
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

func (r *PostgresRepository) UpdateName(ctx context.Context, userID, id, nameEnc string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE labels SET name = $1 WHERE user_id = $2 AND id = $3`, nameEnc, userID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM labels WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) PurgeAll(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM labels WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
