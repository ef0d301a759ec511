package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/journalkeeper/internal/common"
	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, e *models.RawEntry) error {
	query := `
		INSERT INTO entries
			(id, user_id, title, body, created, created_tz_offset, deleted, pinned,
			 label_id, latitude, longitude, agent_data, word_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Title, e.Body, e.Created, e.CreatedTzOffset, e.Deleted, e.Pinned,
		e.LabelID, e.Latitude, e.Longitude, e.AgentData, e.WordCount)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) InsertEdit(ctx context.Context, e *models.RawEntryEdit) error {
	query := `
		INSERT INTO entry_edits
			(id, entry_id, user_id, old_title, old_body, old_label_id,
			 created, created_tz_offset, latitude, longitude, agent_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.EntryID, e.UserID, e.OldTitle, e.OldBody, e.OldLabelID,
		e.Created, e.CreatedTzOffset, e.Latitude, e.Longitude, e.AgentData)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*models.RawEntry, error) {
	query := `SELECT ` + selectRawColumns + ` FROM entries WHERE user_id = $1 AND id = $2`
	e := &models.RawEntry{}
	if err := scanRawEntry(r.db.QueryRowContext(ctx, query, userID, id), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) GetDeleted(ctx context.Context, userID, id string) (*int64, error) {
	var deleted *int64
	err := r.db.QueryRowContext(ctx,
		`SELECT deleted FROM entries WHERE user_id = $1 AND id = $2`, userID, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return deleted, nil
}

func (r *PostgresRepository) SetDeleted(ctx context.Context, userID, id string, deleted *int64) error {
	var query string
	if deleted != nil {
		query = `UPDATE entries SET deleted = $1, label_id = NULL, pinned = NULL
			WHERE user_id = $2 AND id = $3`
	} else {
		query = `UPDATE entries SET deleted = $1 WHERE user_id = $2 AND id = $3`
	}
	if _, err := r.db.ExecContext(ctx, query, deleted, userID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetPinned(ctx context.Context, userID, id string, pinned *int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE entries SET pinned = $1 WHERE user_id = $2 AND id = $3`, pinned, userID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID, id, titleEnc, bodyEnc string, labelID *string, wordCount int) error {
	query := `UPDATE entries SET title = $1, body = $2, label_id = $3, word_count = $4
		WHERE user_id = $5 AND id = $6`
	if _, err := r.db.ExecContext(ctx, query, titleEnc, bodyEnc, labelID, wordCount, userID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ReassignLabels(ctx context.Context, userID, oldLabelID, newLabelID string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entry_edits SET old_label_id = $1 WHERE user_id = $2 AND old_label_id = $3`,
		newLabelID, userID, oldLabelID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entries SET label_id = $1 WHERE user_id = $2 AND label_id = $3`,
		newLabelID, userID, oldLabelID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveLabel(ctx context.Context, userID, labelID string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entry_edits SET old_label_id = NULL WHERE user_id = $1 AND old_label_id = $2`,
		userID, labelID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entries SET label_id = NULL WHERE user_id = $1 AND label_id = $2`,
		userID, labelID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SelectTimeline(ctx context.Context, userID string) ([]models.EntryTimes, error) {
	query := `SELECT created, created_tz_offset FROM entries
		WHERE deleted IS NULL AND user_id = $1
		ORDER BY created DESC, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.EntryTimes
	for rows.Next() {
		var item models.EntryTimes
		if err := rows.Scan(&item.Created, &item.CreatedTzOffset); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) SelectTimesBefore(ctx context.Context, userID string, localTime int64) (*models.EntryTimes, error) {
	query := `SELECT created, created_tz_offset FROM entries
		WHERE deleted IS NULL
		  AND user_id = $1
		  AND (created + created_tz_offset * 60 * 60) < $2
		ORDER BY created DESC, id
		LIMIT 1`
	item := &models.EntryTimes{}
	err := r.db.QueryRowContext(ctx, query, userID, localTime).Scan(&item.Created, &item.CreatedTzOffset)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) SelectAllRaw(ctx context.Context, userID string) ([]models.RawEntry, error) {
	query := `SELECT ` + selectRawColumns + ` FROM entries
		WHERE user_id = $1 ORDER BY created DESC, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.RawEntry
	for rows.Next() {
		var e models.RawEntry
		if err := scanRawEntry(rows, &e); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) SelectAllEdits(ctx context.Context, userID string) ([]models.RawEntryEdit, error) {
	query := `SELECT ` + selectEditColumns + ` FROM entry_edits
		WHERE user_id = $1 ORDER BY created ASC, id`
	return r.selectEdits(ctx, query, userID)
}

func (r *PostgresRepository) SelectEditsForEntry(ctx context.Context, userID, entryID string) ([]models.RawEntryEdit, error) {
	query := `SELECT ` + selectEditColumns + ` FROM entry_edits
		WHERE user_id = $1 AND entry_id = $2 ORDER BY created ASC, id`
	return r.selectEdits(ctx, query, userID, entryID)
}

func (r *PostgresRepository) selectEdits(ctx context.Context, query string, args ...any) ([]models.RawEntryEdit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.RawEntryEdit
	for rows.Next() {
		var e models.RawEntryEdit
		if err := scanRawEdit(rows, &e); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) PurgeAll(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM entry_edits WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM entries WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
