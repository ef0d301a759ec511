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

// SQLiteRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, e *models.RawEntry) error {
	query := `
		INSERT INTO entries
			(id, user_id, title, body, created, created_tz_offset, deleted, pinned,
			 label_id, latitude, longitude, agent_data, word_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Title, e.Body, e.Created, e.CreatedTzOffset, e.Deleted, e.Pinned,
		e.LabelID, e.Latitude, e.Longitude, e.AgentData, e.WordCount)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) InsertEdit(ctx context.Context, e *models.RawEntryEdit) error {
	query := `
		INSERT INTO entry_edits
			(id, entry_id, user_id, old_title, old_body, old_label_id,
			 created, created_tz_offset, latitude, longitude, agent_data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.EntryID, e.UserID, e.OldTitle, e.OldBody, e.OldLabelID,
		e.Created, e.CreatedTzOffset, e.Latitude, e.Longitude, e.AgentData)
	if err != nil {
		return fmt.Errorf("failed to insert entry edit: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

const selectRawColumns = `id, user_id, title, body, created, created_tz_offset,
	deleted, pinned, label_id, latitude, longitude, agent_data, word_count`

func scanRawEntry(row interface{ Scan(...any) error }, e *models.RawEntry) error {
	return row.Scan(&e.ID, &e.UserID, &e.Title, &e.Body, &e.Created, &e.CreatedTzOffset,
		&e.Deleted, &e.Pinned, &e.LabelID, &e.Latitude, &e.Longitude, &e.AgentData, &e.WordCount)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, userID, id string) (*models.RawEntry, error) {
	query := `SELECT ` + selectRawColumns + ` FROM entries WHERE user_id = ? AND id = ?`
	e := &models.RawEntry{}
	if err := scanRawEntry(r.db.QueryRowContext(ctx, query, userID, id), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select entry: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) GetDeleted(ctx context.Context, userID, id string) (*int64, error) {
	var deleted *int64
	err := r.db.QueryRowContext(ctx,
		`SELECT deleted FROM entries WHERE user_id = ? AND id = ?`, userID, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select entry: %w", err)
	}
	return deleted, nil
}

func (r *SQLiteRepository) SetDeleted(ctx context.Context, userID, id string, deleted *int64) error {
	var query string
	if deleted != nil {
		// soft delete clears the label and the pin; restore does not bring
		// them back
		query = `UPDATE entries SET deleted = ?, label_id = NULL, pinned = NULL
			WHERE user_id = ? AND id = ?`
	} else {
		query = `UPDATE entries SET deleted = ? WHERE user_id = ? AND id = ?`
	}
	if _, err := r.db.ExecContext(ctx, query, deleted, userID, id); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SetPinned(ctx context.Context, userID, id string, pinned *int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE entries SET pinned = ? WHERE user_id = ? AND id = ?`, pinned, userID, id)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, userID, id, titleEnc, bodyEnc string, labelID *string, wordCount int) error {
	query := `UPDATE entries SET title = ?, body = ?, label_id = ?, word_count = ?
		WHERE user_id = ? AND id = ?`
	if _, err := r.db.ExecContext(ctx, query, titleEnc, bodyEnc, labelID, wordCount, userID, id); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ReassignLabels(ctx context.Context, userID, oldLabelID, newLabelID string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entry_edits SET old_label_id = ? WHERE user_id = ? AND old_label_id = ?`,
		newLabelID, userID, oldLabelID); err != nil {
		return fmt.Errorf("failed to reassign edit labels: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entries SET label_id = ? WHERE user_id = ? AND label_id = ?`,
		newLabelID, userID, oldLabelID); err != nil {
		return fmt.Errorf("failed to reassign entry labels: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RemoveLabel(ctx context.Context, userID, labelID string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entry_edits SET old_label_id = NULL WHERE user_id = ? AND old_label_id = ?`,
		userID, labelID); err != nil {
		return fmt.Errorf("failed to remove edit labels: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entries SET label_id = NULL WHERE user_id = ? AND label_id = ?`,
		userID, labelID); err != nil {
		return fmt.Errorf("failed to remove entry labels: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SelectTimeline(ctx context.Context, userID string) ([]models.EntryTimes, error) {
	query := `SELECT created, created_tz_offset FROM entries
		WHERE deleted IS NULL AND user_id = ?
		ORDER BY created DESC, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select timeline: %w", err)
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

func (r *SQLiteRepository) SelectTimesBefore(ctx context.Context, userID string, localTime int64) (*models.EntryTimes, error) {
	query := `SELECT created, created_tz_offset FROM entries
		WHERE deleted IS NULL
		  AND user_id = ?
		  AND (created + created_tz_offset * 60 * 60) < ?
		ORDER BY created DESC, id
		LIMIT 1`
	item := &models.EntryTimes{}
	err := r.db.QueryRowContext(ctx, query, userID, localTime).Scan(&item.Created, &item.CreatedTzOffset)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to select entry before: %w", err)
	}
	return item, nil
}

func (r *SQLiteRepository) SelectAllRaw(ctx context.Context, userID string) ([]models.RawEntry, error) {
	query := `SELECT ` + selectRawColumns + ` FROM entries
		WHERE user_id = ? ORDER BY created DESC, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
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

const selectEditColumns = `id, entry_id, user_id, old_title, old_body, old_label_id,
	created, created_tz_offset, latitude, longitude, agent_data`

func scanRawEdit(rows *sql.Rows, e *models.RawEntryEdit) error {
	return rows.Scan(&e.ID, &e.EntryID, &e.UserID, &e.OldTitle, &e.OldBody, &e.OldLabelID,
		&e.Created, &e.CreatedTzOffset, &e.Latitude, &e.Longitude, &e.AgentData)
}

func (r *SQLiteRepository) SelectAllEdits(ctx context.Context, userID string) ([]models.RawEntryEdit, error) {
	query := `SELECT ` + selectEditColumns + ` FROM entry_edits
		WHERE user_id = ? ORDER BY created ASC, id`
	return r.selectEdits(ctx, query, userID)
}

func (r *SQLiteRepository) SelectEditsForEntry(ctx context.Context, userID, entryID string) ([]models.RawEntryEdit, error) {
	query := `SELECT ` + selectEditColumns + ` FROM entry_edits
		WHERE user_id = ? AND entry_id = ? ORDER BY created ASC, id`
	return r.selectEdits(ctx, query, userID, entryID)
}

func (r *SQLiteRepository) selectEdits(ctx context.Context, query string, args ...any) ([]models.RawEntryEdit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entry edits: %w", err)
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

func (r *SQLiteRepository) PurgeAll(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM entry_edits WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to purge entry edits: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM entries WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to purge entries: %w", err)
	}
	return nil
}
