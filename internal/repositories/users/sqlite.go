package users

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

func (r *SQLiteRepository) Create(ctx context.Context, u *models.User) error {
	query := `INSERT INTO users (id, username, salt, verifier, created) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.Salt, u.Verifier, u.Created); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, salt, verifier, created FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.Salt, &u.Verifier, &u.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, salt, verifier, created FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.Salt, &u.Verifier, &u.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) ExistsUsername(ctx context.Context, username string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE username = ?`, username).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to select user: %w", err)
	}
	return true, nil
}

func (r *SQLiteRepository) UpdateAuth(ctx context.Context, id string, salt, verifier []byte) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET salt = ?, verifier = ? WHERE id = ?`, salt, verifier, id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
