package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/journalkeeper/internal/auth"
	"github.com/dmitrijs2005/journalkeeper/internal/common"
	"github.com/dmitrijs2005/journalkeeper/internal/cryptox"
	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
	"github.com/dmitrijs2005/journalkeeper/internal/logging"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/journalkeeper/internal/uid"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 128
	minPasswordLength = 8
	saltLength        = 16
)

// UserService handles accounts: registration, login, password change with
// full key rotation, and account purge.
//
// The encryption key is derived from the password and a per-user salt and
// lives only in the session's models.Auth. The database holds the salt and a
// digest of the key (the verifier), never the key or the password.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	uid                          *uid.Generator
	backup                       *BackupService
	settings                     *SettingsService
	logger                       logging.Logger
	jwtSecret                    []byte
	sessionTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, g *uid.Generator,
	backup *BackupService, settings *SettingsService, logger logging.Logger,
	jwtSecret []byte, sessionTokenValidityDuration time.Duration) *UserService {
	return &UserService{
		db: db, repomanager: m, uid: g,
		backup: backup, settings: settings, logger: logger,
		jwtSecret: jwtSecret, sessionTokenValidityDuration: sessionTokenValidityDuration,
	}
}

func validateNewUser(username, password string) error {
	if len(username) < minUsernameLength {
		return fmt.Errorf("%w: username must be at least %d characters", common.ErrorValidation, minUsernameLength)
	}
	if len(username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be less than %d characters", common.ErrorValidation, maxUsernameLength)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	return nil
}

// Register creates a new account and returns the stored user.
// A taken username yields common.ErrorStateConflict.
func (s *UserService) Register(ctx context.Context, username, password string, now int64) (*models.User, error) {
	if err := validateNewUser(username, password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	exists, err := repo.ExistsUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: username already in use", common.ErrorStateConflict)
	}

	salt := common.GenerateRandByteArray(saltLength)
	key := cryptox.DeriveKey(password, salt)
	verifier := cryptox.MakeVerifier(key)

	user := &models.User{Username: username, Salt: salt, Verifier: verifier, Created: now}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		id, err := s.uid.Generate(ctx, tx)
		if err != nil {
			return err
		}
		user.ID = id
		return s.repomanager.Users(tx).Create(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "username", username)
	return user, nil
}

func (s *UserService) checkVerifier(stored []byte, key string) bool {
	candidate := cryptox.MakeVerifier(key)
	return subtle.ConstantTimeCompare(stored, candidate) == 1
}

// Login verifies the password, derives the session encryption key and mints
// a session token. A missing user and a wrong password are indistinguishable
// to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.Auth, string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	key := cryptox.DeriveKey(password, user.Salt)
	if !s.checkVerifier(user.Verifier, key) {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.sessionTokenValidityDuration)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %w", err)
	}

	return &models.Auth{UserID: user.ID, Username: user.Username, Key: key}, token, nil
}

// Authenticate resolves a session token back to its user. The encryption key
// is not in the token, so the result identifies the user without being able
// to read their data.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// ChangePassword rotates the account's encryption key. It validates the old
// password, exports everything under the old key, then in one transaction
// stores the new salt and verifier, restores all data under the new key and
// re-encrypts settings in place. A failure at any point rolls the whole
// rotation back, so the account never ends up half re-encrypted.
//
// The returned Auth carries the new key and replaces the session's.
func (s *UserService) ChangePassword(ctx context.Context, a *models.Auth, oldPassword, newPassword string, now int64) (*models.Auth, error) {
	if oldPassword == "" {
		return nil, fmt.Errorf("%w: invalid password", common.ErrorValidation)
	}
	if len(newPassword) < minPasswordLength {
		return nil, fmt.Errorf("%w: new password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	if oldPassword == newPassword {
		return nil, fmt.Errorf("%w: new password is same as current password", common.ErrorValidation)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, a.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	oldKey := cryptox.DeriveKey(oldPassword, user.Salt)
	if oldKey != a.Key || !s.checkVerifier(user.Verifier, oldKey) {
		return nil, common.ErrorUnauthorized
	}

	backup, err := s.backup.Generate(ctx, a, now)
	if err != nil {
		return nil, err
	}

	newSalt := common.GenerateRandByteArray(saltLength)
	newKey := cryptox.DeriveKey(newPassword, newSalt)
	newVerifier := cryptox.MakeVerifier(newKey)
	newAuth := &models.Auth{UserID: a.UserID, Username: a.Username, Key: newKey}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdateAuth(ctx, a.UserID, newSalt, newVerifier); err != nil {
			return fmt.Errorf("error updating user: %w", err)
		}
		if err := s.backup.Restore(ctx, tx, newAuth, backup); err != nil {
			return err
		}
		return s.settings.ChangeEncryptionKeyInDB(ctx, tx, a, newKey)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "encryption key rotated", "username", a.Username)
	return newAuth, nil
}

// Purge deletes the account and every row belonging to it.
func (s *UserService) Purge(ctx context.Context, a *models.Auth) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Labels(tx).PurgeAll(ctx, a.UserID); err != nil {
			return fmt.Errorf("error purging labels: %w", err)
		}
		if err := s.repomanager.Entries(tx).PurgeAll(ctx, a.UserID); err != nil {
			return fmt.Errorf("error purging entries: %w", err)
		}
		if err := s.repomanager.Words(tx).PurgeAll(ctx, a.UserID); err != nil {
			return fmt.Errorf("error purging word index: %w", err)
		}
		if err := s.repomanager.Events(tx).PurgeAll(ctx, a.UserID); err != nil {
			return fmt.Errorf("error purging events: %w", err)
		}
		if err := s.repomanager.Settings(tx).PurgeAll(ctx, a.UserID); err != nil {
			return fmt.Errorf("error purging settings: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, a.UserID); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
}
