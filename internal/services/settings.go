package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/journalkeeper/internal/common"
	"github.com/dmitrijs2005/journalkeeper/internal/cryptox"
	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
	"github.com/dmitrijs2005/journalkeeper/internal/logging"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/journalkeeper/internal/uid"
)

// SettingKind is the Go type a setting value must have.
type SettingKind int

const (
	KindBool SettingKind = iota
	KindFloat64
	KindString
)

func (k SettingKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	}
	return "unknown"
}

// SettingConfig describes one known setting: its value type and the default
// returned when the user has never set it.
type SettingConfig struct {
	Kind        SettingKind
	Default     any
	Description string
}

// SettingsConfig is the static catalogue of settings. Unknown keys are
// rejected on update, so the table never accumulates junk rows.
var SettingsConfig = map[string]SettingConfig{
	"hideEntriesByDefault": {
		Kind: KindBool, Default: false,
		Description: "Blur entries until hovered",
	},
	"showAgentWidgetOnEntries": {
		Kind: KindBool, Default: false,
		Description: "Show device info on entries",
	},
	"autoHideEntriesDelay": {
		Kind: KindFloat64, Default: float64(0),
		Description: "Seconds before entries are hidden again, 0 to disable",
	},
	"entriesPerPage": {
		Kind: KindFloat64, Default: float64(25),
		Description: "Entries per page in the journal view",
	},
	"preferLocationOn": {
		Kind: KindBool, Default: false,
		Description: "Attach location to new entries when available",
	},
	"passcode": {
		Kind: KindString, Default: "",
		Description: "Passcode required to unlock the journal",
	},
}

// SettingsService stores typed per-user settings as encrypted JSON values.
type SettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	uid         *uid.Generator
	logger      logging.Logger
}

func NewSettingsService(db *sql.DB, m repomanager.RepositoryManager, g *uid.Generator, logger logging.Logger) *SettingsService {
	return &SettingsService{db: db, repomanager: m, uid: g, logger: logger}
}

func settingKindOf(value any) (SettingKind, bool) {
	switch value.(type) {
	case bool:
		return KindBool, true
	case float64:
		return KindFloat64, true
	case string:
		return KindString, true
	}
	return 0, false
}

// Update sets one setting, inserting the row on first use and overwriting it
// afterwards. The key must be known and the value must match its declared
// kind, common.ErrorValidation otherwise.
func (s *SettingsService) Update(ctx context.Context, auth *models.Auth, key string, value any, now int64) (*models.Setting, error) {
	cfg, ok := SettingsConfig[key]
	if !ok {
		return nil, fmt.Errorf("%w: invalid setting key %q", common.ErrorValidation, key)
	}

	kind, ok := settingKindOf(value)
	if !ok || kind != cfg.Kind {
		return nil, fmt.Errorf("%w: invalid setting value for %q, expected %s but got %T",
			common.ErrorValidation, key, cfg.Kind, value)
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("error encoding setting value: %w", err)
	}
	valueEnc := cryptox.Encrypt(string(encoded), auth.Key)

	repo := s.repomanager.Settings(s.db)

	existing, err := repo.SelectByKey(ctx, auth.UserID, key)
	if err != nil {
		return nil, fmt.Errorf("error loading setting: %w", err)
	}
	if len(existing) > 0 {
		id := existing[0].ID
		if err := repo.UpdateValue(ctx, id, valueEnc, now); err != nil {
			return nil, fmt.Errorf("error updating setting: %w", err)
		}
		return &models.Setting{ID: id, Created: now, Key: key, Value: value}, nil
	}

	var id string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		id, err = s.uid.Generate(ctx, tx)
		if err != nil {
			return err
		}
		raw := &models.RawSetting{ID: id, UserID: auth.UserID, Created: now, Key: key, Value: valueEnc}
		return s.repomanager.Settings(tx).Insert(ctx, raw)
	})
	if err != nil {
		return nil, fmt.Errorf("error inserting setting: %w", err)
	}
	return &models.Setting{ID: id, Created: now, Key: key, Value: value}, nil
}

// All returns every stored setting, decrypted. When duplicate rows for one
// key are found (should never happen, but has), all but the oldest are
// deleted before returning, so reads converge back to one row per key.
func (s *SettingsService) All(ctx context.Context, auth *models.Auth) ([]models.Setting, error) {
	repo := s.repomanager.Settings(s.db)

	rows, err := repo.SelectAll(ctx, auth.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}

	seen := map[string]bool{}
	duplicated := map[string]bool{}
	for _, row := range rows {
		if seen[row.Key] {
			duplicated[row.Key] = true
		}
		seen[row.Key] = true
	}
	if len(duplicated) > 0 {
		keys := make([]string, 0, len(duplicated))
		for key := range duplicated {
			keys = append(keys, key)
		}
		s.logger.Error(ctx, "duplicate settings keys found, clearing", "keys", keys)
		for key := range duplicated {
			if err := repo.DeleteDuplicates(ctx, auth.UserID, key); err != nil {
				return nil, fmt.Errorf("error clearing duplicate setting: %w", err)
			}
		}
		rows, err = repo.SelectAll(ctx, auth.UserID)
		if err != nil {
			return nil, fmt.Errorf("error loading settings: %w", err)
		}
	}

	settings := make([]models.Setting, 0, len(rows))
	for _, row := range rows {
		setting, err := decryptSetting(&row, auth.Key)
		if err != nil {
			return nil, err
		}
		settings = append(settings, *setting)
	}
	return settings, nil
}

// AllAsMapWithDefaults returns the full settings catalogue as key → value,
// stored values where present and defaults elsewhere.
func (s *SettingsService) AllAsMapWithDefaults(ctx context.Context, auth *models.Auth) (map[string]any, error) {
	stored, err := s.All(ctx, auth)
	if err != nil {
		return nil, err
	}

	result := make(map[string]any, len(SettingsConfig))
	for key, cfg := range SettingsConfig {
		result[key] = cfg.Default
	}
	for _, setting := range stored {
		if _, known := result[setting.Key]; known {
			result[setting.Key] = setting.Value
		}
	}
	return result, nil
}

// GetValue returns one setting's value, or its configured default when the
// user has never set it.
func (s *SettingsService) GetValue(ctx context.Context, auth *models.Auth, key string) (any, error) {
	cfg, ok := SettingsConfig[key]
	if !ok {
		return nil, fmt.Errorf("%w: invalid setting key %q", common.ErrorValidation, key)
	}

	rows, err := s.repomanager.Settings(s.db).SelectByKey(ctx, auth.UserID, key)
	if err != nil {
		return nil, fmt.Errorf("error loading setting: %w", err)
	}
	if len(rows) < 1 {
		return cfg.Default, nil
	}

	setting, err := decryptSetting(&rows[0], auth.Key)
	if err != nil {
		return nil, err
	}
	return setting.Value, nil
}

// ChangeEncryptionKeyInDB re-encrypts every stored setting value under
// newKey, through the given handle so key rotation can run it inside its
// transaction. Row created stamps are preserved.
func (s *SettingsService) ChangeEncryptionKeyInDB(ctx context.Context, db dbx.DBTX, auth *models.Auth, newKey string) error {
	repo := s.repomanager.Settings(db)

	rows, err := repo.SelectAll(ctx, auth.UserID)
	if err != nil {
		return fmt.Errorf("error loading settings: %w", err)
	}

	for _, row := range rows {
		plain, err := cryptox.Decrypt(row.Value, auth.Key)
		if err != nil {
			return err
		}
		valueEnc := cryptox.Encrypt(plain, newKey)
		if err := repo.UpdateValueKeepCreated(ctx, row.ID, valueEnc); err != nil {
			return fmt.Errorf("error updating setting: %w", err)
		}
	}
	return nil
}

// PurgeAll hard-deletes every settings row of the user.
func (s *SettingsService) PurgeAll(ctx context.Context, auth *models.Auth) error {
	return s.repomanager.Settings(s.db).PurgeAll(ctx, auth.UserID)
}

func decryptSetting(raw *models.RawSetting, key string) (*models.Setting, error) {
	plain, err := cryptox.Decrypt(raw.Value, key)
	if err != nil {
		return nil, err
	}
	var value any
	if err := json.Unmarshal([]byte(plain), &value); err != nil {
		return nil, fmt.Errorf("error decoding setting value: %w", err)
	}
	return &models.Setting{ID: raw.ID, Created: raw.Created, Key: raw.Key, Value: value}, nil
}
