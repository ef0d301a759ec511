// Package config handles runtime configuration: defaults, an optional JSON
// overlay, and command-line flags, applied in that order.
package config

import "time"

// Config holds runtime settings for JournalKeeper.
//
// Fields:
//   - DatabaseDriver: "sqlite" (default) or "pgx".
//   - DatabaseDSN: SQLite file path or PostgreSQL DSN.
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - SessionTokenValidityDuration: session token lifetime.
//   - MaxEntriesPerUser: entry creation quota.
type Config struct {
	DatabaseDriver               string
	DatabaseDSN                  string
	SecretKey                    string
	SessionTokenValidityDuration time.Duration
	MaxEntriesPerUser            int
}

// LoadDefaults populates Config with local-development defaults.
// NOTE: the secret key must be overridden for any shared deployment.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "journal.db"
	c.SecretKey = "secretKey"
	c.SessionTokenValidityDuration = 60 * time.Minute
	c.MaxEntriesPerUser = 100000
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
