package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/invitecrawl"
)

// settingsKey is the settings row holding the crawl configuration.
const settingsKey = "settings"

// Compile-time interface verification.
var _ invitecrawl.ConfigService = (*ConfigService)(nil)

// ConfigService implements invitecrawl.ConfigService using SQLite.
// The configuration is stored as one JSON document.
type ConfigService struct {
	db *DB
}

// NewConfigService creates a new ConfigService.
func NewConfigService(db *DB) *ConfigService {
	return &ConfigService{db: db}
}

// GetConfig returns the stored config clamped to its bounds. Fields missing
// from the stored document keep their default values.
func (s *ConfigService) GetConfig(ctx context.Context) (*invitecrawl.Config, error) {
	cfg := invitecrawl.DefaultConfig()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, settingsKey).Scan(&value)
	if err == sql.ErrNoRows {
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(value), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	cfg = cfg.Clamp()
	return &cfg, nil
}

// SaveConfig clamps cfg in place, validates it and stores it.
// Nothing is stored when validation fails.
func (s *ConfigService) SaveConfig(ctx context.Context, cfg *invitecrawl.Config) error {
	if cfg == nil {
		return invitecrawl.Errorf(invitecrawl.EINVALID, "config required")
	}
	*cfg = cfg.Clamp()
	if err := cfg.Validate(); err != nil {
		return err
	}

	value, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, settingsKey, string(value))
	return err
}
