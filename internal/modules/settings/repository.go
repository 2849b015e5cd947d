// Package settings manages runtime settings stored in config.db. Stored values
// take precedence over environment configuration and can be changed without a restart.
package settings

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const (
	selectSettingSQL = `SELECT value FROM settings WHERE key = ?`
	selectAllSQL     = `SELECT key, value FROM settings ORDER BY key`
	deleteSettingSQL = `DELETE FROM settings WHERE key = ?`

	// A nil description keeps whatever description the row already has.
	upsertSettingSQL = `
		INSERT INTO settings (key, value, description, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			description = COALESCE(excluded.description, settings.description),
			updated_at = excluded.updated_at`
)

// Repository reads and writes the settings table. Values are stored as text.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

// NewRepository creates a settings repository over config.db.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "settings").Logger(),
		now: time.Now,
	}
}

// Get returns the stored value, or nil when the key has never been set.
func (r *Repository) Get(key string) (*string, error) {
	var value string
	switch err := r.db.QueryRow(selectSettingSQL, key).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return &value, nil
}

// Set upserts a value and stamps updated_at.
func (r *Repository) Set(key string, value string, description *string) error {
	var desc sql.NullString
	if description != nil {
		desc = sql.NullString{String: *description, Valid: true}
	}

	if _, err := r.db.Exec(upsertSettingSQL, key, value, desc, r.now().Unix()); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// GetAll returns every stored setting keyed by name. Unreadable rows are skipped.
func (r *Repository) GetAll() (map[string]string, error) {
	rows, err := r.db.Query(selectAllSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	stored := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			r.log.Warn().Err(err).Msg("Skipping unreadable setting row")
			continue
		}
		stored[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return stored, nil
}

// GetFloat parses a numeric setting. A missing or non-numeric value yields
// fallback; only query failures are returned as errors.
func (r *Repository) GetFloat(key string, fallback float64) (float64, error) {
	value, err := r.Get(key)
	if err != nil || value == nil {
		return fallback, err
	}

	parsed, err := strconv.ParseFloat(*value, 64)
	if err != nil {
		r.log.Warn().Str("key", key).Str("value", *value).Msg("Ignoring non-numeric setting")
		return fallback, nil
	}
	return parsed, nil
}

// Delete removes a setting. Deleting a missing key is not an error.
func (r *Repository) Delete(key string) error {
	if _, err := r.db.Exec(deleteSettingSQL, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}
