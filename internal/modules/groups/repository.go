package groups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Repository persists the whole group set as a single value.
type Repository interface {
	// Load returns the persisted set, or nil when nothing usable is stored.
	Load(ctx context.Context) (GroupSet, error)
	Save(ctx context.Context, set GroupSet) error
}

// SQLiteRepository stores the group set as one msgpack blob in config.db (state_blobs table).
type SQLiteRepository struct {
	db  *sql.DB
	key string
	log zerolog.Logger
}

// NewSQLiteRepository creates a repository that reads and writes the blob under StorageKey.
func NewSQLiteRepository(db *sql.DB, log zerolog.Logger) *SQLiteRepository {
	return &SQLiteRepository{
		db:  db,
		key: StorageKey,
		log: log.With().Str("repository", "groups").Logger(),
	}
}

// Load reads and decodes the stored blob. A missing row yields nil. A blob that
// does not decode as a group array is discarded with a warning and also yields nil.
func (r *SQLiteRepository) Load(ctx context.Context) (GroupSet, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, "SELECT data FROM state_blobs WHERE key = ?", r.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}

	var set GroupSet
	if err := msgpack.Unmarshal(data, &set); err != nil {
		r.log.Warn().Err(err).Int("bytes", len(data)).Msg("Discarding undecodable group data")
		return nil, nil
	}
	return set, nil
}

// Save replaces the stored blob.
func (r *SQLiteRepository) Save(ctx context.Context, set GroupSet) error {
	data, err := msgpack.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to encode groups: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO state_blobs (key, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, r.key, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save groups: %w", err)
	}

	r.log.Debug().Int("groups", len(set)).Msg("Saved groups")
	return nil
}
