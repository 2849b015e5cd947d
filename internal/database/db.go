// Package database opens the service's SQLite files, applies their embedded
// schemas and exposes the maintenance operations the scheduler relies on.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schemas/*.sql
var schemaFS embed.FS

// Database names, also used to pick the schema file.
const (
	NameConfig     = "config"
	NameClientData = "client_data"
)

var schemaFiles = map[string]string{
	NameConfig:     "schemas/config_schema.sql",
	NameClientData: "schemas/client_data_schema.sql",
}

// DatabaseProfile selects the durability/speed trade-off of a database.
type DatabaseProfile string

const (
	// ProfileCache trades durability for speed. Contents can be refetched.
	ProfileCache DatabaseProfile = "cache"
	// ProfileStandard is fsync-at-checkpoint durability for user state.
	ProfileStandard DatabaseProfile = "standard"
)

var profilePragmas = map[DatabaseProfile][]string{
	ProfileCache: {
		"synchronous(OFF)",
		"auto_vacuum(FULL)",
		"temp_store(MEMORY)",
	},
	ProfileStandard: {
		"synchronous(NORMAL)",
		"auto_vacuum(INCREMENTAL)",
		"temp_store(MEMORY)",
	},
}

var commonPragmas = []string{
	"busy_timeout(5000)",
	"wal_autocheckpoint(1000)",
	"cache_size(-16000)", // 16MB
}

var checkpointModes = map[string]bool{
	"PASSIVE":  true,
	"FULL":     true,
	"RESTART":  true,
	"TRUNCATE": true,
}

// DB is an open SQLite database with its profile and name.
type DB struct {
	conn    *sql.DB
	path    string
	profile DatabaseProfile
	name    string
}

// Config describes a database to open.
type Config struct {
	Path    string
	Profile DatabaseProfile // defaults to ProfileStandard
	Name    string          // used in logs and to select the schema
}

// New opens the database, creating its directory when needed, and verifies
// the connection.
func New(cfg Config) (*DB, error) {
	if cfg.Profile == "" {
		cfg.Profile = ProfileStandard
	}

	// file: URIs (in-memory test databases) are passed through untouched
	if !strings.HasPrefix(cfg.Path, "file:") {
		absPath, err := filepath.Abs(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path %s: %w", cfg.Path, err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		cfg.Path = absPath
	}

	conn, err := sql.Open("sqlite", connectionString(cfg.Path, cfg.Profile))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Name, err)
	}
	configurePool(conn, cfg.Profile)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", cfg.Name, err)
	}

	return &DB{
		conn:    conn,
		path:    cfg.Path,
		profile: cfg.Profile,
		name:    cfg.Name,
	}, nil
}

// connectionString encodes the profile's PRAGMAs as modernc _pragma params.
// Every profile runs in WAL mode.
func connectionString(path string, profile DatabaseProfile) string {
	pragmas := append([]string{"journal_mode(WAL)"}, profilePragmas[profile]...)
	pragmas = append(pragmas, commonPragmas...)

	var b strings.Builder
	b.WriteString(path)
	for i, p := range pragmas {
		if i == 0 {
			b.WriteString("?")
		} else {
			b.WriteString("&")
		}
		b.WriteString("_pragma=")
		b.WriteString(p)
	}
	return b.String()
}

func configurePool(conn *sql.DB, profile DatabaseProfile) {
	maxOpen := 10
	if profile == ProfileCache {
		// dashboard loads write the cache in bursts
		maxOpen = 4
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(24 * time.Hour)
	conn.SetConnMaxIdleTime(30 * time.Minute)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying pool for repositories.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Name returns the database name.
func (db *DB) Name() string {
	return db.name
}

// Profile returns the database profile.
func (db *DB) Profile() DatabaseProfile {
	return db.profile
}

// Path returns the absolute file path.
func (db *DB) Path() string {
	return db.path
}

// Migrate applies the embedded schema for this database. Schemas use
// IF NOT EXISTS throughout, so running Migrate on every start is safe.
// Databases without a schema are left alone.
func (db *DB) Migrate() error {
	schemaFile, ok := schemaFiles[db.name]
	if !ok {
		return nil
	}

	content, err := schemaFS.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("failed to read schema %s: %w", schemaFile, err)
	}

	err = WithTransaction(db.conn, func(tx *sql.Tx) error {
		_, err := tx.Exec(string(content))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to apply schema %s for %s: %w", schemaFile, db.name, err)
	}
	return nil
}

// WithTransaction runs fn inside a transaction. The transaction commits when
// fn returns nil and rolls back when fn errors or panics; a panic is returned
// as an error.
func WithTransaction(db *sql.DB, fn func(*sql.Tx) error) (err error) {
	if db == nil {
		return errors.New("database connection is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("panic in transaction: %v", p)
			return
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("transaction failed: %w (rollback also failed: %v)", err, rbErr)
				return
			}
			err = fmt.Errorf("transaction failed: %w", err)
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(tx)
}

// HealthCheck pings the database and runs a full integrity check.
func (db *DB) HealthCheck(ctx context.Context) error {
	if err := db.QuickCheck(ctx); err != nil {
		return fmt.Errorf("ping failed for %s: %w", db.name, err)
	}

	var result string
	if err := db.conn.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check query failed for %s: %w", db.name, err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed for %s: %s", db.name, result)
	}
	return nil
}

// QuickCheck only pings the database.
func (db *DB) QuickCheck(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// WALCheckpoint checkpoints the WAL in the given mode (PASSIVE, FULL,
// RESTART or TRUNCATE). An empty mode means TRUNCATE.
func (db *DB) WALCheckpoint(mode string) error {
	if mode == "" {
		mode = "TRUNCATE"
	}
	mode = strings.ToUpper(mode)
	if !checkpointModes[mode] {
		return fmt.Errorf("unknown WAL checkpoint mode %q", mode)
	}

	if _, err := db.conn.Exec("PRAGMA wal_checkpoint(" + mode + ")"); err != nil {
		return fmt.Errorf("WAL checkpoint failed for %s: %w", db.name, err)
	}
	return nil
}

// BackupTo writes a consistent, compacted copy of the database to path using
// VACUUM INTO. The target file must not exist.
func (db *DB) BackupTo(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("backup target already exists: %s", path)
	}

	if _, err := db.conn.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return fmt.Errorf("backup of %s failed: %w", db.name, err)
	}
	return nil
}

// Stats describes the on-disk footprint of a database.
type Stats struct {
	SizeBytes     int64 `json:"size_bytes"`
	WALSizeBytes  int64 `json:"wal_size_bytes"`
	PageCount     int64 `json:"page_count"`
	PageSize      int64 `json:"page_size"`
	FreelistCount int64 `json:"freelist_count"`
}

// GetStats reads file sizes and page counters. Missing files count as zero.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{
		SizeBytes:    fileSize(db.path),
		WALSizeBytes: fileSize(db.path + "-wal"),
	}

	counters := []struct {
		pragma string
		dst    *int64
	}{
		{"page_count", &stats.PageCount},
		{"page_size", &stats.PageSize},
		{"freelist_count", &stats.FreelistCount},
	}
	for _, c := range counters {
		if err := db.conn.QueryRow("PRAGMA " + c.pragma).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to read %s for %s: %w", c.pragma, db.name, err)
		}
	}
	return stats, nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
