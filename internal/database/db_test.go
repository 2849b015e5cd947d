package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, name string, profile DatabaseProfile) *DB {
	t.Helper()
	db, err := New(Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: profile,
		Name:    name,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableNames(t *testing.T, db *DB) []string {
	t.Helper()
	rows, err := db.Conn().Query("SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestNew_DefaultsToStandardProfile(t *testing.T) {
	db := openTestDB(t, "misc", "")

	assert.Equal(t, ProfileStandard, db.Profile())
	assert.Equal(t, "misc", db.Name())
	assert.True(t, filepath.IsAbs(db.Path()))
}

func TestMigrate_Config(t *testing.T) {
	db := openTestDB(t, NameConfig, ProfileStandard)

	require.NoError(t, db.Migrate())
	// Second run must be a no-op
	require.NoError(t, db.Migrate())

	names := tableNames(t, db)
	assert.Contains(t, names, "settings")
	assert.Contains(t, names, "state_blobs")
}

func TestMigrate_ClientData(t *testing.T) {
	db := openTestDB(t, NameClientData, ProfileCache)

	require.NoError(t, db.Migrate())

	names := tableNames(t, db)
	for _, table := range []string{
		"fmp_earnings", "fmp_shares_float", "fmp_treasury_rates",
		"fmp_profile", "fmp_market_cap", "fmp_dividends",
	} {
		assert.Contains(t, names, table)
	}
}

func TestMigrate_UnknownNameIsNoop(t *testing.T) {
	db := openTestDB(t, "scratch", ProfileStandard)

	require.NoError(t, db.Migrate())
	assert.Empty(t, tableNames(t, db))
}

func TestWithTransaction(t *testing.T) {
	db := openTestDB(t, NameConfig, ProfileStandard)
	require.NoError(t, db.Migrate())

	insert := func(tx *sql.Tx, key string) error {
		_, err := tx.Exec("INSERT INTO settings (key, value, updated_at) VALUES (?, ?, 0)", key, "v")
		return err
	}
	count := func() int {
		var n int
		require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM settings").Scan(&n))
		return n
	}

	t.Run("commits on success", func(t *testing.T) {
		err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			return insert(tx, "a")
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			require.NoError(t, insert(tx, "b"))
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, count())
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			require.NoError(t, insert(tx, "c"))
			panic("bad")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic in transaction")
		assert.Equal(t, 1, count())
	})

	t.Run("nil connection", func(t *testing.T) {
		assert.Error(t, WithTransaction(nil, func(*sql.Tx) error { return nil }))
	})
}

func TestHealthChecks(t *testing.T) {
	db := openTestDB(t, NameConfig, ProfileStandard)
	ctx := context.Background()

	assert.NoError(t, db.QuickCheck(ctx))
	assert.NoError(t, db.HealthCheck(ctx))
	assert.NoError(t, db.WALCheckpoint(""))
	assert.NoError(t, db.WALCheckpoint("passive"))
	assert.Error(t, db.WALCheckpoint("NOW; DROP TABLE settings"))
}

func TestConnectionString(t *testing.T) {
	conn := connectionString("/tmp/x.db", ProfileCache)

	assert.True(t, strings.HasPrefix(conn, "/tmp/x.db?_pragma=journal_mode(WAL)&"))
	assert.Contains(t, conn, "_pragma=synchronous(OFF)")
	assert.Contains(t, conn, "_pragma=busy_timeout(5000)")
	assert.NotContains(t, conn, "synchronous(NORMAL)")
}

func TestBackupTo(t *testing.T) {
	db := openTestDB(t, NameConfig, ProfileStandard)
	require.NoError(t, db.Migrate())
	_, err := db.Conn().Exec("INSERT INTO settings (key, value, updated_at) VALUES ('fmp_api_key', 'k', 0)")
	require.NoError(t, err)

	target := filepath.Join(t.TempDir(), "copy.db")
	require.NoError(t, db.BackupTo(context.Background(), target))

	copyDB, err := New(Config{Path: target, Name: "copy"})
	require.NoError(t, err)
	defer copyDB.Close()

	var value string
	require.NoError(t, copyDB.Conn().QueryRow("SELECT value FROM settings WHERE key = 'fmp_api_key'").Scan(&value))
	assert.Equal(t, "k", value)

	// Refuses to overwrite
	assert.Error(t, db.BackupTo(context.Background(), target))
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t, NameClientData, ProfileCache)
	require.NoError(t, db.Migrate())

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Greater(t, stats.PageCount, int64(0))
	assert.Greater(t, stats.PageSize, int64(0))
	assert.Greater(t, stats.SizeBytes+stats.WALSizeBytes, int64(0))
}
