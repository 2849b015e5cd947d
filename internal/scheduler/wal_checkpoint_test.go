package scheduler

import (
	"path/filepath"
	"testing"

	"github.com/aristath/graham/internal/database"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWALCheckpointJob(t *testing.T) {
	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "config.db"),
		Name: database.NameConfig,
	})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	_, err = db.Conn().Exec("INSERT INTO settings (key, value, updated_at) VALUES ('k', 'v', 0)")
	require.NoError(t, err)

	job := NewWALCheckpointJob(zerolog.Nop(), db, nil)

	assert.Equal(t, "wal_checkpoint", job.Name())
	assert.Len(t, job.databases, 1)
	assert.NoError(t, job.Run())
}

func TestWALCheckpointJob_ClosedDatabaseIsSkipped(t *testing.T) {
	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "cache.db"),
		Name: database.NameClientData,
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	job := NewWALCheckpointJob(zerolog.Nop(), db)
	assert.NoError(t, job.Run())
}
