package reliability

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aristath/graham/internal/database"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyMaintenanceJob(t *testing.T) {
	dataDir := t.TempDir()
	db, err := database.New(database.Config{
		Path: filepath.Join(dataDir, "config.db"),
		Name: database.NameConfig,
	})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	job := NewDailyMaintenanceJob([]*database.DB{db}, dataDir, zerolog.Nop())

	assert.Equal(t, "daily_maintenance", job.Name())
	assert.NoError(t, job.Run())
}

func TestDailyMaintenanceJob_ClosedDatabaseFails(t *testing.T) {
	dataDir := t.TempDir()
	db, err := database.New(database.Config{
		Path: filepath.Join(dataDir, "config.db"),
		Name: database.NameConfig,
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	job := NewDailyMaintenanceJob([]*database.DB{db}, dataDir, zerolog.Nop())
	assert.ErrorContains(t, job.Run(), "config")
}

func TestR2BackupJob(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	seedBackups(store, now, 1, 2, 3, 60)

	svc := NewR2BackupService(store, []Snapshotter{fakeSnapshot{name: "config", content: "db"}}, t.TempDir(), zerolog.Nop())
	job := NewR2BackupJob(svc, func() int { return 30 }, zerolog.Nop())

	assert.Equal(t, "r2_backup", job.Name())
	require.NoError(t, job.Run())

	keys := store.keys()
	assert.Len(t, keys, 4)
	assert.NotContains(t, keys, BackupName(now.AddDate(0, 0, -60)))
}

func TestR2BackupJob_UploadFailure(t *testing.T) {
	store := newFakeStore()
	store.uploadErr = errors.New("offline")

	svc := NewR2BackupService(store, []Snapshotter{fakeSnapshot{name: "config"}}, t.TempDir(), zerolog.Nop())
	job := NewR2BackupJob(svc, func() int { return 30 }, zerolog.Nop())

	assert.ErrorContains(t, job.Run(), "offline")
}
