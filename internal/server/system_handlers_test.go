package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/graham/internal/database"
	"github.com/aristath/graham/internal/reliability"
	"github.com/aristath/graham/internal/scheduler"
)

type fakeBackups struct {
	enabled  bool
	archive  string
	err      error
	backups  []reliability.BackupInfo
	listErr  error
	requests int
}

func (f *fakeBackups) Enabled() bool { return f.enabled }

func (f *fakeBackups) CreateAndUploadBackup(context.Context) (string, error) {
	f.requests++
	return f.archive, f.err
}

func (f *fakeBackups) ListBackups(context.Context) ([]reliability.BackupInfo, error) {
	return f.backups, f.listErr
}

type fakeJobs []scheduler.JobStatus

func (f fakeJobs) Status() []scheduler.JobStatus { return f }

type fakeCache map[string]int64

func (f fakeCache) Counts(context.Context) (map[string]int64, error) { return f, nil }

type fakeUpstream bool

func (f fakeUpstream) HasAPIKey() bool { return bool(f) }

func newSystemRouter(deps SystemDeps) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewSystemHandlers(deps, zerolog.Nop()).RegisterRoutes(r)
	})
	return r
}

func openDB(t *testing.T, dir, name string) *database.DB {
	t.Helper()
	db, err := database.New(database.Config{Path: filepath.Join(dir, name+".db"), Name: name})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSystemStatus(t *testing.T) {
	dataDir := t.TempDir()
	configDB := openDB(t, dataDir, database.NameConfig)

	deps := SystemDeps{
		DataDir:   dataDir,
		Databases: []*database.DB{configDB},
		Cache:     fakeCache{"fmp_earnings": 4},
		Jobs:      fakeJobs{{Name: "wal_checkpoint", Schedule: "@hourly"}},
		Backups:   &fakeBackups{enabled: true},
		Upstream:  fakeUpstream(true),
	}

	rec := httptest.NewRecorder()
	newSystemRouter(deps).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))

	assert.Equal(t, "healthy", status.Status)
	assert.True(t, status.FMPConfigured)
	assert.True(t, status.BackupsEnabled)
	require.Len(t, status.Databases, 1)
	assert.Equal(t, "config", status.Databases[0].Name)
	assert.True(t, status.Databases[0].Healthy)
	assert.NotNil(t, status.Databases[0].Stats)
	assert.Equal(t, int64(4), status.CacheEntries["fmp_earnings"])
	require.Len(t, status.Jobs, 1)
	assert.Equal(t, "wal_checkpoint", status.Jobs[0].Name)
	assert.Greater(t, status.Disk.DataDirMB, 0.0)
}

func TestSystemStatus_DegradedDatabase(t *testing.T) {
	dataDir := t.TempDir()
	db := openDB(t, dataDir, database.NameClientData)
	require.NoError(t, db.Close())

	rec := httptest.NewRecorder()
	newSystemRouter(SystemDeps{Databases: []*database.DB{db}}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "degraded", status.Status)
	require.Len(t, status.Databases, 1)
	assert.False(t, status.Databases[0].Healthy)
	assert.NotEmpty(t, status.Databases[0].Error)
	assert.False(t, status.FMPConfigured)
}

func TestTriggerBackup(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		for _, deps := range []SystemDeps{{}, {Backups: &fakeBackups{enabled: false}}} {
			rec := httptest.NewRecorder()
			newSystemRouter(deps).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/system/backup", nil))
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		backups := &fakeBackups{enabled: true, archive: "graham-backup-2025-01-01-000000.tar.gz"}
		rec := httptest.NewRecorder()
		newSystemRouter(SystemDeps{Backups: backups}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/system/backup", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, backups.archive, body["archive"])
		assert.Equal(t, 1, backups.requests)
	})

	t.Run("failure", func(t *testing.T) {
		backups := &fakeBackups{enabled: true, err: errors.New("upload failed")}
		rec := httptest.NewRecorder()
		newSystemRouter(SystemDeps{Backups: backups}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/system/backup", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Backup failed", decodeError(t, rec))
	})
}

func TestListBackups(t *testing.T) {
	t.Run("lists", func(t *testing.T) {
		ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		backups := &fakeBackups{enabled: true, backups: []reliability.BackupInfo{
			{Filename: reliability.BackupName(ts), Timestamp: ts, SizeBytes: 1024},
		}}
		rec := httptest.NewRecorder()
		newSystemRouter(SystemDeps{Backups: backups}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/system/backups", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Backups []reliability.BackupInfo `json:"backups"`
			Count   int                      `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Count)
		assert.Equal(t, "graham-backup-2025-01-02-030405.tar.gz", body.Backups[0].Filename)
	})

	t.Run("disabled", func(t *testing.T) {
		backups := &fakeBackups{listErr: reliability.ErrR2NotConfigured}
		rec := httptest.NewRecorder()
		newSystemRouter(SystemDeps{Backups: backups}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/system/backups", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("store error", func(t *testing.T) {
		backups := &fakeBackups{enabled: true, listErr: errors.New("timeout")}
		rec := httptest.NewRecorder()
		newSystemRouter(SystemDeps{Backups: backups}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/system/backups", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
