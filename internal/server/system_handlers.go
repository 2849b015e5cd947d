package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/graham/internal/database"
	"github.com/aristath/graham/internal/reliability"
	"github.com/aristath/graham/internal/scheduler"
)

// CacheCounter reports the number of cached upstream responses per table
type CacheCounter interface {
	Counts(ctx context.Context) (map[string]int64, error)
}

// JobStatusSource reports background job outcomes
type JobStatusSource interface {
	Status() []scheduler.JobStatus
}

// BackupService creates and lists offsite backups
type BackupService interface {
	Enabled() bool
	CreateAndUploadBackup(ctx context.Context) (string, error)
	ListBackups(ctx context.Context) ([]reliability.BackupInfo, error)
}

// CredentialStatus reports whether the upstream API key is set
type CredentialStatus interface {
	HasAPIKey() bool
}

// SystemDeps are the collaborators of SystemHandlers. Any of them may be nil.
type SystemDeps struct {
	DataDir   string
	Databases []*database.DB
	Cache     CacheCounter
	Jobs      JobStatusSource
	Backups   BackupService
	Upstream  CredentialStatus
}

// SystemHandlers serves status and maintenance endpoints
type SystemHandlers struct {
	deps      SystemDeps
	startedAt time.Time
	log       zerolog.Logger
}

// NewSystemHandlers creates new system handlers
func NewSystemHandlers(deps SystemDeps, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		deps:      deps,
		startedAt: time.Now(),
		log:       log.With().Str("handler", "system").Logger(),
	}
}

// SystemStatusResponse represents system status
type SystemStatusResponse struct {
	Status         string                `json:"status"` // "healthy" or "degraded"
	UptimeSeconds  int64                 `json:"uptime_seconds"`
	FMPConfigured  bool                  `json:"fmp_configured"`
	BackupsEnabled bool                  `json:"backups_enabled"`
	CPUPercent     float64               `json:"cpu_percent"`
	MemoryPercent  float64               `json:"memory_percent"`
	Databases      []DBInfo              `json:"databases"`
	CacheEntries   map[string]int64      `json:"cache_entries,omitempty"`
	Jobs           []scheduler.JobStatus `json:"jobs"`
	Disk           DiskUsageResponse     `json:"disk"`
}

// DBInfo represents information about a single database
type DBInfo struct {
	Name    string          `json:"name"`
	Path    string          `json:"path"`
	Healthy bool            `json:"healthy"`
	Error   string          `json:"error,omitempty"`
	Stats   *database.Stats `json:"stats,omitempty"`
}

// DiskUsageResponse represents disk usage statistics
type DiskUsageResponse struct {
	DataDirMB   float64 `json:"data_dir_mb"`
	AvailableMB float64 `json:"available_mb,omitempty"`
}

// RegisterRoutes registers the system routes
func (h *SystemHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/system", func(r chi.Router) {
		r.Get("/status", h.HandleSystemStatus)
		r.Post("/backup", h.HandleTriggerBackup)
		r.Get("/backups", h.HandleListBackups)
	})
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Databases:     []DBInfo{},
		Jobs:          []scheduler.JobStatus{},
	}

	if h.deps.Upstream != nil {
		response.FMPConfigured = h.deps.Upstream.HasAPIKey()
	}
	if h.deps.Backups != nil {
		response.BackupsEnabled = h.deps.Backups.Enabled()
	}
	if h.deps.Jobs != nil {
		response.Jobs = h.deps.Jobs.Status()
	}

	for _, db := range h.deps.Databases {
		info := DBInfo{Name: db.Name(), Path: db.Path(), Healthy: true}
		if err := db.QuickCheck(ctx); err != nil {
			info.Healthy = false
			info.Error = err.Error()
			response.Status = "degraded"
		} else if stats, err := db.GetStats(); err == nil {
			info.Stats = stats
		}
		response.Databases = append(response.Databases, info)
	}

	if h.deps.Cache != nil {
		counts, err := h.deps.Cache.Counts(ctx)
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to count cache entries")
		} else {
			response.CacheEntries = counts
		}
	}

	response.CPUPercent, response.MemoryPercent = h.getSystemStats(ctx)
	response.Disk = h.getDiskUsage(ctx)

	writeJSON(w, http.StatusOK, response, h.log)
}

// HandleTriggerBackup handles POST /api/system/backup
func (h *SystemHandlers) HandleTriggerBackup(w http.ResponseWriter, r *http.Request) {
	if h.deps.Backups == nil || !h.deps.Backups.Enabled() {
		writeError(w, http.StatusServiceUnavailable, reliability.ErrR2NotConfigured.Error(), h.log)
		return
	}

	archive, err := h.deps.Backups.CreateAndUploadBackup(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Manual backup failed")
		writeError(w, http.StatusInternalServerError, "Backup failed", h.log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"archive": archive}, h.log)
}

// HandleListBackups handles GET /api/system/backups
func (h *SystemHandlers) HandleListBackups(w http.ResponseWriter, r *http.Request) {
	if h.deps.Backups == nil {
		writeError(w, http.StatusServiceUnavailable, reliability.ErrR2NotConfigured.Error(), h.log)
		return
	}

	backups, err := h.deps.Backups.ListBackups(r.Context())
	if err != nil {
		if errors.Is(err, reliability.ErrR2NotConfigured) {
			writeError(w, http.StatusServiceUnavailable, err.Error(), h.log)
			return
		}
		h.log.Error().Err(err).Msg("Failed to list backups")
		writeError(w, http.StatusInternalServerError, "Failed to list backups", h.log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"backups": backups,
		"count":   len(backups),
	}, h.log)
}

// getSystemStats samples CPU over a short interval so the request stays fast
func (h *SystemHandlers) getSystemStats(ctx context.Context) (float64, float64) {
	cpuAvg := 0.0
	cpuPercent, err := cpu.PercentWithContext(ctx, 100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
	} else if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	memStat, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return cpuAvg, 0
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) getDiskUsage(ctx context.Context) DiskUsageResponse {
	if h.deps.DataDir == "" {
		return DiskUsageResponse{}
	}

	usage := DiskUsageResponse{DataDirMB: dirSizeMB(h.deps.DataDir)}
	if stat, err := disk.UsageWithContext(ctx, h.deps.DataDir); err == nil {
		usage.AvailableMB = float64(stat.Free) / 1024 / 1024
	}
	return usage
}

// dirSizeMB sums regular file sizes below dir, skipping unreadable entries
func dirSizeMB(dir string) float64 {
	var total int64
	_ = filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return float64(total) / 1024 / 1024
}
