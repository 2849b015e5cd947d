package reliability

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/graham/internal/database"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"
)

// Disk thresholds in bytes
const (
	diskCriticalBytes = 500 * 1000 * 1000
	diskLowBytes      = 5 * 1000 * 1000 * 1000
)

// DailyMaintenanceJob checks database integrity, reports growth and watches free disk space
type DailyMaintenanceJob struct {
	databases []*database.DB
	dataDir   string
	timeout   time.Duration
	log       zerolog.Logger
}

// NewDailyMaintenanceJob creates a new daily maintenance job
func NewDailyMaintenanceJob(databases []*database.DB, dataDir string, log zerolog.Logger) *DailyMaintenanceJob {
	return &DailyMaintenanceJob{
		databases: databases,
		dataDir:   dataDir,
		timeout:   5 * time.Minute,
		log:       log.With().Str("job", "daily_maintenance").Logger(),
	}
}

// Name returns the job name
func (j *DailyMaintenanceJob) Name() string {
	return "daily_maintenance"
}

// Run executes the daily maintenance job. An integrity failure or a nearly
// full disk fails the run; everything else is logged.
func (j *DailyMaintenanceJob) Run() error {
	j.log.Info().Msg("Starting daily maintenance")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	for _, db := range j.databases {
		if err := db.HealthCheck(ctx); err != nil {
			j.log.Error().Err(err).Str("database", db.Name()).Msg("Integrity check failed")
			return fmt.Errorf("integrity check failed for %s: %w", db.Name(), err)
		}
		j.logGrowth(db)
	}

	if err := j.checkDiskSpace(ctx); err != nil {
		return err
	}

	j.log.Info().Dur("duration", time.Since(startTime)).Msg("Daily maintenance completed")
	return nil
}

func (j *DailyMaintenanceJob) logGrowth(db *database.DB) {
	stats, err := db.GetStats()
	if err != nil {
		j.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to read database stats")
		return
	}

	j.log.Info().
		Str("database", db.Name()).
		Int64("size_bytes", stats.SizeBytes).
		Int64("wal_bytes", stats.WALSizeBytes).
		Int64("free_pages", stats.FreelistCount).
		Msg("Database size")
}

func (j *DailyMaintenanceJob) checkDiskSpace(ctx context.Context) error {
	usage, err := disk.UsageWithContext(ctx, j.dataDir)
	if err != nil {
		j.log.Warn().Err(err).Str("path", j.dataDir).Msg("Failed to read disk usage")
		return nil
	}

	availableGB := float64(usage.Free) / 1e9
	switch {
	case usage.Free < diskCriticalBytes:
		j.log.Error().Float64("available_gb", availableGB).Msg("Insufficient disk space")
		return fmt.Errorf("only %.2f GB free on %s", availableGB, j.dataDir)
	case usage.Free < diskLowBytes:
		j.log.Warn().Float64("available_gb", availableGB).Msg("Disk space running low")
	default:
		j.log.Debug().Float64("available_gb", availableGB).Msg("Disk space check")
	}

	return nil
}

// RetentionSource supplies the current backup retention in days
type RetentionSource func() int

// R2BackupJob uploads a fresh backup and then rotates old ones
type R2BackupJob struct {
	service   *R2BackupService
	retention RetentionSource
	timeout   time.Duration
	log       zerolog.Logger
}

// NewR2BackupJob creates a new backup job
func NewR2BackupJob(service *R2BackupService, retention RetentionSource, log zerolog.Logger) *R2BackupJob {
	return &R2BackupJob{
		service:   service,
		retention: retention,
		timeout:   15 * time.Minute,
		log:       log.With().Str("job", "r2_backup").Logger(),
	}
}

// Name returns the job name
func (j *R2BackupJob) Name() string {
	return "r2_backup"
}

// Run executes the backup job. A rotation failure after a successful upload
// is logged but does not fail the run.
func (j *R2BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.service.CreateAndUploadBackup(ctx); err != nil {
		return err
	}

	if _, err := j.service.RotateOldBackups(ctx, j.retention()); err != nil {
		j.log.Warn().Err(err).Msg("Backup rotation failed")
	}

	return nil
}
