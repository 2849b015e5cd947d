// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"

	"github.com/aristath/graham/internal/clientdata"
	"github.com/aristath/graham/internal/config"
	"github.com/aristath/graham/internal/reliability"
	"github.com/aristath/graham/internal/scheduler"
	"github.com/rs/zerolog"
)

// Job schedules (seconds field first)
const (
	scheduleClientDataCleanup = "0 30 3 * * *" // daily 03:30
	scheduleWALCheckpoint     = "0 0 * * * *"  // hourly
	scheduleDailyMaintenance  = "0 0 2 * * *"  // daily 02:00
	scheduleR2Backup          = "0 0 4 * * *"  // daily 04:00
)

// RegisterJobs creates the background jobs and registers them with a new scheduler.
// The scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	sched := scheduler.New(log)
	instances := &JobInstances{
		ClientDataCleanup: clientdata.NewCleanupJob(container.ClientDataRepo, log),
		WALCheckpoint:     scheduler.NewWALCheckpointJob(log, container.Databases()...),
		DailyMaintenance:  reliability.NewDailyMaintenanceJob(container.Databases(), cfg.DataDir, log),
	}

	type registration struct {
		schedule string
		job      scheduler.Job
	}
	registrations := []registration{
		{scheduleClientDataCleanup, instances.ClientDataCleanup},
		{scheduleWALCheckpoint, instances.WALCheckpoint},
		{scheduleDailyMaintenance, instances.DailyMaintenance},
	}

	if container.BackupService != nil && container.BackupService.Enabled() {
		fallback := cfg.R2.RetentionDays
		instances.R2Backup = reliability.NewR2BackupJob(container.BackupService, func() int {
			return container.SettingsService.RetentionDays(fallback)
		}, log)
		registrations = append(registrations, registration{scheduleR2Backup, instances.R2Backup})
	}

	for _, reg := range registrations {
		if err := sched.AddJob(reg.schedule, reg.job); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.job.Name(), err)
		}
	}

	container.Scheduler = sched
	container.Jobs = instances

	log.Info().Int("jobs", len(registrations)).Msg("Jobs registered")
	return nil
}
