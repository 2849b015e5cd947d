/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to the server for access to handlers and services.
 */
package di

import (
	"errors"

	"github.com/aristath/graham/internal/clientdata"
	"github.com/aristath/graham/internal/clients/fmp"
	"github.com/aristath/graham/internal/database"
	"github.com/aristath/graham/internal/modules/company"
	companyhandlers "github.com/aristath/graham/internal/modules/company/handlers"
	"github.com/aristath/graham/internal/modules/dashboard"
	dashboardhandlers "github.com/aristath/graham/internal/modules/dashboard/handlers"
	"github.com/aristath/graham/internal/modules/groups"
	groupshandlers "github.com/aristath/graham/internal/modules/groups/handlers"
	"github.com/aristath/graham/internal/modules/settings"
	settingshandlers "github.com/aristath/graham/internal/modules/settings/handlers"
	"github.com/aristath/graham/internal/reliability"
	"github.com/aristath/graham/internal/scheduler"
)

/**
 * Container holds all dependencies for the application.
 *
 * Architecture:
 * - Databases: config.db (settings, ticker groups) and client_data.db (upstream response cache)
 * - Clients: Financial Modeling Prep API client
 * - Services: groups, dashboard load cycle, company info, settings, backups
 * - Handlers: one per module, mounted under /api by the server
 * - Scheduler: cache cleanup, WAL checkpoint, maintenance and R2 backup jobs
 */
type Container struct {
	// Databases
	ConfigDB     *database.DB
	ClientDataDB *database.DB

	// Repositories
	SettingsRepo   *settings.Repository
	ClientDataRepo *clientdata.Repository
	GroupsRepo     groups.Repository

	// Clients
	FMPClient *fmp.Client

	// Services
	SettingsService  *settings.Service
	GroupsService    *groups.Service
	DashboardService *dashboard.Service
	CompanyService   *company.Service
	BackupService    *reliability.R2BackupService

	// Handlers
	DashboardHandler *dashboardhandlers.Handler
	CompanyHandler   *companyhandlers.Handler
	GroupsHandler    *groupshandlers.Handler
	SettingsHandler  *settingshandlers.Handler

	// Background jobs
	Scheduler *scheduler.Scheduler
	Jobs      *JobInstances
}

// JobInstances holds the registered jobs so they can be run on demand
type JobInstances struct {
	ClientDataCleanup scheduler.Job
	WALCheckpoint     scheduler.Job
	DailyMaintenance  scheduler.Job
	R2Backup          scheduler.Job // nil when backups are not configured
}

// Databases returns every open database
func (c *Container) Databases() []*database.DB {
	var dbs []*database.DB
	for _, db := range []*database.DB{c.ConfigDB, c.ClientDataDB} {
		if db != nil {
			dbs = append(dbs, db)
		}
	}
	return dbs
}

// Close closes every open database
func (c *Container) Close() error {
	var errs []error
	for _, db := range c.Databases() {
		if err := db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
