// Package di provides dependency injection for services.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/graham/internal/clientdata"
	"github.com/aristath/graham/internal/clients/fmp"
	"github.com/aristath/graham/internal/config"
	"github.com/aristath/graham/internal/modules/company"
	companyhandlers "github.com/aristath/graham/internal/modules/company/handlers"
	"github.com/aristath/graham/internal/modules/dashboard"
	dashboardhandlers "github.com/aristath/graham/internal/modules/dashboard/handlers"
	"github.com/aristath/graham/internal/modules/groups"
	groupshandlers "github.com/aristath/graham/internal/modules/groups/handlers"
	"github.com/aristath/graham/internal/modules/settings"
	settingshandlers "github.com/aristath/graham/internal/modules/settings/handlers"
	"github.com/aristath/graham/internal/reliability"
	"github.com/rs/zerolog"
)

// InitializeServices builds repositories, clients, services and handlers.
// Settings stored in config.db are applied to cfg before anything reads it.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	// Settings first: they override env configuration
	container.SettingsRepo = settings.NewRepository(container.ConfigDB.Conn(), log)
	if err := cfg.UpdateFromSettings(container.SettingsRepo); err != nil {
		return fmt.Errorf("failed to apply stored settings: %w", err)
	}
	container.SettingsService = settings.NewService(container.SettingsRepo, log)
	container.SettingsService.SetToleranceFallback(cfg.DefaultTolerancePct)

	// Upstream client with its response cache
	container.ClientDataRepo = clientdata.NewRepository(container.ClientDataDB.Conn())
	container.FMPClient = fmp.NewClient(cfg.FMPAPIKey, log,
		fmp.WithBaseURL(cfg.FMPBaseURL),
		fmp.WithRateLimit(cfg.FMPRateLimit),
		fmp.WithCache(container.ClientDataRepo),
	)
	if !container.FMPClient.HasAPIKey() {
		log.Warn().Msg("FMP API key not configured; data requests will fail until it is set")
	}

	// Ticker groups, repaired and persisted on load
	container.GroupsRepo = groups.NewSQLiteRepository(container.ConfigDB.Conn(), log)
	container.GroupsService = groups.NewService(container.GroupsRepo, log)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := container.GroupsService.Init(ctx); err != nil {
		return fmt.Errorf("failed to load ticker groups: %w", err)
	}

	container.DashboardService = dashboard.NewService(container.FMPClient, dashboard.DefaultConcurrency, log)
	container.CompanyService = company.NewService(container.FMPClient, log)
	container.BackupService = newBackupService(ctx, container, cfg, log)

	// Handlers
	container.DashboardHandler = dashboardhandlers.NewHandler(
		container.DashboardService,
		container.GroupsService,
		container.SettingsService,
		log,
	)
	container.CompanyHandler = companyhandlers.NewHandler(container.CompanyService, log)
	container.GroupsHandler = groupshandlers.NewHandler(container.GroupsService, log)
	container.SettingsHandler = settingshandlers.NewHandler(container.SettingsService, log)
	container.SettingsHandler.SetCredentialRefresher(container.FMPClient)

	log.Info().Msg("Services initialized")
	return nil
}

// newBackupService attaches R2 storage when credentials are present. Without
// them the service is still returned so the API can report it as disabled.
func newBackupService(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) *reliability.R2BackupService {
	snapshots := []reliability.Snapshotter{container.ConfigDB}

	if !cfg.R2.Enabled() {
		return reliability.NewR2BackupService(nil, snapshots, cfg.DataDir, log)
	}

	client, err := reliability.NewR2Client(ctx, reliability.R2Credentials{
		AccountID:       cfg.R2.AccountID,
		AccessKeyID:     cfg.R2.AccessKeyID,
		SecretAccessKey: cfg.R2.SecretAccessKey,
		Bucket:          cfg.R2.Bucket,
	}, log)
	if err != nil {
		log.Warn().Err(err).Msg("R2 client unavailable, backups disabled")
		return reliability.NewR2BackupService(nil, snapshots, cfg.DataDir, log)
	}

	return reliability.NewR2BackupService(client, snapshots, cfg.DataDir, log)
}
