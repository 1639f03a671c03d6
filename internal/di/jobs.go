package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/config"
	"github.com/aristath/hoteldo/internal/scheduler"
)

// integrityCheckSchedule runs the database check daily at 03:00
const integrityCheckSchedule = "0 0 3 * * *"

// RegisterJobs creates the background jobs and registers them with the scheduler.
// An empty reload schedule leaves reloads to the API.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil || container.Scheduler == nil {
		return nil, fmt.Errorf("scheduler is not initialized")
	}

	reload := scheduler.NewReloadDatasetJob(
		container.Loader,
		container.DatasetRepo,
		container.Snapshots,
		container.AnalysisCache,
		cfg.RatesFile,
		cfg.RequestsFile,
	)
	reload.SetLogger(log.With().Str("job", "reload_dataset").Logger())
	if container.EventBus != nil {
		reload.SetEmitter(container.EventBus)
	}

	check := scheduler.NewCheckDatabaseJob(container.DB)
	check.SetLogger(log.With().Str("job", "check_database").Logger())

	if cfg.ReloadSchedule != "" {
		if err := container.Scheduler.AddJob(cfg.ReloadSchedule, reload); err != nil {
			return nil, fmt.Errorf("failed to register reload job: %w", err)
		}
	}
	if err := container.Scheduler.AddJob(integrityCheckSchedule, check); err != nil {
		return nil, fmt.Errorf("failed to register database check job: %w", err)
	}

	jobs := &JobInstances{
		ReloadDataset: reload,
		CheckDatabase: check,
	}

	if container.BackupService != nil {
		backup := scheduler.NewBackupDatasetJob(container.BackupService, cfg.Backup.RetentionDays)
		backup.SetLogger(log.With().Str("job", "backup_dataset").Logger())
		if container.EventBus != nil {
			backup.SetEmitter(container.EventBus)
		}
		if cfg.Backup.Schedule != "" {
			if err := container.Scheduler.AddJob(cfg.Backup.Schedule, backup); err != nil {
				return nil, fmt.Errorf("failed to register backup job: %w", err)
			}
		}
		jobs.BackupDataset = backup
	}

	return jobs, nil
}
