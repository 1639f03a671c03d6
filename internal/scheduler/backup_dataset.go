package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/events"
)

const backupTimeout = 10 * time.Minute

// BackupRunner creates and rotates remote backups
type BackupRunner interface {
	CreateAndUploadBackup(ctx context.Context) (string, int64, error)
	RotateOldBackups(ctx context.Context, retentionDays int) (int, error)
}

// BackupDatasetJob uploads a database backup and prunes expired ones
type BackupDatasetJob struct {
	log           zerolog.Logger
	backups       BackupRunner
	emitter       EventEmitter
	retentionDays int
}

// NewBackupDatasetJob creates a new BackupDatasetJob
func NewBackupDatasetJob(backups BackupRunner, retentionDays int) *BackupDatasetJob {
	return &BackupDatasetJob{
		log:           zerolog.Nop(),
		backups:       backups,
		retentionDays: retentionDays,
	}
}

// SetLogger sets the logger for the job
func (j *BackupDatasetJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// SetEmitter sets where backup outcomes are published
func (j *BackupDatasetJob) SetEmitter(emitter EventEmitter) {
	j.emitter = emitter
}

// Name returns the job name
func (j *BackupDatasetJob) Name() string {
	return "backup_dataset"
}

// Run uploads a backup, then rotates. A rotation failure does not fail the job.
func (j *BackupDatasetJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
	defer cancel()

	archive, size, err := j.backups.CreateAndUploadBackup(ctx)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	deleted, err := j.backups.RotateOldBackups(ctx, j.retentionDays)
	if err != nil {
		j.log.Warn().Err(err).Msg("Backup rotation failed")
	}

	if j.emitter != nil {
		j.emitter.Emit(j.Name(), &events.BackupCompletedData{
			Archive:   archive,
			SizeBytes: size,
			Deleted:   deleted,
		})
	}
	return nil
}
