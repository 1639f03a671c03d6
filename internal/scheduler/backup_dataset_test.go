package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hoteldo/internal/events"
)

type fakeBackups struct {
	createErr     error
	rotateErr     error
	rotated       int
	retentionDays int
	creates       int
}

func (f *fakeBackups) CreateAndUploadBackup(ctx context.Context) (string, int64, error) {
	f.creates++
	if f.createErr != nil {
		return "", 0, f.createErr
	}
	return "hoteldo-backup-2026-01-01-000000.tar.gz", 2048, nil
}

func (f *fakeBackups) RotateOldBackups(ctx context.Context, retentionDays int) (int, error) {
	f.retentionDays = retentionDays
	return f.rotated, f.rotateErr
}

func TestBackupDatasetJob_Name(t *testing.T) {
	assert.Equal(t, "backup_dataset", NewBackupDatasetJob(&fakeBackups{}, 30).Name())
}

func TestBackupDatasetJob_Run(t *testing.T) {
	backups := &fakeBackups{rotated: 2}
	job := NewBackupDatasetJob(backups, 14)
	bus := events.NewBus(zerolog.Nop())
	job.SetEmitter(bus)

	var received *events.Event
	bus.Subscribe(events.BackupCompleted, func(e *events.Event) { received = e })

	require.NoError(t, job.Run())
	assert.Equal(t, 14, backups.retentionDays)

	require.NotNil(t, received)
	data := received.Data.(*events.BackupCompletedData)
	assert.Equal(t, "hoteldo-backup-2026-01-01-000000.tar.gz", data.Archive)
	assert.Equal(t, int64(2048), data.SizeBytes)
	assert.Equal(t, 2, data.Deleted)
	assert.Equal(t, "backup_dataset", received.Module)
}

func TestBackupDatasetJob_CreateFailure(t *testing.T) {
	job := NewBackupDatasetJob(&fakeBackups{createErr: errors.New("bucket unavailable")}, 30)

	err := job.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unavailable")
}

func TestBackupDatasetJob_RotationFailureIsNotFatal(t *testing.T) {
	job := NewBackupDatasetJob(&fakeBackups{rotateErr: errors.New("list failed")}, 30)
	job.SetLogger(zerolog.New(nil).Level(zerolog.Disabled))

	assert.NoError(t, job.Run())
}
