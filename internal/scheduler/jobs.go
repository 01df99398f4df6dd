package scheduler

import (
	"context"
	"time"

	"github.com/aristath/tradejournal/internal/database"
	"github.com/aristath/tradejournal/internal/reliability"
	"github.com/rs/zerolog"
)

// BackupRunner takes a database snapshot
type BackupRunner interface {
	Run(ctx context.Context) (*reliability.BackupResult, error)
}

// BackupJob snapshots the journal database
type BackupJob struct {
	backups BackupRunner
	timeout time.Duration
}

// NewBackupJob creates a backup job bounded by timeout
func NewBackupJob(backups BackupRunner, timeout time.Duration) *BackupJob {
	return &BackupJob{backups: backups, timeout: timeout}
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "backup"
}

// Run executes the backup
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	_, err := j.backups.Run(ctx)
	return err
}

// CheckpointJob truncates the WAL of the journal database and reports its size
type CheckpointJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewCheckpointJob creates a WAL checkpoint job
func NewCheckpointJob(db *database.DB, log zerolog.Logger) *CheckpointJob {
	return &CheckpointJob{
		db:  db,
		log: log.With().Str("job", "wal_checkpoint").Logger(),
	}
}

// Name returns the job name
func (j *CheckpointJob) Name() string {
	return "wal_checkpoint"
}

// Run executes the checkpoint
func (j *CheckpointJob) Run() error {
	if j.db == nil {
		return nil
	}

	result, err := j.db.WALCheckpoint("TRUNCATE")
	if err != nil {
		return err
	}

	if result.Busy {
		j.log.Warn().
			Int("wal_frames", result.LogFrames).
			Int("checkpointed", result.Checkpointed).
			Msg("WAL checkpoint could not complete, readers still active")
		return nil
	}

	j.log.Debug().
		Int("wal_frames", result.LogFrames).
		Int("checkpointed", result.Checkpointed).
		Msg("WAL checkpoint completed")
	return nil
}
