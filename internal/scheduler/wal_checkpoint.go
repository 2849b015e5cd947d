package scheduler

import (
	"github.com/aristath/graham/internal/database"
	"github.com/rs/zerolog"
)

// walFramesWarnThreshold matches the wal_autocheckpoint setting on every connection
const walFramesWarnThreshold = 1000

// WALCheckpointJob truncates the WAL of each database and warns when one has grown large
type WALCheckpointJob struct {
	log       zerolog.Logger
	databases []*database.DB
}

// NewWALCheckpointJob creates a new WALCheckpointJob. Nil databases are skipped.
func NewWALCheckpointJob(log zerolog.Logger, databases ...*database.DB) *WALCheckpointJob {
	dbs := make([]*database.DB, 0, len(databases))
	for _, db := range databases {
		if db != nil {
			dbs = append(dbs, db)
		}
	}
	return &WALCheckpointJob{
		log:       log.With().Str("job", "wal_checkpoint").Logger(),
		databases: dbs,
	}
}

// Name returns the job name
func (j *WALCheckpointJob) Name() string {
	return "wal_checkpoint"
}

// Run checks the WAL size of each database and then checkpoints it.
// A failure on one database does not stop the others.
func (j *WALCheckpointJob) Run() error {
	checked := 0
	for _, db := range j.databases {
		// PRAGMA wal_checkpoint returns: busy, log, checkpointed
		var busy, frames, checkpointed int
		err := db.Conn().QueryRow("PRAGMA wal_checkpoint(PASSIVE)").Scan(&busy, &frames, &checkpointed)
		if err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to check WAL checkpoint")
			continue
		}

		if frames > walFramesWarnThreshold {
			j.log.Warn().
				Str("database", db.Name()).
				Int("wal_frames", frames).
				Int("checkpointed", checkpointed).
				Msg("WAL file is large")
		}

		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("WAL truncate failed")
			continue
		}
		checked++
	}

	j.log.Info().Int("checked", checked).Int("total", len(j.databases)).Msg("WAL checkpoint completed")
	return nil
}
