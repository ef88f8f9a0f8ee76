package repository

import (
	"video2quiz/internal/app/model"
)

// JobHistoryDAO archives terminal jobs (completed or failed) so results
// survive process restarts and can be exported later. The live job
// store stays in memory; this is a write-behind record, not the store.
type JobHistoryDAO interface {
	Close() error

	// Record persists a terminal job snapshot.
	Record(job *model.Job) error

	// GetByID returns an archived job by id.
	GetByID(id string) (*model.Job, error)

	// ListRecent returns up to limit archived jobs, most recent first.
	ListRecent(limit int) ([]model.Job, error)
}
