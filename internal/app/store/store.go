package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"video2quiz/internal/app/model"
)

// ErrNotFound is returned when the requested job id is unknown to the store.
var ErrNotFound = errors.New("job not found")

// Store holds all job records in memory and serializes writes per job.
// Stage execution is long-running, so each record carries its own lock;
// a single coarse lock would stall unrelated jobs behind one slow stage.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*entry
}

type entry struct {
	mu  sync.Mutex
	job *model.Job
}

// NewStore creates an empty job store.
func NewStore() *Store {
	return &Store{jobs: make(map[string]*entry)}
}

// Create allocates a fresh id and inserts a job in the queued state.
func (s *Store) Create(sourceRef, fileName string) (string, error) {
	id := uuid.New().String()

	job := &model.Job{
		ID:        id,
		SourceRef: sourceRef,
		FileName:  fileName,
		Status:    model.JobStatusQueued,
		Progress:  0,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[id]; exists {
		return "", fmt.Errorf("job id collision: %s", id)
	}
	s.jobs[id] = &entry{job: job}
	return id, nil
}

// Get returns a deep copy of the current record. The snapshot is
// consistent with respect to that job's own mutations and never
// exposes mid-commit state.
func (s *Store) Get(id string) (*model.Job, error) {
	s.mu.RLock()
	e, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.job.Clone(), nil
}

// MutateStage applies fn to the identified record under that record's
// exclusive lock. At most one mutation runs per job at a time; mutations
// of other jobs are not blocked.
func (s *Store) MutateStage(id string, fn func(job *model.Job) error) error {
	s.mu.RLock()
	e, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.job)
}

// Len returns the number of jobs currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
