// Package memory holds in-process implementations of the persistence
// ports, used when no database is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"rxtract/internal/domain"
	"rxtract/internal/port"
)

// JobStore keeps jobs in a map. Suitable for single-instance deployments;
// jobs are lost on restart.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]domain.Job
}

// NewJobStore creates an empty in-memory JobStore.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[uuid.UUID]domain.Job)}
}

var _ port.JobStore = (*JobStore)(nil)

func (s *JobStore) Create(_ context.Context, job *domain.Job) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

func (s *JobStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &job, nil
}

func (s *JobStore) Update(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return domain.ErrNotFound
	}
	job.UpdatedAt = time.Now().UTC()
	s.jobs[job.ID] = *job
	return nil
}
