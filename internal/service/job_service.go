package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"rxtract/internal/domain"
	"rxtract/internal/image"
	"rxtract/internal/port"
)

// JobService runs analyses asynchronously. A semaphore bounds the number
// of concurrent pipelines.
type JobService struct {
	store      port.JobStore
	extraction *ExtractionService
	sem        chan struct{}
	timeout    time.Duration
}

// NewJobService creates the async runner. concurrency of zero or less
// defaults to 4.
func NewJobService(store port.JobStore, extraction *ExtractionService, concurrency int) *JobService {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &JobService{
		store:      store,
		extraction: extraction,
		sem:        make(chan struct{}, concurrency),
		timeout:    5 * time.Minute,
	}
}

// SubmitImage validates the upload, registers a job, and processes it in
// the background. Validation failures are returned synchronously so the
// caller gets an immediate error instead of a doomed job.
func (s *JobService) SubmitImage(ctx context.Context, data []byte) (*domain.Job, error) {
	if _, err := image.Validate(data, s.extraction.cfg.MaxImageBytes); err != nil {
		return nil, err
	}

	job := &domain.Job{
		ID:     uuid.New(),
		Status: domain.JobStatusProcessing,
	}
	if err := s.store.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("jobService.SubmitImage: %w", err)
	}

	go s.process(job.ID, data)
	return job, nil
}

// Get returns the job with its result once completed.
func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	return s.store.GetByID(ctx, id)
}

func (s *JobService) process(id uuid.UUID, data []byte) {
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	job, err := s.store.GetByID(ctx, id)
	if err != nil {
		log.Printf("jobService.process: loading job %s: %v", id, err)
		return
	}

	result, err := s.extraction.AnalyzeImage(ctx, data)
	if err != nil {
		job.Status = domain.JobStatusFailed
		job.Error = err.Error()
	} else {
		job.Status = domain.JobStatusCompleted
		job.Result = result
	}

	if err := s.store.Update(ctx, job); err != nil {
		log.Printf("jobService.process: updating job %s: %v", id, err)
	}
}
