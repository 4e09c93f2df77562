package port

import (
	"context"

	"github.com/google/uuid"

	"rxtract/internal/domain"
)

// JobStore persists asynchronous analysis jobs.
type JobStore interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	Update(ctx context.Context, job *domain.Job) error
}
