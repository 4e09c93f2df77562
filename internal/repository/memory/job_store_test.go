package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxtract/internal/domain"
)

func TestJobStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewJobStore()

	job := &domain.Job{ID: uuid.New(), Status: domain.JobStatusProcessing}
	require.NoError(t, store.Create(ctx, job))
	assert.False(t, job.CreatedAt.IsZero())

	got, err := store.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusProcessing, got.Status)

	job.Status = domain.JobStatusCompleted
	job.Result = &domain.AnalysisResult{CorrectedText: "text"}
	require.NoError(t, store.Update(ctx, job))

	got, err = store.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "text", got.Result.CorrectedText)
}

func TestJobStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewJobStore()

	_, err := store.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.Update(ctx, &domain.Job{ID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
