package port

import (
	"context"

	"rxtract/internal/domain"
)

// MedicationStrategy is one way of finding medications in corrected
// prescription text. Strategies are side-effect free with respect to the
// text and may be run in any combination by the reconciler.
type MedicationStrategy interface {
	// Source identifies the strategy in reconciliation and provenance.
	Source() domain.SourceStrategy
	// Extract returns candidate medications in discovery order. An empty
	// slice with a nil error means the strategy found nothing.
	Extract(ctx context.Context, text string) ([]domain.Candidate, error)
}
