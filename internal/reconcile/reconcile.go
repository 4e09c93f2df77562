// Package reconcile combines the outputs of the medication extraction
// strategies into a single de-duplicated list.
package reconcile

import (
	"context"
	"log"
	"strings"
	"sync"

	"rxtract/internal/domain"
	"rxtract/internal/port"
)

// Reconciler runs an exclusive cascade of rule strategies alongside an
// optional generative strategy and merges the two result sets. The
// generative strategy has priority: its entries win name collisions, and
// cascade entries it missed are appended in discovery order.
type Reconciler struct {
	cascade []port.MedicationStrategy
	model   port.MedicationStrategy
}

// New creates a Reconciler. model may be nil, leaving only the cascade.
func New(model port.MedicationStrategy, cascade ...port.MedicationStrategy) *Reconciler {
	return &Reconciler{cascade: cascade, model: model}
}

// Reconcile returns the final medication list for text.
func (r *Reconciler) Reconcile(ctx context.Context, text string) []domain.Medication {
	modelMeds, cascadeMeds := r.run(ctx, text)
	return merge(modelMeds, cascadeMeds)
}

// Compare runs both sides like Reconcile but reports the per-strategy
// breakdown instead of just the merged list.
func (r *Reconciler) Compare(ctx context.Context, text string) *domain.CompareReport {
	modelMeds, cascadeMeds := r.run(ctx, text)

	modelNames := nameSet(modelMeds)
	cascadeNames := nameSet(cascadeMeds)

	report := &domain.CompareReport{
		ModelCount:   len(modelMeds),
		PatternCount: len(cascadeMeds),
		Final:        merge(modelMeds, cascadeMeds),
	}
	report.FinalCount = len(report.Final)

	for _, med := range modelMeds {
		key := strings.ToLower(med.Name)
		if cascadeNames[key] {
			report.FoundByBoth = append(report.FoundByBoth, med.Name)
		} else {
			report.ModelOnly = append(report.ModelOnly, med)
		}
	}
	for _, med := range cascadeMeds {
		if !modelNames[strings.ToLower(med.Name)] {
			report.PatternOnly = append(report.PatternOnly, med)
		}
	}
	return report
}

// run executes the generative strategy and the cascade in parallel.
func (r *Reconciler) run(ctx context.Context, text string) (modelMeds, cascadeMeds []domain.Medication) {
	var wg sync.WaitGroup

	if r.model != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			modelMeds = r.extract(ctx, r.model, text)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		cascadeMeds = r.runCascade(ctx, text)
	}()

	wg.Wait()
	return modelMeds, cascadeMeds
}

// runCascade tries the rule strategies in order and keeps the first
// non-empty result.
func (r *Reconciler) runCascade(ctx context.Context, text string) []domain.Medication {
	for _, s := range r.cascade {
		meds := r.extract(ctx, s, text)
		if len(meds) > 0 {
			return meds
		}
	}
	return nil
}

func (r *Reconciler) extract(ctx context.Context, s port.MedicationStrategy, text string) []domain.Medication {
	candidates, err := s.Extract(ctx, text)
	if err != nil {
		log.Printf("reconcile.Reconciler: %s strategy failed: %v", s.Source(), err)
		return nil
	}
	meds := make([]domain.Medication, 0, len(candidates))
	for _, c := range candidates {
		meds = append(meds, toMedication(c))
	}
	return meds
}

func toMedication(c domain.Candidate) domain.Medication {
	return domain.Medication{
		Name:         c.Name,
		Dosage:       c.Dosage,
		Frequency:    c.Frequency,
		Duration:     c.Duration,
		Route:        c.Route,
		Instructions: c.Instructions,
		Source:       c.Source,
	}
}

// merge keeps every primary entry, then appends secondary entries whose
// lowercased name is not already present.
func merge(primary, secondary []domain.Medication) []domain.Medication {
	out := make([]domain.Medication, 0, len(primary)+len(secondary))
	seen := make(map[string]bool, len(primary))
	for _, med := range primary {
		key := strings.ToLower(med.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, med)
	}
	for _, med := range secondary {
		key := strings.ToLower(med.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, med)
	}
	return out
}

func nameSet(meds []domain.Medication) map[string]bool {
	set := make(map[string]bool, len(meds))
	for _, med := range meds {
		set[strings.ToLower(med.Name)] = true
	}
	return set
}
