package strategy

import (
	"context"
	"fmt"
	"strings"

	"rxtract/internal/corrector"
	"rxtract/internal/domain"
	"rxtract/internal/fields"
	"rxtract/internal/port"
)

// Entity extracts medications from recognised chemical spans. It is the
// last resort in the cascade: a span only becomes a candidate when a
// dosage for it is discoverable in the text, which filters out the
// recogniser's false positives.
type Entity struct {
	recognizer port.EntityRecognizer
	corrector  *corrector.Corrector
}

// NewEntity creates the recogniser-backed strategy.
func NewEntity(r port.EntityRecognizer, c *corrector.Corrector) *Entity {
	return &Entity{recognizer: r, corrector: c}
}

func (e *Entity) Source() domain.SourceStrategy {
	return domain.StrategyEntity
}

func (e *Entity) Extract(ctx context.Context, text string) ([]domain.Candidate, error) {
	entities, err := e.recognizer.Recognize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("entity.Extract: %w", err)
	}

	var out []domain.Candidate
	seen := make(map[string]bool)
	for _, ent := range entities {
		if ent.Label != port.LabelChemical {
			continue
		}
		name := e.corrector.Correct(ent.Text)
		if seen[name] {
			continue
		}

		dosage := fields.DosageFor(text, ent.Text)
		if dosage == "" {
			continue
		}

		frequency := ""
		position := strings.Index(text, ent.Text)
		if position != -1 {
			frequency = fields.Frequency(window(text, position, numberedWindow))
		}

		seen[name] = true
		out = append(out, domain.Candidate{
			Name:      name,
			Dosage:    dosage,
			Frequency: frequency,
			Source:    domain.StrategyEntity,
			Position:  position,
		})
	}
	return out, nil
}
