package strategy

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"rxtract/internal/abbrev"
	"rxtract/internal/corrector"
	"rxtract/internal/domain"
	"rxtract/internal/port"
	"rxtract/internal/retry"
)

const modelSystemPrompt = "You are a medical pharmacist specialized in prescription analysis. " +
	"Extract all medications from the prescription with their complete details. " +
	"Be especially careful to identify common medication spelling variants and abbreviations. " +
	"For each medication, identify: " +
	"1. Exact medication name (use standard names from medical databases) " +
	"2. Dosage (amount and unit) " +
	"3. Route (oral, topical, etc.) if specified " +
	"4. Administration instructions (frequency, timing, relation to food) " +
	"5. Duration if specified " +
	"\nCommon abbreviations: QD (once daily), BID (twice daily), TID (three times daily), " +
	"QID (four times daily), PRN (as needed), PO (by mouth), SC (subcutaneous), " +
	"IM (intramuscular), IV (intravenous)" +
	"\nRespond ONLY with a JSON object with a 'medications' array containing medication objects."

// Span labels worth highlighting for the model.
var highlightLabels = map[string]bool{
	port.LabelChemical: true,
	"ORG":              true,
	"PRODUCT":          true,
	"MEDICATION":       true,
}

// ModelConfig tunes the generative strategy.
type ModelConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	MaxRetries  int
	RetryDelay  time.Duration
}

// Model extracts medications with a JSON-constrained generative call.
// Failures degrade to an empty candidate list rather than an error so the
// other strategies still contribute to the final record.
type Model struct {
	generator  port.TextGenerator
	recognizer port.EntityRecognizer
	corrector  *corrector.Corrector
	cfg        ModelConfig
}

// NewModel creates the generative strategy.
func NewModel(g port.TextGenerator, r port.EntityRecognizer, c *corrector.Corrector, cfg ModelConfig) *Model {
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	return &Model{generator: g, recognizer: r, corrector: c, cfg: cfg}
}

func (m *Model) Source() domain.SourceStrategy {
	return domain.StrategyModel
}

func (m *Model) Extract(ctx context.Context, text string) ([]domain.Candidate, error) {
	highlighted := m.highlight(ctx, text)

	var content string
	err := retry.Do(ctx, m.cfg.MaxRetries, m.cfg.RetryDelay, func() error {
		var genErr error
		content, genErr = m.generator.Generate(ctx, port.ChatInput{
			System:      modelSystemPrompt,
			User:        "Extract medications from this prescription:\n" + highlighted,
			Model:       m.cfg.Model,
			Temperature: m.cfg.Temperature,
			MaxTokens:   m.cfg.MaxTokens,
			JSONMode:    true,
		})
		return genErr
	})
	if err != nil {
		log.Printf("model.Extract: all attempts failed: %v", err)
		return nil, nil
	}

	return m.parse(content), nil
}

// highlight prefixes recognised spans so the model pays attention to them.
// Recognition failures leave the text untouched.
func (m *Model) highlight(ctx context.Context, text string) string {
	entities, err := m.recognizer.Recognize(ctx, text)
	if err != nil {
		log.Printf("model.highlight: recognizer failed, using plain text: %v", err)
		return text
	}
	highlighted := text
	for _, ent := range entities {
		if highlightLabels[ent.Label] {
			highlighted = strings.ReplaceAll(highlighted, ent.Text, "POTENTIAL_MEDICATION: "+ent.Text)
		}
	}
	return highlighted
}

type modelMedication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Route        string `json:"route"`
	Instructions string `json:"instructions"`
	Duration     string `json:"duration"`
}

func (m *Model) parse(content string) []domain.Candidate {
	content = stripCodeFence(content)

	var parsed struct {
		Medications []modelMedication `json:"medications"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		log.Printf("model.parse: response is not valid JSON: %v", err)
		return nil
	}

	var out []domain.Candidate
	for _, med := range parsed.Medications {
		if med.Name == "" {
			continue
		}
		instructions := med.Instructions
		if instructions != "" {
			instructions = abbrev.Expand(instructions)
		}
		out = append(out, domain.Candidate{
			Name:         m.corrector.Correct(med.Name),
			Dosage:       med.Dosage,
			Frequency:    med.Frequency,
			Route:        med.Route,
			Instructions: instructions,
			Duration:     med.Duration,
			Source:       domain.StrategyModel,
			Position:     -1,
		})
	}
	return out
}

// stripCodeFence removes a surrounding markdown fence some models emit
// even in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
