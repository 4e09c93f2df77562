// Package strategy contains the medication extraction strategies run by
// the reconciler: regex patterns, entity recognition, and a generative
// model.
package strategy

import (
	"context"
	"regexp"
	"strings"

	"rxtract/internal/corrector"
	"rxtract/internal/domain"
	"rxtract/internal/fields"
)

const (
	// Lookahead windows for locating frequency phrases after a mention.
	annotatedWindow = 200
	numberedWindow  = 100
)

var (
	// Mentions annotated upstream with a corrected-name label.
	annotatedRe = regexp.MustCompile(`(?i)(?:Corrected medication name\))\s*([\w\s]+)(?:\s+(\d+(?:\.\d+)?)\s*(mg|ml|g|mcg|tablet|capsule|pill))?`)
	// Numbered list entries such as "1. Paracetamol 500 mg". The name
	// group is lazy and stops at line ends so it binds the dose right
	// after the name, not a later amount on a following line.
	numberedRe = regexp.MustCompile(`(?:\d+\.?\s*)([\w ]+?)\s+(\d+(?:\.\d+)?)\s*(mg|ml|g|mcg|tablet|capsule|pill)`)
)

// Pattern extracts medications with regular expressions. Annotated
// mentions are tried first; the numbered list form is a fallback that only
// runs when no annotated mention matched.
type Pattern struct {
	corrector *corrector.Corrector
}

// NewPattern creates the regex strategy.
func NewPattern(c *corrector.Corrector) *Pattern {
	return &Pattern{corrector: c}
}

func (p *Pattern) Source() domain.SourceStrategy {
	return domain.StrategyPattern
}

func (p *Pattern) Extract(_ context.Context, text string) ([]domain.Candidate, error) {
	candidates := p.extractAnnotated(text)
	if len(candidates) == 0 {
		candidates = p.extractNumbered(text)
	}
	return candidates, nil
}

func (p *Pattern) extractAnnotated(text string) []domain.Candidate {
	var out []domain.Candidate
	for _, idx := range annotatedRe.FindAllStringSubmatchIndex(text, -1) {
		m := groupsFromIndex(annotatedRe, text, idx)
		name := strings.TrimSpace(m[1])

		dosage := ""
		if m[2] != "" && m[3] != "" {
			dosage = m[2] + " " + m[3]
		} else {
			dosage = fields.DosageFor(text, name)
		}

		out = append(out, domain.Candidate{
			Name:      name,
			Dosage:    dosage,
			Frequency: fields.Frequency(window(text, idx[0], annotatedWindow)),
			Source:    domain.StrategyPattern,
			Position:  idx[0],
		})
	}
	return out
}

func (p *Pattern) extractNumbered(text string) []domain.Candidate {
	var out []domain.Candidate
	for _, m := range numberedRe.FindAllStringSubmatch(text, -1) {
		rawName := strings.TrimSpace(m[1])
		name := p.corrector.Correct(rawName)

		frequency := ""
		position := strings.Index(text, rawName)
		if position != -1 {
			frequency = fields.Frequency(window(text, position, numberedWindow))
		}

		out = append(out, domain.Candidate{
			Name:      name,
			Dosage:    m[2] + " " + m[3],
			Frequency: frequency,
			Source:    domain.StrategyPattern,
			Position:  position,
		})
	}
	return out
}

// window returns the slice of text starting at from, capped at n bytes.
func window(text string, from, n int) string {
	if from < 0 || from >= len(text) {
		return ""
	}
	end := from + n
	if end > len(text) {
		end = len(text)
	}
	return text[from:end]
}

// groupsFromIndex materialises submatch strings from a FindAllStringSubmatchIndex
// entry, with "" for groups that did not participate.
func groupsFromIndex(re *regexp.Regexp, text string, idx []int) []string {
	groups := make([]string, re.NumSubexp()+1)
	for i := 0; i <= re.NumSubexp(); i++ {
		start, end := idx[2*i], idx[2*i+1]
		if start >= 0 {
			groups[i] = text[start:end]
		}
	}
	return groups
}
