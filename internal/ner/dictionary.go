// Package ner provides entity recognition over prescription text. The
// default recogniser is dictionary driven: it tags occurrences of known
// canonical drug names, including common misspellings caught by a fuzzy
// pass over individual tokens.
package ner

import (
	"context"
	"regexp"
	"sort"

	"rxtract/internal/corrector"
	"rxtract/internal/drugindex"
	"rxtract/internal/port"
)

// Dictionary tags spans matching the canonical vocabulary with the
// CHEMICAL label. It also runs standalone capitalised tokens through the
// fuzzy corrector so that misspelled names are still surfaced.
type Dictionary struct {
	patterns  []*regexp.Regexp
	corrector *corrector.Corrector
	known     map[string]bool
}

var tokenRe = regexp.MustCompile(`\b[A-Z][a-z]{3,}\b`)

// NewDictionary builds a recogniser over the given index. The corrector
// may be nil, which disables the fuzzy token pass.
func NewDictionary(index *drugindex.Index, c *corrector.Corrector) *Dictionary {
	d := &Dictionary{corrector: c, known: make(map[string]bool)}
	for _, name := range index.All() {
		d.patterns = append(d.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(name)+`\b`))
		d.known[name] = true
	}
	return d
}

func (d *Dictionary) Recognize(_ context.Context, text string) ([]port.Entity, error) {
	var entities []port.Entity
	covered := make(map[int]bool)

	for _, re := range d.patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if covered[loc[0]] {
				continue
			}
			covered[loc[0]] = true
			entities = append(entities, port.Entity{
				Text:  text[loc[0]:loc[1]],
				Label: port.LabelChemical,
				Start: loc[0],
			})
		}
	}

	if d.corrector != nil {
		for _, loc := range tokenRe.FindAllStringIndex(text, -1) {
			if covered[loc[0]] {
				continue
			}
			token := text[loc[0]:loc[1]]
			if d.known[d.corrector.Correct(token)] {
				covered[loc[0]] = true
				entities = append(entities, port.Entity{
					Text:  token,
					Label: port.LabelChemical,
					Start: loc[0],
				})
			}
		}
	}

	sort.Slice(entities, func(i, j int) bool { return entities[i].Start < entities[j].Start })
	return entities, nil
}
