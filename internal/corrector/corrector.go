// Package corrector resolves noisy medication tokens against the canonical
// drug vocabulary using approximate string similarity.
package corrector

import (
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	lru "github.com/hashicorp/golang-lru/v2"

	"rxtract/internal/drugindex"
)

const (
	// DefaultThreshold is the minimum similarity score (0-100) for a fuzzy
	// match to be accepted.
	DefaultThreshold = 80
	// DefaultCacheSize bounds the lookup cache.
	DefaultCacheSize = 100

	maxFuzzyCandidates = 3
)

// Leading dosage-form qualifiers are dropped before matching.
var formPrefixRe = regexp.MustCompile(`(?i)^(Tablet|Capsule|Injection|Suspension|Solution|Syrup|Ointment|Cream|Tab|Cap|Inj|Susp|Sol|Syp|Oint)\s+`)

// Corrector fuzzy-matches tokens against a drugindex.Index. It is safe for
// concurrent use; results are cached in a bounded LRU because the same
// token recurs across lines, strategies, and documents.
type Corrector struct {
	index     *drugindex.Index
	threshold int
	metric    *metrics.Levenshtein
	cache     *lru.Cache[string, string]
}

// New creates a Corrector. A threshold or cacheSize of zero or less selects
// the default.
func New(index *drugindex.Index, threshold, cacheSize int) *Corrector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	metric := metrics.NewLevenshtein()
	metric.CaseSensitive = false

	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		// Only possible with a non-positive size, which is guarded above.
		panic(err)
	}
	return &Corrector{
		index:     index,
		threshold: threshold,
		metric:    metric,
		cache:     cache,
	}
}

// Correct returns the canonical drug name for token, or token unchanged if
// no sufficiently close match exists. It never fails.
func (c *Corrector) Correct(token string) string {
	if cached, ok := c.cache.Get(token); ok {
		return cached
	}
	result := c.correct(token)
	c.cache.Add(token, result)
	return result
}

func (c *Corrector) correct(token string) string {
	cleaned := strings.TrimSpace(formPrefixRe.ReplaceAllString(token, ""))

	// Too short to disambiguate against the vocabulary.
	if len(cleaned) < 3 {
		return token
	}

	// Exact case-insensitive hit wins and adopts the index casing.
	for _, name := range c.index.All() {
		if strings.EqualFold(name, cleaned) {
			return name
		}
	}

	type scored struct {
		name  string
		score int
	}
	var matches []scored
	for _, name := range c.index.All() {
		score := int(strutil.Similarity(cleaned, name, c.metric) * 100)
		if score >= c.threshold {
			matches = append(matches, scored{name: name, score: score})
		}
	}
	if len(matches) == 0 {
		return token
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	if len(matches) > maxFuzzyCandidates {
		matches = matches[:maxFuzzyCandidates]
	}
	if len(matches) > 1 {
		log.Printf("corrector.Correct: multiple matches for %q, best %q (%d)",
			token, matches[0].name, matches[0].score)
	}
	return matches[0].name
}
