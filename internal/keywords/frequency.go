package keywords

import (
	"context"
	"sort"

	"github.com/econsult-tools/econsult/internal/models"
)

// FrequencyExtractor is the statistical fallback: terms ranked by
// occurrence count. It needs no model and always produces a non-empty
// result when the input has any non-stopword token.
type FrequencyExtractor struct{}

func NewFrequencyExtractor() *FrequencyExtractor {
	return &FrequencyExtractor{}
}

// Extract counts candidate terms and returns the topN most frequent,
// scores normalized by the highest count. Ties break alphabetically so
// the ranking is deterministic.
func (e *FrequencyExtractor) Extract(_ context.Context, text string, topN int) ([]models.Keyword, error) {
	tokens := Tokenize(text)
	if len(tokens) == 0 || topN <= 0 {
		return nil, nil
	}

	counts := make(map[string]int, len(tokens))
	maxCount := 0
	for _, token := range tokens {
		counts[token]++
		if counts[token] > maxCount {
			maxCount = counts[token]
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > topN {
		terms = terms[:topN]
	}

	result := make([]models.Keyword, len(terms))
	for i, term := range terms {
		result[i] = models.Keyword{
			Term:  term,
			Score: float64(counts[term]) / float64(maxCount),
		}
	}
	return result, nil
}
