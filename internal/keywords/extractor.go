package keywords

import (
	"context"

	"github.com/econsult-tools/econsult/internal/models"
)

// Extractor is the keyword model role. Implementations rank the most
// salient terms of a cleaned text.
type Extractor interface {
	// Extract returns up to topN keywords ranked best first. Empty or
	// whitespace-only text yields an empty result, not an error.
	Extract(ctx context.Context, text string, topN int) ([]models.Keyword, error)
}
