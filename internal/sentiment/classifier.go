package sentiment

import (
	"context"

	"github.com/econsult-tools/econsult/internal/models"
)

// Classifier is the sentiment model role. Implementations are loaded
// once at startup and reused sequentially; they are not specified for
// concurrent invocation.
type Classifier interface {
	// Classify returns the model's own label vocabulary and confidence
	// for text. Text is expected to be cleaned already.
	Classify(ctx context.Context, text string) (models.RawSentiment, error)
}
