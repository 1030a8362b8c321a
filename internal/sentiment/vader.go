package sentiment

import (
	"context"

	"github.com/jonreiter/govader"

	"github.com/econsult-tools/econsult/internal/models"
)

// VADERClassifier is the lexicon-based fallback used when the
// transformer model cannot be loaded. It never fails and needs no model
// files.
type VADERClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVADERClassifier() *VADERClassifier {
	return &VADERClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Classify scores text with VADER. The compound score in [-1,1] is
// rescaled to the class-confidence convention binary transformers use
// (predicted class with confidence >= 0.5), so downstream threshold
// mapping behaves identically for both classifiers.
func (c *VADERClassifier) Classify(_ context.Context, text string) (models.RawSentiment, error) {
	scores := c.analyzer.PolarityScores(text)
	positivity := (scores.Compound + 1) / 2

	if positivity >= 0.5 {
		return models.RawSentiment{Label: "POSITIVE", Score: positivity}, nil
	}
	return models.RawSentiment{Label: "NEGATIVE", Score: 1 - positivity}, nil
}
