package sentiment

import (
	"strings"

	"github.com/econsult-tools/econsult/config"
	"github.com/econsult-tools/econsult/internal/models"
)

// Positivity normalizes a raw classifier output onto a single [0,1]
// positivity scale: 1 is confidently positive, 0 confidently negative,
// 0.5 undecided. Binary models report the confidence of their predicted
// class, so a negative prediction is inverted. Unknown labels are
// treated as negative-indicating.
func Positivity(raw models.RawSentiment) float64 {
	switch {
	case isPositiveLabel(raw.Label):
		return raw.Score
	case isNeutralLabel(raw.Label):
		return 0.5
	default:
		return 1 - raw.Score
	}
}

// MapLabel converts a positivity score into the three-way sentiment
// category. score >= positive cutoff maps to Positive and
// score <= negative cutoff maps to Negative, both inclusive at the
// cutoff; everything between collapses to Neutral. An explicitly
// neutral raw label is Neutral regardless of score. Pure function:
// identical inputs always yield the identical label.
func MapLabel(rawLabel string, score float64, thresholds config.ThresholdSettings) models.Label {
	if isNeutralLabel(rawLabel) {
		return models.LabelNeutral
	}

	switch {
	case score >= thresholds.SentimentPositive:
		return models.LabelPositive
	case score <= thresholds.SentimentNegative:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}

// isPositiveLabel covers the label vocabularies of the supported
// models: POSITIVE/pos prefixes, star ratings, and generic LABEL_1.
func isPositiveLabel(label string) bool {
	upper := strings.ToUpper(strings.TrimSpace(label))
	if strings.Contains(upper, "POS") {
		return true
	}
	switch upper {
	case "4", "5", "4 STARS", "5 STARS", "LABEL_1":
		return true
	}
	return false
}

func isNeutralLabel(label string) bool {
	upper := strings.ToUpper(strings.TrimSpace(label))
	return strings.Contains(upper, "NEU") || upper == "3" || upper == "3 STARS"
}
