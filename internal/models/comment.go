package models

import "time"

// Comment is one stakeholder submission as read from a dataset or
// request body. StakeholderType is an optional passthrough field.
type Comment struct {
	ID              string `json:"id"`
	StakeholderType string `json:"stakeholder_type,omitempty"`
	Text            string `json:"text"`
}

// Label is the canonical three-way sentiment classification.
type Label string

const (
	LabelPositive Label = "Positive"
	LabelNeutral  Label = "Neutral"
	LabelNegative Label = "Negative"
)

// RawSentiment is a classifier's native output before threshold mapping:
// the model's own label vocabulary and its confidence for that label.
type RawSentiment struct {
	Label string
	Score float64
}

// Keyword is one extracted term with its relevance score in [0,1].
type Keyword struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// AnalysisResult is the full pipeline output for one comment. A failed
// comment carries its error in Err with the model fields left zero, so
// batch output always has one row per input.
type AnalysisResult struct {
	Comment

	CleanedText    string    `json:"cleaned_text,omitempty"`
	SentimentLabel Label     `json:"sentiment"`
	SentimentScore float64   `json:"score"`
	RawLabel       string    `json:"raw_label,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	Keywords       []Keyword `json:"keywords,omitempty"`
	WasSummarized  bool      `json:"was_summarized,omitempty"`
	Err            string    `json:"error,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Failed reports whether analysis of this comment failed.
func (r AnalysisResult) Failed() bool {
	return r.Err != ""
}
