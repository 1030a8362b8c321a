package summarize

import (
	"context"
	"strings"
)

// Summarizer is the summarization model role. Implementations are
// loaded once and reused sequentially across comments.
type Summarizer interface {
	// Summarize condenses text to between minWords and maxWords words.
	Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error)

	// SafeInputLen is the longest input, in runes, the model accepts in
	// one call. Longer texts are chunked and summarized hierarchically
	// by the orchestrator.
	SafeInputLen() int
}

// Truncate is the last-resort summary: the first maxWords words of the
// text, with an ellipsis when anything was cut. Used when every
// summarizer path failed.
func Truncate(text string, maxWords int) string {
	words := strings.Fields(text)
	if maxWords <= 0 || len(words) <= maxWords {
		return strings.TrimSpace(text)
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// WordCount reports the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
