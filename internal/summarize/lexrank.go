package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/ramenjuniti/lexrankmmr"
)

// lexRankSafeInputLen is generous: the extractive ranker runs locally
// and has no model context window.
const lexRankSafeInputLen = 100000

// avgSentenceWords approximates sentence length when converting the word
// bounds into a sentence count for the ranker.
const avgSentenceWords = 18

// LexRankSummarizer is the extractive fallback used when the chat model
// is unavailable. It selects the highest-ranked sentences of the input,
// so it degrades to truncation-quality output but never needs network
// or credentials.
type LexRankSummarizer struct{}

func NewLexRankSummarizer() *LexRankSummarizer {
	return &LexRankSummarizer{}
}

func (s *LexRankSummarizer) SafeInputLen() int { return lexRankSafeInputLen }

// Summarize extracts roughly maxWords worth of top-ranked sentences.
func (s *LexRankSummarizer) Summarize(_ context.Context, text string, minWords, maxWords int) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	sentences := maxWords / avgSentenceWords
	if sentences < 1 {
		sentences = 1
	}

	// The ranker errors on empty sentences (zero TF-IDF vectors), so the
	// text is renormalized to one sentence per delimiter first.
	normalized := normalizeSentences(text)
	if normalized == "" {
		return "", nil
	}

	ranker, err := lexrankmmr.New(
		lexrankmmr.MaxLines(sentences),
		lexrankmmr.MaxCharacters(lexRankSafeInputLen),
	)
	if err != nil {
		return "", fmt.Errorf("init lexrank: %w", err)
	}

	if err := ranker.Summarize(normalized); err != nil {
		return "", fmt.Errorf("lexrank summarize: %w", err)
	}

	var picked []string
	for _, line := range ranker.LineLimitedSummary {
		sentence := strings.TrimSpace(line.Sentence)
		if sentence != "" {
			picked = append(picked, sentence)
		}
	}
	if len(picked) == 0 {
		return Truncate(text, maxWords), nil
	}

	summary := strings.Join(picked, " ")
	if WordCount(summary) > maxWords {
		summary = Truncate(summary, maxWords)
	}
	return summary, nil
}

// normalizeSentences rewrites sentence-ending punctuation into the
// delimiter the ranker splits on and drops blank segments.
func normalizeSentences(text string) string {
	replacer := strings.NewReplacer(
		"\r\n", "\n",
		"\r", "\n",
		". ", "\n",
		"! ", "\n",
		"? ", "\n",
	)
	text = replacer.Replace(text)

	var segments []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimRight(line, ".!?")
		if line != "" {
			segments = append(segments, line)
		}
	}
	if len(segments) == 0 {
		return ""
	}

	return strings.Join(segments, "。") + "。"
}
