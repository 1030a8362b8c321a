package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/econsult-tools/econsult/config"
	"github.com/econsult-tools/econsult/internal/models"
	"github.com/econsult-tools/econsult/internal/preprocessing"
	"github.com/econsult-tools/econsult/internal/sentiment"
	"github.com/econsult-tools/econsult/internal/summarize"
)

// ResultCache lets the orchestrator skip re-running models on text it
// has already analyzed. Misses and cache outages are silent.
type ResultCache interface {
	Get(ctx context.Context, text string) (models.AnalysisResult, bool)
	Put(ctx context.Context, result models.AnalysisResult)
}

// Orchestrator sequences preprocessing, summarization, classification,
// threshold mapping and keyword extraction into one result per comment.
// Execution is strictly sequential: each comment completes before the
// next begins.
type Orchestrator struct {
	settings config.Settings
	mc       *ModelContext
	cache    ResultCache
}

func NewOrchestrator(settings config.Settings, mc *ModelContext) *Orchestrator {
	return &Orchestrator{settings: settings, mc: mc}
}

// WithCache attaches a result cache.
func (o *Orchestrator) WithCache(cache ResultCache) *Orchestrator {
	o.cache = cache
	return o
}

// Analyze runs the full pipeline for one comment. Failures never
// escape: they are recorded on the result so batch processing can
// continue.
func (o *Orchestrator) Analyze(ctx context.Context, comment models.Comment) models.AnalysisResult {
	result := models.AnalysisResult{
		Comment:   comment,
		Timestamp: time.Now().UTC(),
	}

	cleaned := preprocessing.Clean(comment.Text)
	if cleaned == "" {
		result.Err = models.ErrEmptyInput.Error()
		return result
	}
	result.CleanedText = cleaned

	if o.cache != nil {
		if cached, ok := o.cache.Get(ctx, cleaned); ok {
			cached.Comment = comment
			return cached
		}
	}

	result.Summary, result.WasSummarized = o.summarize(ctx, cleaned)

	raw, err := o.classify(ctx, cleaned)
	if err != nil {
		result.Err = fmt.Sprintf("sentiment classification: %v", err)
		return result
	}
	result.RawLabel = raw.Label
	result.SentimentScore = sentiment.Positivity(raw)
	result.SentimentLabel = sentiment.MapLabel(raw.Label, result.SentimentScore, o.settings.Thresholds)

	result.Keywords = o.extractKeywords(ctx, cleaned)

	if o.cache != nil {
		o.cache.Put(ctx, result)
	}
	return result
}

// AnalyzeBatch processes comments sequentially, producing exactly one
// result per input in the same order. A failing comment is recorded in
// its own row and never aborts, removes or reorders the others.
func (o *Orchestrator) AnalyzeBatch(ctx context.Context, comments []models.Comment) []models.AnalysisResult {
	results := make([]models.AnalysisResult, len(comments))
	start := time.Now()

	for i, comment := range comments {
		if comment.ID == "" {
			comment.ID = fmt.Sprintf("%d", i+1)
		}
		results[i] = o.Analyze(ctx, comment)
		if results[i].Failed() {
			slog.Warn("[Orchestrator] Row failed",
				slog.String("id", comment.ID),
				slog.String("error", results[i].Err))
		}
	}

	slog.Info("[Orchestrator] Batch complete",
		slog.Int("rows", len(comments)),
		slog.Duration("elapsed", time.Since(start)))
	return results
}

// summarize condenses cleaned text, chunking hierarchically when it
// exceeds the summarizer's safe input length: each chunk is summarized
// independently, then the concatenation of chunk summaries is
// compressed once more if it still exceeds the word bound. Any model
// failure degrades to truncation so a summary is always produced; the
// returned bool is false when every call degraded that way.
func (o *Orchestrator) summarize(ctx context.Context, cleaned string) (string, bool) {
	minLen := o.settings.Thresholds.MinSummaryLength
	maxLen := o.settings.Thresholds.MaxSummaryLength
	safeLen := o.mc.Summarizer.SafeInputLen()

	if len([]rune(cleaned)) <= safeLen {
		return o.summarizeOnce(ctx, cleaned, minLen, maxLen)
	}

	chunks := preprocessing.Chunk(cleaned, safeLen)
	chunkSummaries := make([]string, 0, len(chunks))
	summarized := false
	for _, chunk := range chunks {
		chunkSummary, ok := o.summarizeOnce(ctx, chunk, minLen, maxLen)
		chunkSummaries = append(chunkSummaries, chunkSummary)
		summarized = summarized || ok
	}

	combined := strings.Join(chunkSummaries, " ")
	if summarize.WordCount(combined) > maxLen {
		compressed, ok := o.summarizeOnce(ctx, combined, minLen, maxLen)
		return compressed, summarized || ok
	}
	return combined, summarized
}

// summarizeOnce runs a single summarizer call with the low-value guard:
// an empty summary or one that parrots its input is replaced by
// truncation. The bool reports whether the model produced the summary,
// as opposed to the truncation fallback.
func (o *Orchestrator) summarizeOnce(ctx context.Context, text string, minLen, maxLen int) (string, bool) {
	summary, err := o.mc.Summarizer.Summarize(ctx, text, minLen, maxLen)
	if err != nil {
		slog.Warn("[Orchestrator] Summarization failed, truncating",
			slog.String("error", err.Error()))
		return summarize.Truncate(text, maxLen), false
	}
	if summary == "" || summary == text {
		return summarize.Truncate(text, maxLen), false
	}
	return summary, true
}

// classify tries the primary classifier and degrades to the fallback on
// a runtime failure.
func (o *Orchestrator) classify(ctx context.Context, cleaned string) (models.RawSentiment, error) {
	raw, err := o.mc.Classifier.Classify(ctx, cleaned)
	if err == nil {
		return raw, nil
	}
	if o.mc.FallbackClassifier == nil || o.mc.FallbackClassifier == o.mc.Classifier {
		return models.RawSentiment{}, err
	}

	slog.Warn("[Orchestrator] Primary classifier failed, using fallback",
		slog.String("error", err.Error()))
	return o.mc.FallbackClassifier.Classify(ctx, cleaned)
}

// extractKeywords tries the primary extractor and falls back to the
// frequency method over the same text. The fallback is lossless: it
// yields a non-empty result whenever the text has a non-stopword token.
func (o *Orchestrator) extractKeywords(ctx context.Context, cleaned string) []models.Keyword {
	topN := o.settings.Thresholds.TopKeywords

	if o.mc.Extractor != nil {
		kws, err := o.mc.Extractor.Extract(ctx, cleaned, topN)
		if err == nil && len(kws) > 0 {
			return kws
		}
		if err != nil {
			slog.Warn("[Orchestrator] Keyword extraction failed, using frequency fallback",
				slog.String("error", err.Error()))
		}
	}

	kws, err := o.mc.FallbackExtractor.Extract(ctx, cleaned, topN)
	if err != nil {
		slog.Warn("[Orchestrator] Frequency keyword extraction failed",
			slog.String("error", err.Error()))
		return nil
	}
	return kws
}
