package pipeline

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/econsult-tools/econsult/config"
	"github.com/econsult-tools/econsult/internal/keywords"
	"github.com/econsult-tools/econsult/internal/sentiment"
	"github.com/econsult-tools/econsult/internal/summarize"
)

// ModelContext holds the initialized model handles for every role. It is
// built once at startup and injected into the orchestrator; the handles
// are read-only shared resources reused sequentially across comments.
type ModelContext struct {
	Classifier         sentiment.Classifier
	FallbackClassifier sentiment.Classifier
	Summarizer         summarize.Summarizer
	Extractor          keywords.Extractor
	FallbackExtractor  keywords.Extractor

	closers []func()
}

// NewModelContext loads every model named in settings, degrading to the
// local fallback for any role whose primary cannot be loaded. It never
// fails: the fallback set (VADER, LexRank, frequency keywords) covers
// all roles without models or credentials.
func NewModelContext(settings config.Settings) *ModelContext {
	mc := &ModelContext{
		FallbackClassifier: sentiment.NewVADERClassifier(),
		FallbackExtractor:  keywords.NewFrequencyExtractor(),
	}

	modelDir := filepath.Join(settings.Paths.AssetsDir, "models")

	classifier, err := sentiment.NewTransformerClassifier(settings.Models.Sentiment, modelDir)
	if err != nil {
		slog.Warn("[ModelContext] Sentiment model unavailable, using VADER fallback",
			slog.String("model", settings.Models.Sentiment),
			slog.String("error", err.Error()))
		mc.Classifier = mc.FallbackClassifier
	} else {
		mc.Classifier = classifier
		mc.closers = append(mc.closers, classifier.Close)
	}

	summarizer, err := summarize.NewOpenAISummarizer(os.Getenv("OPENAI_API_KEY"), settings.Models.Summarizer)
	if err != nil {
		slog.Warn("[ModelContext] Summarizer unavailable, using extractive fallback",
			slog.String("model", settings.Models.Summarizer),
			slog.String("error", err.Error()))
		mc.Summarizer = summarize.NewLexRankSummarizer()
	} else {
		mc.Summarizer = summarizer
	}

	extractor, err := keywords.NewEmbeddingExtractor(settings.Models.Keywords, modelDir)
	if err != nil {
		slog.Warn("[ModelContext] Keyword model unavailable, using frequency fallback",
			slog.String("model", settings.Models.Keywords),
			slog.String("error", err.Error()))
		mc.Extractor = mc.FallbackExtractor
	} else {
		mc.Extractor = extractor
		mc.closers = append(mc.closers, extractor.Close)
	}

	return mc
}

// Close releases model sessions.
func (mc *ModelContext) Close() {
	for _, closeFn := range mc.closers {
		closeFn()
	}
}
