package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/econsult-tools/econsult/config"
	"github.com/econsult-tools/econsult/internal/keywords"
	"github.com/econsult-tools/econsult/internal/models"
	"github.com/econsult-tools/econsult/internal/summarize"
)

type stubClassifier struct {
	failOn string
	calls  int
}

func (s *stubClassifier) Classify(_ context.Context, text string) (models.RawSentiment, error) {
	s.calls++
	if s.failOn != "" && strings.Contains(text, s.failOn) {
		return models.RawSentiment{}, models.ErrModelUnavailable
	}
	return models.RawSentiment{Label: "POSITIVE", Score: 0.9}, nil
}

type stubSummarizer struct {
	safeLen int
	calls   int
}

func (s *stubSummarizer) Summarize(_ context.Context, text string, _, _ int) (string, error) {
	s.calls++
	words := strings.Fields(text)
	if len(words) > 3 {
		words = words[:3]
	}
	return "summary: " + strings.Join(words, " "), nil
}

func (s *stubSummarizer) SafeInputLen() int {
	if s.safeLen > 0 {
		return s.safeLen
	}
	return 6000
}

func testSettings() config.Settings {
	settings := config.DefaultSettings()
	settings.Thresholds.SentimentPositive = 0.6
	settings.Thresholds.SentimentNegative = 0.4
	settings.Thresholds.TopKeywords = 5
	return settings
}

func testModelContext(classifier *stubClassifier, summarizer *stubSummarizer) *ModelContext {
	return &ModelContext{
		Classifier:        classifier,
		Summarizer:        summarizer,
		FallbackExtractor: keywords.NewFrequencyExtractor(),
	}
}

func TestAnalyzeAssemblesResult(t *testing.T) {
	classifier := &stubClassifier{}
	summarizer := &stubSummarizer{}
	o := NewOrchestrator(testSettings(), testModelContext(classifier, summarizer))

	comment := models.Comment{ID: "c1", Text: "The new hospital wing is a fantastic improvement for patients."}
	result := o.Analyze(context.Background(), comment)

	if result.Failed() {
		t.Fatalf("unexpected failure: %s", result.Err)
	}
	if result.CleanedText == "" {
		t.Error("cleaned text should be set")
	}
	if result.SentimentLabel != models.LabelPositive {
		t.Errorf("expected Positive label, got %v", result.SentimentLabel)
	}
	if result.Summary == "" {
		t.Error("summary should be set")
	}
	if !result.WasSummarized {
		t.Error("model-produced summary should set WasSummarized")
	}
	if len(result.Keywords) == 0 {
		t.Error("keywords should be extracted via the frequency fallback")
	}
	if result.ID != "c1" {
		t.Errorf("comment identity should be preserved, got %q", result.ID)
	}
}

func TestAnalyzeEmptyComment(t *testing.T) {
	o := NewOrchestrator(testSettings(), testModelContext(&stubClassifier{}, &stubSummarizer{}))

	result := o.Analyze(context.Background(), models.Comment{ID: "e1", Text: "   \n "})
	if !result.Failed() {
		t.Fatal("blank comment should produce a failed result")
	}
	if !strings.Contains(result.Err, models.ErrEmptyInput.Error()) {
		t.Errorf("error should indicate empty input, got %q", result.Err)
	}
}

func TestAnalyzeBatchPreservesOrderUnderFailure(t *testing.T) {
	classifier := &stubClassifier{failOn: "unparseable"}
	o := NewOrchestrator(testSettings(), testModelContext(classifier, &stubSummarizer{}))

	comments := []models.Comment{
		{ID: "a", Text: "Strongly support the cycle lane proposal."},
		{ID: "b", Text: "This comment is unparseable for the model."},
		{ID: "c", Text: ""},
		{ID: "d", Text: "The library extension would help local students."},
	}

	results := o.AnalyzeBatch(context.Background(), comments)

	if len(results) != len(comments) {
		t.Fatalf("output length %d != input length %d", len(results), len(comments))
	}
	for i, result := range results {
		if result.ID != comments[i].ID {
			t.Errorf("row %d reordered: want id %q, got %q", i, comments[i].ID, result.ID)
		}
	}
	if !results[1].Failed() {
		t.Error("classifier failure should mark row b as failed")
	}
	if !results[2].Failed() {
		t.Error("empty row c should be marked failed")
	}
	if results[0].Failed() || results[3].Failed() {
		t.Error("rows before and after a failure must be unaffected")
	}
}

func TestAnalyzeFallsBackToSecondaryClassifier(t *testing.T) {
	primary := &stubClassifier{failOn: "anything"}
	fallback := &stubClassifier{}
	mc := testModelContext(primary, &stubSummarizer{})
	mc.FallbackClassifier = fallback
	o := NewOrchestrator(testSettings(), mc)

	result := o.Analyze(context.Background(), models.Comment{ID: "f1", Text: "anything goes here today"})
	if result.Failed() {
		t.Fatalf("fallback classifier should have rescued the row: %s", result.Err)
	}
	if fallback.calls == 0 {
		t.Error("fallback classifier was never invoked")
	}
}

func TestHierarchicalSummarization(t *testing.T) {
	summarizer := &stubSummarizer{safeLen: 80}
	o := NewOrchestrator(testSettings(), testModelContext(&stubClassifier{}, summarizer))

	long := strings.TrimSpace(strings.Repeat("Residents want safer crossings near the school. ", 20))
	result := o.Analyze(context.Background(), models.Comment{ID: "h1", Text: long})

	if result.Failed() {
		t.Fatalf("unexpected failure: %s", result.Err)
	}
	// One call per chunk; possibly one more to compress the combined
	// chunk summaries.
	if summarizer.calls < 2 {
		t.Errorf("long input should be summarized per chunk, got %d calls", summarizer.calls)
	}
	if result.Summary == "" {
		t.Error("hierarchical summary should be non-empty")
	}
}

// parrotSummarizer returns its input unchanged, triggering the
// low-value summary guard.
type parrotSummarizer struct{}

func (parrotSummarizer) Summarize(_ context.Context, text string, _, _ int) (string, error) {
	return text, nil
}

func (parrotSummarizer) SafeInputLen() int { return 6000 }

type failingSummarizer struct{}

func (failingSummarizer) Summarize(context.Context, string, int, int) (string, error) {
	return "", errors.New("summarizer offline")
}

func (failingSummarizer) SafeInputLen() int { return 6000 }

func TestAnalyzeParrotedSummaryIsTruncated(t *testing.T) {
	settings := testSettings()
	settings.Thresholds.MaxSummaryLength = 5
	mc := &ModelContext{
		Classifier:        &stubClassifier{},
		Summarizer:        parrotSummarizer{},
		FallbackExtractor: keywords.NewFrequencyExtractor(),
	}
	o := NewOrchestrator(settings, mc)

	comment := models.Comment{ID: "p1", Text: "The proposed bypass would cut traffic through the village considerably."}
	result := o.Analyze(context.Background(), comment)

	if result.Failed() {
		t.Fatalf("unexpected failure: %s", result.Err)
	}
	want := summarize.Truncate(result.CleanedText, 5)
	if result.Summary != want {
		t.Errorf("parroted summary should degrade to truncation: got %q, want %q", result.Summary, want)
	}
	if result.WasSummarized {
		t.Error("truncation fallback must not report WasSummarized")
	}
}

func TestAnalyzeSummarizerFailureDegradesToTruncation(t *testing.T) {
	settings := testSettings()
	settings.Thresholds.MaxSummaryLength = 5
	mc := &ModelContext{
		Classifier:        &stubClassifier{},
		Summarizer:        failingSummarizer{},
		FallbackExtractor: keywords.NewFrequencyExtractor(),
	}
	o := NewOrchestrator(settings, mc)

	comment := models.Comment{ID: "f2", Text: "Street lighting on the estate has been broken for months and needs repair."}
	result := o.Analyze(context.Background(), comment)

	if result.Failed() {
		t.Fatalf("summarizer failure must not fail the row: %s", result.Err)
	}
	if result.Summary == "" {
		t.Fatal("failed summarization should still yield a truncated summary")
	}
	if want := summarize.Truncate(result.CleanedText, 5); result.Summary != want {
		t.Errorf("summary should be the truncation of the cleaned text: got %q, want %q", result.Summary, want)
	}
	if result.WasSummarized {
		t.Error("truncation fallback must not report WasSummarized")
	}
}

type stubCache struct {
	entries map[string]models.AnalysisResult
	puts    int
}

func (c *stubCache) Get(_ context.Context, text string) (models.AnalysisResult, bool) {
	result, ok := c.entries[text]
	return result, ok
}

func (c *stubCache) Put(_ context.Context, result models.AnalysisResult) {
	c.puts++
	c.entries[result.CleanedText] = result
}

func TestAnalyzeUsesCache(t *testing.T) {
	classifier := &stubClassifier{}
	cache := &stubCache{entries: map[string]models.AnalysisResult{}}
	o := NewOrchestrator(testSettings(), testModelContext(classifier, &stubSummarizer{})).WithCache(cache)

	comment := models.Comment{ID: "k1", Text: "Support the park upgrade."}
	first := o.Analyze(context.Background(), comment)
	if first.Failed() {
		t.Fatalf("unexpected failure: %s", first.Err)
	}
	if cache.puts != 1 {
		t.Fatalf("expected one cache write, got %d", cache.puts)
	}

	callsBefore := classifier.calls
	second := o.Analyze(context.Background(), models.Comment{ID: "k2", Text: "Support the park upgrade."})
	if classifier.calls != callsBefore {
		t.Error("cache hit should not re-run the classifier")
	}
	if second.ID != "k2" {
		t.Errorf("cache hit must keep the caller's comment identity, got %q", second.ID)
	}
	if second.SentimentLabel != first.SentimentLabel {
		t.Error("cached result should carry the original analysis")
	}
}
