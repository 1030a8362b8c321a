package keywords

import (
	"context"
	"strings"
	"testing"
)

func TestFrequencyExtractorEmptyInput(t *testing.T) {
	extractor := NewFrequencyExtractor()

	// Stopword-only input has no candidates either.
	for _, input := range []string{"", "   ", "the and of"} {
		kws, err := extractor.Extract(context.Background(), input, 10)
		if err != nil {
			t.Errorf("Extract(%q) returned error: %v", input, err)
		}
		if len(kws) != 0 {
			t.Errorf("Extract(%q) should be empty, got %v", input, kws)
		}
	}
}

func TestFrequencyExtractorNonEmptyWhenContentExists(t *testing.T) {
	extractor := NewFrequencyExtractor()

	kws, err := extractor.Extract(context.Background(), "the hospital needs funding", 5)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(kws) == 0 {
		t.Fatal("input with non-stopword tokens must yield keywords")
	}
}

func TestFrequencyExtractorRanking(t *testing.T) {
	extractor := NewFrequencyExtractor()
	text := "parking parking parking transport transport school"

	kws, err := extractor.Extract(context.Background(), text, 3)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(kws) != 3 {
		t.Fatalf("expected 3 keywords, got %d", len(kws))
	}
	if kws[0].Term != "parking" {
		t.Errorf("most frequent term should rank first, got %q", kws[0].Term)
	}
	if kws[0].Score != 1.0 {
		t.Errorf("top score should be normalized to 1.0, got %v", kws[0].Score)
	}
	if kws[1].Term != "transport" || kws[2].Term != "school" {
		t.Errorf("ranking order wrong: %v", kws)
	}
}

func TestFrequencyExtractorTopNLimit(t *testing.T) {
	extractor := NewFrequencyExtractor()
	text := "alpha beta gamma delta epsilon zeta"

	kws, err := extractor.Extract(context.Background(), text, 2)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(kws) != 2 {
		t.Errorf("expected topN=2 keywords, got %d", len(kws))
	}
}

func TestTokenizeFiltersStopwordsAndNumbers(t *testing.T) {
	tokens := Tokenize("The 2024 budget for phase-2 is about transport")

	for _, token := range tokens {
		if IsStopword(token) {
			t.Errorf("stopword %q should be filtered", token)
		}
		if token == "2024" {
			t.Error("pure-numeric tokens should be filtered")
		}
		if token != strings.ToLower(token) {
			t.Errorf("token %q should be lowercased", token)
		}
	}

	found := false
	for _, token := range tokens {
		if token == "phase-2" {
			found = true
		}
	}
	if !found {
		t.Errorf("mixed hyphenated token should be kept, got %v", tokens)
	}
}
