package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if settings != DefaultSettings() {
		t.Errorf("expected defaults, got %+v", settings)
	}
}

func TestLoadSettingsPartialFileMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	partial := "thresholds:\n  top_keywords: 3\npaths:\n  reports_dir: out\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if settings.Thresholds.TopKeywords != 3 {
		t.Errorf("explicit value lost: got %d", settings.Thresholds.TopKeywords)
	}
	if settings.Paths.ReportsDir != "out" {
		t.Errorf("explicit path lost: got %q", settings.Paths.ReportsDir)
	}

	defaults := DefaultSettings()
	if settings.Thresholds.SentimentPositive != defaults.Thresholds.SentimentPositive {
		t.Errorf("omitted threshold should keep default %v, got %v",
			defaults.Thresholds.SentimentPositive, settings.Thresholds.SentimentPositive)
	}
	if settings.Models.Sentiment != defaults.Models.Sentiment {
		t.Errorf("omitted model should keep default, got %q", settings.Models.Sentiment)
	}
}

func TestLoadSettingsExplicitZeroIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "thresholds:\n  sentiment_negative: 0\n  min_summary_length: 0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if settings.Thresholds.SentimentNegative != 0 {
		t.Errorf("explicit zero cutoff should be kept, got %v", settings.Thresholds.SentimentNegative)
	}
	if settings.Thresholds.MinSummaryLength != 0 {
		t.Errorf("explicit zero length should be kept, got %v", settings.Thresholds.MinSummaryLength)
	}
	if settings.Thresholds.SentimentPositive != DefaultSettings().Thresholds.SentimentPositive {
		t.Errorf("omitted cutoff should keep default, got %v", settings.Thresholds.SentimentPositive)
	}
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("models: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSettings(path); err == nil {
		t.Fatal("malformed yaml should fail")
	}
}
