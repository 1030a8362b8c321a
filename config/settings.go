package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the process-wide configuration, loaded once at startup and
// read-only afterwards.
type Settings struct {
	Models     ModelSettings     `yaml:"models"`
	Thresholds ThresholdSettings `yaml:"thresholds"`
	Paths      PathSettings      `yaml:"paths"`
}

// ModelSettings names the pretrained models per role.
type ModelSettings struct {
	Sentiment  string `yaml:"sentiment"`
	Summarizer string `yaml:"summarizer"`
	Keywords   string `yaml:"keywords"`
}

// ThresholdSettings holds the confidence cutoffs and length bounds used
// by the pipeline.
type ThresholdSettings struct {
	SentimentPositive float64 `yaml:"sentiment_positive"`
	SentimentNegative float64 `yaml:"sentiment_negative"`
	MinSummaryLength  int     `yaml:"min_summary_length"`
	MaxSummaryLength  int     `yaml:"max_summary_length"`
	TopKeywords       int     `yaml:"top_keywords"`
}

// PathSettings holds filesystem locations for assets and outputs.
type PathSettings struct {
	AssetsDir  string `yaml:"assets_dir"`
	ReportsDir string `yaml:"reports_dir"`
	DataDir    string `yaml:"data_dir"`
}

// DefaultSettings mirrors the shipped configs/settings.yaml.
func DefaultSettings() Settings {
	return Settings{
		Models: ModelSettings{
			Sentiment:  "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english",
			Summarizer: "gpt-4o-mini",
			Keywords:   "KnightsAnalytics/all-MiniLM-L6-v2",
		},
		Thresholds: ThresholdSettings{
			SentimentPositive: 0.6,
			SentimentNegative: 0.4,
			MinSummaryLength:  25,
			MaxSummaryLength:  100,
			TopKeywords:       10,
		},
		Paths: PathSettings{
			AssetsDir:  "assets",
			ReportsDir: "reports",
			DataDir:    "data/processed",
		},
	}
}

// LoadSettings reads settings from a YAML file, filling any omitted
// section or zero field from the defaults. A missing file falls back to
// the defaults with a warning rather than failing startup.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("[Config] Settings file not found, using defaults",
				slog.String("path", path))
			return settings, nil
		}
		return settings, fmt.Errorf("read settings: %w", err)
	}

	var loaded settingsFile
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return settings, fmt.Errorf("parse settings: %w", err)
	}

	mergeSettings(&settings, loaded)
	return settings, nil
}

// settingsFile mirrors Settings with pointer fields so an explicit
// zero (e.g. a 0 cutoff) is distinguishable from an omitted key.
type settingsFile struct {
	Models struct {
		Sentiment  *string `yaml:"sentiment"`
		Summarizer *string `yaml:"summarizer"`
		Keywords   *string `yaml:"keywords"`
	} `yaml:"models"`
	Thresholds struct {
		SentimentPositive *float64 `yaml:"sentiment_positive"`
		SentimentNegative *float64 `yaml:"sentiment_negative"`
		MinSummaryLength  *int     `yaml:"min_summary_length"`
		MaxSummaryLength  *int     `yaml:"max_summary_length"`
		TopKeywords       *int     `yaml:"top_keywords"`
	} `yaml:"thresholds"`
	Paths struct {
		AssetsDir  *string `yaml:"assets_dir"`
		ReportsDir *string `yaml:"reports_dir"`
		DataDir    *string `yaml:"data_dir"`
	} `yaml:"paths"`
}

// mergeSettings overlays every key present in the file onto the
// defaults so a partial settings file stays valid.
func mergeSettings(dst *Settings, src settingsFile) {
	if src.Models.Sentiment != nil {
		dst.Models.Sentiment = *src.Models.Sentiment
	}
	if src.Models.Summarizer != nil {
		dst.Models.Summarizer = *src.Models.Summarizer
	}
	if src.Models.Keywords != nil {
		dst.Models.Keywords = *src.Models.Keywords
	}
	if src.Thresholds.SentimentPositive != nil {
		dst.Thresholds.SentimentPositive = *src.Thresholds.SentimentPositive
	}
	if src.Thresholds.SentimentNegative != nil {
		dst.Thresholds.SentimentNegative = *src.Thresholds.SentimentNegative
	}
	if src.Thresholds.MinSummaryLength != nil {
		dst.Thresholds.MinSummaryLength = *src.Thresholds.MinSummaryLength
	}
	if src.Thresholds.MaxSummaryLength != nil {
		dst.Thresholds.MaxSummaryLength = *src.Thresholds.MaxSummaryLength
	}
	if src.Thresholds.TopKeywords != nil {
		dst.Thresholds.TopKeywords = *src.Thresholds.TopKeywords
	}
	if src.Paths.AssetsDir != nil {
		dst.Paths.AssetsDir = *src.Paths.AssetsDir
	}
	if src.Paths.ReportsDir != nil {
		dst.Paths.ReportsDir = *src.Paths.ReportsDir
	}
	if src.Paths.DataDir != nil {
		dst.Paths.DataDir = *src.Paths.DataDir
	}
}
