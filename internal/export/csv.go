package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/econsult-tools/econsult/internal/models"
)

// csvHeader mirrors the report table columns plus the passthrough and
// diagnostic fields.
var csvHeader = []string{"id", "stakeholder_type", "sentiment", "score", "summary", "keywords", "error"}

// WriteCSV exports results to <dir>/<prefix>_report_<timestamp>.csv and
// returns the path. An empty result set still produces a well-formed
// header-only file.
func WriteCSV(dir, prefix string, results []models.AnalysisResult, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create reports dir: %v", models.ErrExportFailure, err)
	}

	path := ReportFilename(dir, prefix, "csv", now)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %v", models.ErrExportFailure, filepath.Base(path), err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		return "", fmt.Errorf("%w: write header: %v", models.ErrExportFailure, err)
	}

	for _, result := range results {
		record := []string{
			result.ID,
			result.StakeholderType,
			string(result.SentimentLabel),
			strconv.FormatFloat(result.SentimentScore, 'f', 4, 64),
			result.Summary,
			joinKeywords(result.Keywords),
			result.Err,
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("%w: write row %s: %v", models.ErrExportFailure, result.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("%w: flush: %v", models.ErrExportFailure, err)
	}
	return path, nil
}

func joinKeywords(kws []models.Keyword) string {
	terms := make([]string, len(kws))
	for i, kw := range kws {
		terms[i] = kw.Term
	}
	return strings.Join(terms, "; ")
}
