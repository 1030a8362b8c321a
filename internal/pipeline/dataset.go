package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/econsult-tools/econsult/internal/models"
)

// textColumnCandidates are tried in order when no text column is named
// explicitly.
var textColumnCandidates = []string{"comment", "text", "feedback", "review", "message", "content"}

// Dataset is a parsed tabular input: the comments to analyze plus the
// header it was read with, for passthrough on export.
type Dataset struct {
	Comments   []models.Comment
	TextColumn string
}

// ReadDataset loads a CSV or XLSX file into comments. textColumn may be
// empty, in which case the text-bearing column is auto-detected by name
// and then by content. All errors here are run-fatal input format
// errors, surfaced before any processing begins.
func ReadDataset(path, textColumn string) (*Dataset, error) {
	var rows [][]string
	var err error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx", ".xls":
		rows, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: unsupported file extension %q", models.ErrInputFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: dataset has no header row", models.ErrInputFormat)
	}

	header := rows[0]
	records := rows[1:]

	textIdx, err := detectTextColumn(header, records, textColumn)
	if err != nil {
		return nil, err
	}
	idIdx := findColumn(header, "id")
	stakeholderIdx := findColumn(header, "stakeholder_type")

	comments := make([]models.Comment, 0, len(records))
	for i, record := range records {
		comment := models.Comment{Text: cell(record, textIdx)}
		if idIdx >= 0 {
			comment.ID = cell(record, idIdx)
		}
		if comment.ID == "" {
			comment.ID = strconv.Itoa(i + 1)
		}
		if stakeholderIdx >= 0 {
			comment.StakeholderType = cell(record, stakeholderIdx)
		}
		comments = append(comments, comment)
	}

	return &Dataset{
		Comments:   comments,
		TextColumn: header[textIdx],
	}, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", models.ErrInputFormat, path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", models.ErrInputFormat, path, err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", models.ErrInputFormat, path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", models.ErrInputFormat, sheet, err)
	}
	return rows, nil
}

// detectTextColumn resolves the text-bearing column: the explicit name
// when given, then well-known column names, then the first column whose
// values look like prose rather than numbers.
func detectTextColumn(header []string, records [][]string, preferred string) (int, error) {
	if preferred != "" {
		if idx := findColumn(header, preferred); idx >= 0 {
			return idx, nil
		}
		return -1, fmt.Errorf("%w: column %q not found", models.ErrInputFormat, preferred)
	}

	for _, candidate := range textColumnCandidates {
		if idx := findColumn(header, candidate); idx >= 0 {
			return idx, nil
		}
	}

	for idx := range header {
		if isStringColumn(records, idx) {
			return idx, nil
		}
	}

	return -1, fmt.Errorf("%w: no text column found; specify one explicitly", models.ErrInputFormat)
}

func findColumn(header []string, name string) int {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i
		}
	}
	return -1
}

// isStringColumn reports whether the column has at least one non-empty
// value and none of its values parse as numbers.
func isStringColumn(records [][]string, idx int) bool {
	nonEmpty := false
	for _, record := range records {
		value := strings.TrimSpace(cell(record, idx))
		if value == "" {
			continue
		}
		nonEmpty = true
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			return false
		}
	}
	return nonEmpty
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
