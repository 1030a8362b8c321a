package export

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/econsult-tools/econsult/internal/models"
)

// PDFOptions controls the report layout. HeaderImage is optional and
// skipped with a warning when the file is missing.
type PDFOptions struct {
	Title       string
	HeaderImage string
}

const (
	pdfLineHeight  = 5.0
	pdfMarginLeft  = 15.0
	pdfPageBreakAt = 270.0
)

// column widths for ID | Sentiment | Score | Summary on an A4 page.
var pdfColWidths = []float64{20, 28, 18, 114}

var pdfColTitles = []string{"ID", "Sentiment", "Score", "Summary"}

// WritePDF renders results into <dir>/<prefix>_report_<timestamp>.pdf:
// title, generation timestamp, optional header image, a wrapped results
// table and page-numbered footer. An empty result set produces a
// well-formed zero-row report.
func WritePDF(dir, prefix string, results []models.AnalysisResult, opts PDFOptions, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create reports dir: %v", models.ErrExportFailure, err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, 15, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	if opts.HeaderImage != "" {
		if _, err := os.Stat(opts.HeaderImage); err != nil {
			slog.Warn("[Export] Header image missing, skipping",
				slog.String("path", opts.HeaderImage))
		} else {
			pdf.ImageOptions(opts.HeaderImage, pdfMarginLeft, 12, 30, 0, false,
				fpdf.ImageOptions{ReadDpi: true}, 0, "")
			pdf.Ln(18)
		}
	}

	title := opts.Title
	if title == "" {
		title = "Consultation Analysis Report"
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, "Generated: "+now.Format(time.RFC3339), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeTableHeader(pdf)
	for _, result := range results {
		writeTableRow(pdf, result)
	}

	path := ReportFilename(dir, prefix, "pdf", now)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("%w: write pdf: %v", models.ErrExportFailure, err)
	}
	return path, nil
}

func writeTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, colTitle := range pdfColTitles {
		pdf.CellFormat(pdfColWidths[i], 7, colTitle, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

// writeTableRow renders one result with cell wrapping: the row height is
// driven by the tallest wrapped cell, and a page break re-emits the
// table header.
func writeTableRow(pdf *fpdf.Fpdf, result models.AnalysisResult) {
	pdf.SetFont("Arial", "", 8)

	summary := result.Summary
	if result.Failed() {
		summary = "ERROR: " + result.Err
	}
	cells := []string{
		result.ID,
		string(result.SentimentLabel),
		fmt.Sprintf("%.2f", result.SentimentScore),
		summary,
	}

	wrapped := make([][]string, len(cells))
	maxLines := 1
	for i, content := range cells {
		wrapped[i] = pdf.SplitText(content, pdfColWidths[i]-2)
		if len(wrapped[i]) > maxLines {
			maxLines = len(wrapped[i])
		}
	}
	rowHeight := float64(maxLines) * pdfLineHeight

	if pdf.GetY()+rowHeight > pdfPageBreakAt {
		pdf.AddPage()
		writeTableHeader(pdf)
		pdf.SetFont("Arial", "", 8)
	}

	x := pdfMarginLeft
	y := pdf.GetY()
	for i, lines := range wrapped {
		pdf.Rect(x, y, pdfColWidths[i], rowHeight, "D")
		for lineNo, line := range lines {
			pdf.SetXY(x+1, y+float64(lineNo)*pdfLineHeight)
			pdf.CellFormat(pdfColWidths[i]-2, pdfLineHeight, line, "", 0, "L", false, 0, "")
		}
		x += pdfColWidths[i]
	}
	pdf.SetXY(pdfMarginLeft, y+rowHeight)
}
