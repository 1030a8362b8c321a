package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/econsult-tools/econsult/internal/models"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenHistory failed: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistorySaveAndLoadRun(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()

	stored := []models.AnalysisResult{
		{
			Comment:        models.Comment{ID: "1", StakeholderType: "resident"},
			SentimentLabel: models.LabelPositive,
			SentimentScore: 0.82,
			Summary:        "Welcomes the new cycle lanes.",
			Keywords:       []models.Keyword{{Term: "cycle lanes", Score: 0.9}},
		},
		{
			Comment: models.Comment{ID: "2"},
			Err:     "empty input",
		},
	}

	runID, err := h.SaveRun(ctx, "survey.csv", stored)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	loaded, err := h.RunResults(ctx, runID)
	if err != nil {
		t.Fatalf("RunResults failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 results, got %d", len(loaded))
	}
	if loaded[0].ID != "1" || loaded[1].ID != "2" {
		t.Errorf("insertion order lost: %v, %v", loaded[0].ID, loaded[1].ID)
	}
	if loaded[0].SentimentLabel != models.LabelPositive {
		t.Errorf("label not restored, got %q", loaded[0].SentimentLabel)
	}
	if len(loaded[0].Keywords) != 1 || loaded[0].Keywords[0].Term != "cycle lanes" {
		t.Errorf("keywords not restored: %+v", loaded[0].Keywords)
	}
	if !loaded[1].Failed() || loaded[1].Err != "empty input" {
		t.Errorf("failure row not restored: %+v", loaded[1])
	}
}

func TestHistoryListRunsNewestFirst(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()

	first, err := h.SaveRun(ctx, "first.csv", []models.AnalysisResult{
		{Comment: models.Comment{ID: "1"}, SentimentLabel: models.LabelNeutral},
	})
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.SaveRun(ctx, "second.csv", []models.AnalysisResult{
		{Comment: models.Comment{ID: "1"}, SentimentLabel: models.LabelNeutral},
		{Comment: models.Comment{ID: "2"}, Err: "empty input"},
	})
	if err != nil {
		t.Fatal(err)
	}

	runs, err := h.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("runs not newest-first: %+v", runs)
	}
	if runs[0].Source != "second.csv" {
		t.Errorf("source not stored, got %q", runs[0].Source)
	}
	if runs[0].Rows != 2 || runs[0].Failures != 1 {
		t.Errorf("row/failure counts wrong: %+v", runs[0])
	}
	if runs[0].CreatedAt.IsZero() {
		t.Error("created_at should be populated")
	}
}

func TestHistoryUnknownRunIsEmpty(t *testing.T) {
	h := openTestHistory(t)

	results, err := h.RunResults(context.Background(), 999)
	if err != nil {
		t.Fatalf("RunResults failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("unknown run should have no results, got %d", len(results))
	}
}
