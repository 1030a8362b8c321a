package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/econsult-tools/econsult/internal/models"
)

// History persists batch runs locally so past results can be listed and
// re-exported without re-running the models.
type History struct {
	db *sql.DB
}

// RunSummary describes one stored batch run.
type RunSummary struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	Rows      int       `json:"rows"`
	Failures  int       `json:"failures"`
	CreatedAt time.Time `json:"created_at"`
}

// OpenHistory opens (and initializes) the run-history database with WAL
// mode enabled.
func OpenHistory(ctx context.Context, path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &History{db: db}, nil
}

// Close closes the database connection.
func (h *History) Close() error {
	return h.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	comment_id TEXT,
	stakeholder_type TEXT,
	sentiment TEXT,
	score REAL,
	summary TEXT,
	keywords TEXT,
	error TEXT
);

CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun stores a completed batch and returns its run id. The insert
// is transactional: either the whole run is recorded or none of it.
func (h *History) SaveRun(ctx context.Context, source string, results []models.AnalysisResult) (int64, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO runs (source, created_at) VALUES (?, ?)",
		source, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO results (run_id, comment_id, stakeholder_type, sentiment, score, summary, keywords, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, result := range results {
		keywordsJSON, err := json.Marshal(result.Keywords)
		if err != nil {
			return 0, fmt.Errorf("marshal keywords for %s: %w", result.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			runID, result.ID, result.StakeholderType, string(result.SentimentLabel),
			result.SentimentScore, result.Summary, string(keywordsJSON), result.Err,
		); err != nil {
			return 0, fmt.Errorf("insert result %s: %w", result.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// ListRuns returns stored runs, newest first.
func (h *History) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := h.db.QueryContext(ctx, `
SELECT r.id, r.source, r.created_at,
       COUNT(res.id),
       COALESCE(SUM(CASE WHEN res.error != '' THEN 1 ELSE 0 END), 0)
FROM runs r
LEFT JOIN results res ON res.run_id = r.id
GROUP BY r.id
ORDER BY r.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var summary RunSummary
		var createdAt string
		if err := rows.Scan(&summary.ID, &summary.Source, &createdAt, &summary.Rows, &summary.Failures); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			summary.CreatedAt = ts
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// RunResults loads the stored results of one run in insertion order.
func (h *History) RunResults(ctx context.Context, runID int64) ([]models.AnalysisResult, error) {
	rows, err := h.db.QueryContext(ctx, `
SELECT comment_id, stakeholder_type, sentiment, score, summary, keywords, error
FROM results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.AnalysisResult
	for rows.Next() {
		var result models.AnalysisResult
		var sentimentLabel, keywordsJSON string
		if err := rows.Scan(&result.ID, &result.StakeholderType, &sentimentLabel,
			&result.SentimentScore, &result.Summary, &keywordsJSON, &result.Err); err != nil {
			return nil, err
		}
		result.SentimentLabel = models.Label(sentimentLabel)
		if keywordsJSON != "" {
			if err := json.Unmarshal([]byte(keywordsJSON), &result.Keywords); err != nil {
				return nil, fmt.Errorf("decode keywords for %s: %w", result.ID, err)
			}
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
