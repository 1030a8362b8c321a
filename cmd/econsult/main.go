package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/econsult-tools/econsult/config"
	"github.com/econsult-tools/econsult/internal/export"
	"github.com/econsult-tools/econsult/internal/logging"
	"github.com/econsult-tools/econsult/internal/models"
	"github.com/econsult-tools/econsult/internal/pipeline"
	"github.com/econsult-tools/econsult/internal/server"
	"github.com/econsult-tools/econsult/internal/store"
)

const usage = `Usage: econsult <command> [flags]

Commands:
  live    analyze a single comment from -text or stdin
  batch   analyze a CSV/XLSX dataset and export a report
  serve   run the HTTP API for the web UI
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	var err error
	switch os.Args[1] {
	case "live":
		err = runLive(os.Args[2:])
	case "batch":
		err = runBatch(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		slog.Error("[Main] Command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func runLive(args []string) error {
	flags := flag.NewFlagSet("live", flag.ExitOnError)
	settingsPath := flags.String("settings", "configs/settings.yaml", "settings file")
	text := flags.String("text", "", "comment text; reads stdin when empty")
	flags.Parse(args)

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		return err
	}

	comment := models.Comment{ID: "live", Text: *text}
	if comment.Text == "" {
		comment.Text, err = readStdin()
		if err != nil {
			return err
		}
	}

	mc := pipeline.NewModelContext(settings)
	defer mc.Close()
	orchestrator := newOrchestrator(settings, mc)

	result := orchestrator.Analyze(context.Background(), comment)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func runBatch(args []string) error {
	flags := flag.NewFlagSet("batch", flag.ExitOnError)
	settingsPath := flags.String("settings", "configs/settings.yaml", "settings file")
	file := flags.String("file", "", "dataset path (.csv or .xlsx)")
	column := flags.String("column", "", "text column name (auto-detected when empty)")
	title := flags.String("title", "Consultation Analysis Report", "report title")
	pdfOut := flags.Bool("pdf", true, "write the PDF report")
	csvOut := flags.Bool("csv", true, "write the CSV export")
	flags.Parse(args)

	if *file == "" {
		return fmt.Errorf("%w: -file is required", models.ErrInputFormat)
	}

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		return err
	}

	// Dataset problems are fatal for the run and surfaced before any
	// model is loaded or any row processed.
	dataset, err := pipeline.ReadDataset(*file, *column)
	if err != nil {
		return err
	}
	slog.Info("[Batch] Dataset loaded",
		slog.String("file", *file),
		slog.String("text_column", dataset.TextColumn),
		slog.Int("rows", len(dataset.Comments)))

	mc := pipeline.NewModelContext(settings)
	defer mc.Close()
	orchestrator := newOrchestrator(settings, mc)

	ctx := context.Background()
	results := orchestrator.AnalyzeBatch(ctx, dataset.Comments)

	if history := openHistory(ctx, settings); history != nil {
		defer history.Close()
		if runID, err := history.SaveRun(ctx, filepath.Base(*file), results); err != nil {
			slog.Warn("[Batch] Failed to persist run", slog.String("error", err.Error()))
		} else {
			slog.Info("[Batch] Run persisted", slog.Int64("run_id", runID))
		}
	}

	prefix := strings.TrimSuffix(filepath.Base(*file), filepath.Ext(*file))
	now := time.Now()

	if *csvOut {
		path, err := export.WriteCSV(settings.Paths.ReportsDir, prefix, results, now)
		if err != nil {
			return err
		}
		slog.Info("[Batch] CSV written", slog.String("path", path))
	}
	if *pdfOut {
		opts := export.PDFOptions{
			Title:       *title,
			HeaderImage: filepath.Join(settings.Paths.AssetsDir, "logo.png"),
		}
		path, err := export.WritePDF(settings.Paths.ReportsDir, prefix, results, opts, now)
		if err != nil {
			return err
		}
		slog.Info("[Batch] PDF written", slog.String("path", path))
	}

	return nil
}

func runServe(args []string) error {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	settingsPath := flags.String("settings", "configs/settings.yaml", "settings file")
	addr := flags.String("addr", ":8080", "listen address")
	flags.Parse(args)

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mc := pipeline.NewModelContext(settings)
	defer mc.Close()
	orchestrator := newOrchestrator(settings, mc)

	history := openHistory(ctx, settings)
	if history != nil {
		defer history.Close()
	}

	return server.New(orchestrator, history).Run(ctx, *addr)
}

// newOrchestrator wires the optional Valkey cache onto the pipeline.
func newOrchestrator(settings config.Settings, mc *pipeline.ModelContext) *pipeline.Orchestrator {
	orchestrator := pipeline.NewOrchestrator(settings, mc)
	cache, err := store.NewCacheFromEnv()
	if err != nil {
		slog.Warn("[Main] Valkey cache unavailable, continuing without it",
			slog.String("error", err.Error()))
		return orchestrator
	}
	if cache != nil {
		orchestrator.WithCache(cache)
	}
	return orchestrator
}

// openHistory opens the local run-history database under the data dir;
// failures disable history rather than aborting the run.
func openHistory(ctx context.Context, settings config.Settings) *store.History {
	if err := os.MkdirAll(settings.Paths.DataDir, 0o755); err != nil {
		slog.Warn("[Main] Cannot create data dir, run history disabled",
			slog.String("error", err.Error()))
		return nil
	}
	history, err := store.OpenHistory(ctx, filepath.Join(settings.Paths.DataDir, "econsult.db"))
	if err != nil {
		slog.Warn("[Main] Cannot open run history, continuing without it",
			slog.String("error", err.Error()))
		return nil
	}
	return history
}

func readStdin() (string, error) {
	info, err := os.Stdin.Stat()
	if err != nil {
		return "", err
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return "", fmt.Errorf("%w: no -text flag and no piped input", models.ErrEmptyInput)
	}

	var builder strings.Builder
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		builder.WriteString(scanner.Text())
		builder.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return builder.String(), nil
}
