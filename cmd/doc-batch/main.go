package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docgrid/doc-parser/constants"
	"github.com/docgrid/doc-parser/internal/batch"
	"github.com/docgrid/doc-parser/internal/common"
	"github.com/docgrid/doc-parser/internal/config"
	"github.com/docgrid/doc-parser/internal/export"
	"github.com/docgrid/doc-parser/internal/extract"
	"github.com/docgrid/doc-parser/internal/ingest"
	"github.com/docgrid/doc-parser/internal/ner"
	"github.com/docgrid/doc-parser/internal/ocr"
	"github.com/docgrid/doc-parser/internal/pipeline"
	"github.com/docgrid/doc-parser/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dir        = flag.String("dir", "", "directory to process documents from (required)")
		out        = flag.String("out", "", "output directory (optional, defaults to <dir>/output)")
		configPath = flag.String("config", "", "extraction config JSON file")
		preset     = flag.String("preset", "", "built-in config preset ("+strings.Join(config.PresetNames(), ", ")+")")
		workers    = flag.Int("workers", 0, "concurrent workers (0 = number of CPUs)")
		dbPath     = flag.String("db", "", "SQLite database to persist results into (optional)")
		extList    = flag.String("ext", "", "comma-separated extensions to include (default: jpg,jpeg,png,pdf)")
	)
	flag.Parse()

	// Validate required flags
	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *configPath != "" && *preset != "" {
		printError("Error: --config and --preset are mutually exclusive\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(*dir, "output")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// Load environment configuration for OCR and NER
	cfg := common.LoadConfig()

	// Resolve extraction configuration
	doc := config.Default()
	var err error
	switch {
	case *configPath != "":
		doc, err = config.Load(*configPath)
	case *preset != "":
		doc, err = config.Preset(*preset)
	}
	if err != nil {
		logger.Error("failed to load extraction config", "error", err)
		os.Exit(1)
	}
	logger.Info("extraction config loaded",
		"document_type", doc.DocumentType, "fields", len(doc.Extraction.Fields))

	var includeExts []string
	if *extList != "" {
		includeExts = strings.Split(*extList, ",")
	}

	// Scan input directory
	paths, stats, err := ingest.ScanDirectory(*dir, includeExts, true)
	if err != nil {
		logger.Error("failed to scan directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("scan complete",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"skipped", stats.Skipped,
		"failed", stats.Failed)
	if len(paths) == 0 {
		fmt.Println("No matching documents found.")
		return
	}

	// Wire the pipeline
	extractor := ocr.NewExtractor(ocr.FromCommonConfig(cfg.OCR), logger)
	recognizer := ner.New(cfg.NER, logger)
	engine := extract.NewEngine(doc.Extraction, recognizer, logger)
	processor := pipeline.NewProcessor(extractor, engine, logger)

	runner := batch.NewRunner(processor, *workers, logger)
	results := runner.Process(ctx, paths)

	// Export artifacts
	exportService := export.NewService(logger)
	if err := exportService.SaveResults(results, *out, export.DefaultOptions()); err != nil {
		logger.Error("failed to export results", "error", err)
		os.Exit(1)
	}

	// Persist to SQLite when requested
	persisted := 0
	if *dbPath != "" {
		store, err := repository.OpenSQLite(*dbPath, logger)
		if err != nil {
			logger.Error("failed to open database", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		for i, res := range results {
			status := constants.JobStatusExtracted
			if res.OverallConfidence == 0 && len(res.ExtractedFields) == 0 {
				status = constants.JobStatusFailed
			}
			if _, err := store.SaveResult(ctx, paths[i], res, status); err != nil {
				logger.Error("failed to persist result", "path", paths[i], "error", err)
				continue
			}
			persisted++
		}
	}

	failures := 0
	for _, res := range results {
		if res.OverallConfidence == 0 && len(res.ExtractedFields) == 0 {
			failures++
		}
	}

	// Log summary
	logger.Info("batch processing complete",
		"files_processed", len(results)-failures,
		"failures", failures,
		"persisted", persisted,
		"output_dir", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files matched: %d\n", len(paths))
	fmt.Printf("- Files processed: %d\n", len(results)-failures)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", *out)
}
