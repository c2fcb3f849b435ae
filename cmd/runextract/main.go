package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/docgrid/doc-parser/internal/common"
	"github.com/docgrid/doc-parser/internal/config"
	"github.com/docgrid/doc-parser/internal/extract"
	"github.com/docgrid/doc-parser/internal/ner"
	"github.com/docgrid/doc-parser/internal/ocr"
	"github.com/docgrid/doc-parser/internal/pipeline"
)

// runextract processes a single document and prints the structured result
// as JSON on stdout. Useful for trying out a config against one file.
func main() {
	var (
		configPath = flag.String("config", "", "extraction config JSON file")
		preset     = flag.String("preset", "", "built-in config preset")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "runextract [--config file | --preset name] <document>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	doc := config.Default()
	var err error
	switch {
	case *configPath != "":
		doc, err = config.Load(*configPath)
	case *preset != "":
		doc, err = config.Preset(*preset)
	}
	if err != nil {
		logger.Error("loading extraction config failed", "error", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	extractor := ocr.NewExtractor(ocr.FromCommonConfig(cfg.OCR), logger)
	recognizer := ner.New(cfg.NER, logger)
	engine := extract.NewEngine(doc.Extraction, recognizer, logger)
	processor := pipeline.NewProcessor(extractor, engine, logger)

	start := time.Now()
	out, err := processor.ProcessFile(ctx, path)
	if err != nil {
		logger.Error("processing failed",
			"path", path, "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encoding result failed", "error", err)
		os.Exit(1)
	}
}
