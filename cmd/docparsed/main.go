package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/docgrid/doc-parser/internal/common"
	"github.com/docgrid/doc-parser/internal/config"
	"github.com/docgrid/doc-parser/internal/ner"
	"github.com/docgrid/doc-parser/internal/ocr"
	"github.com/docgrid/doc-parser/internal/repository"
	"github.com/docgrid/doc-parser/internal/server"
)

// loadDocumentConfig resolves the startup extraction configuration:
// CONFIG_PATH wins, then CONFIG_PRESET, then the built-in default.
func loadDocumentConfig() (config.DocumentConfig, error) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return config.Load(path)
	}
	if preset := os.Getenv("CONFIG_PRESET"); preset != "" {
		return config.Preset(preset)
	}
	return config.Default(), nil
}

func main() {
	// Logger
	zlog, _ := zap.NewProduction()
	defer zlog.Sync()
	log := zlog.Sugar()

	// Internal packages log through slog.
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(slogger)

	// Env
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	doc, err := loadDocumentConfig()
	if err != nil {
		log.Fatalf("loading extraction config: %v", err)
	}
	log.Infow("extraction config loaded",
		"document_type", doc.DocumentType, "fields", len(doc.Extraction.Fields))

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Persistence is optional: without DB_URL results are not stored.
	var store repository.DocumentStore
	if cfg.Database.DSN != "" {
		pg, err := repository.OpenPostgres(ctx, cfg.Database, slogger)
		if err != nil {
			log.Fatalf("opening database: %v", err)
		}
		defer pg.Close()
		if err := pg.HealthCheck(ctx, cfg.Database.HealthTimeout); err != nil {
			log.Fatalf("DB health failed: %v", err)
		}
		log.Infow("DB health OK")
		store = pg
	} else {
		log.Warnw("DB_URL not set, results will not be persisted")
	}

	extractor := ocr.NewExtractor(ocr.FromCommonConfig(cfg.OCR), slogger)
	recognizer := ner.New(cfg.NER, slogger)

	srv := server.New(cfg.Server, doc, extractor, recognizer, store, slogger)
	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	fmt.Println("stopped.")
}
