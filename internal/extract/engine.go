package extract

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// adaptiveMinTextLen gates the adaptive pass: below this many trimmed runes,
// mining is too unreliable to run at all.
const adaptiveMinTextLen = 50

// Engine resolves declared field rules against document text and, when
// enabled, supplements them with adaptively discovered fields. An Engine is
// immutable after construction and safe to share across goroutines provided
// the recognizer backend's query path is reentrant.
type Engine struct {
	cfg      ExtractionConfig
	resolver *resolver
	disc     *discoverer
	logger   *slog.Logger
}

// NewEngine builds an engine for one configuration. rec may be nil: the
// entity-fallback strategy and the key-concept pass then become permanent
// no-ops, decided here rather than per call.
func NewEngine(cfg ExtractionConfig, rec EntityRecognizer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	adapter := newEntityAdapter(rec)
	return &Engine{
		cfg:      cfg,
		resolver: &resolver{entities: adapter, logger: logger},
		disc:     &discoverer{entities: adapter, logger: logger},
		logger:   logger,
	}
}

// Config returns the engine's extraction configuration.
func (e *Engine) Config() ExtractionConfig { return e.cfg }

// RecognizerAvailable reports whether the entity fallback is live.
func (e *Engine) RecognizerAvailable() bool { return e.resolver.entities.available }

// Extract runs every declared rule in declaration order, producing exactly
// one field per rule, then appends adaptive fields when enabled and the
// trimmed text is long enough. The OCR side channel is advisory only; the
// engine threads it through without consulting per-token confidence.
func (e *Engine) Extract(text string, meta OCRMeta) []ExtractedField {
	_ = meta

	out := make([]ExtractedField, 0, len(e.cfg.Fields))
	for _, rule := range e.cfg.Fields {
		out = append(out, e.resolver.resolve(rule, text))
	}

	if e.cfg.EnableAdaptiveFields &&
		utf8.RuneCountInString(strings.TrimSpace(text)) >= adaptiveMinTextLen {
		adaptive := e.disc.discover(text)
		if len(adaptive) > 0 {
			e.logger.Debug("adaptive fields discovered", "count", len(adaptive))
		}
		out = append(out, adaptive...)
	}
	return out
}
