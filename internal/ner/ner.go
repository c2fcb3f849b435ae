package ner

import (
	"log/slog"

	"github.com/docgrid/doc-parser/internal/common"
	"github.com/docgrid/doc-parser/internal/extract"
)

// Backend names accepted in NER_BACKEND.
const (
	BackendRules = "rules"
	BackendHTTP  = "http"
	BackendOff   = "off"
)

// New builds the recognizer selected by cfg. A nil return means recognition
// is disabled; the extraction engine treats that as "recognizer unavailable".
func New(cfg common.NERConfig, logger *slog.Logger) extract.EntityRecognizer {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Backend {
	case BackendOff:
		return nil
	case BackendHTTP:
		if cfg.ServiceURL == "" {
			logger.Warn("NER_BACKEND=http but NER_SERVICE_URL is empty, falling back to rules")
			return NewRuleRecognizer(logger)
		}
		return NewServiceClient(cfg.ServiceURL, cfg.Timeout, logger)
	default:
		return NewRuleRecognizer(logger)
	}
}
