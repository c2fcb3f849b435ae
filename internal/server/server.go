// Package server exposes the processing pipeline over HTTP. The extraction
// configuration is hot-swappable: PUT /config replaces the engine wholesale,
// in-flight requests keep the engine they started with.
package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/docgrid/doc-parser/internal/common"
	"github.com/docgrid/doc-parser/internal/config"
	"github.com/docgrid/doc-parser/internal/extract"
	"github.com/docgrid/doc-parser/internal/pipeline"
	"github.com/docgrid/doc-parser/internal/repository"
	"github.com/docgrid/doc-parser/internal/validate"
)

type Server struct {
	cfg        common.ServerConfig
	extractor  pipeline.TextExtractor
	recognizer extract.EntityRecognizer
	store      repository.DocumentStore // nil disables persistence
	logger     *slog.Logger

	mu        sync.RWMutex
	doc       config.DocumentConfig
	processor *pipeline.Processor
	validator *validate.Validator
}

func New(cfg common.ServerConfig, doc config.DocumentConfig, extractor pipeline.TextExtractor,
	recognizer extract.EntityRecognizer, store repository.DocumentStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:        cfg,
		extractor:  extractor,
		recognizer: recognizer,
		store:      store,
		logger:     logger,
	}
	s.swapConfig(doc)
	return s
}

// swapConfig installs a new configuration document and rebuilds the engine.
func (s *Server) swapConfig(doc config.DocumentConfig) {
	engine := extract.NewEngine(doc.Extraction, s.recognizer, s.logger)
	processor := pipeline.NewProcessor(s.extractor, engine, s.logger)
	validator := validate.New(doc.Validation)

	s.mu.Lock()
	s.doc = doc
	s.processor = processor
	s.validator = validator
	s.mu.Unlock()
}

func (s *Server) current() (*pipeline.Processor, *validate.Validator) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processor, s.validator
}

func (s *Server) currentConfig() config.DocumentConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog(), s.rateLimit())
	r.MaxMultipartMemory = s.cfg.MaxUploadBytes

	r.GET("/health", s.handleHealth)
	r.GET("/config", s.handleGetConfig)
	r.PUT("/config", s.handlePutConfig)
	r.POST("/process/file", s.handleProcessFile)
	r.POST("/process/files", s.handleProcessFiles)
	r.POST("/extract/text", s.handleExtractText)
	return r
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) rateLimit() gin.HandlerFunc {
	rps := s.cfg.RequestsPerSec
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	burst := s.cfg.RequestBurst
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
