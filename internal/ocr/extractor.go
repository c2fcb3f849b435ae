// Package ocr turns document files into plain text. PDFs are read through
// their text layer when one exists and rasterized for OCR otherwise; images
// go straight to tesseract. All external tools run through a Runner so tests
// can stub them.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/docgrid/doc-parser/constants"
	"github.com/docgrid/doc-parser/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "chi_sim+eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir string
}

// Result is the outcome of text recognition for one file.
// Confidence is on the 0-100 scale.
type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE | constants.TXT
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr" | "plain-text"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float64
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// FromCommonConfig maps the env-var OCR settings onto an extractor Config.
func FromCommonConfig(c common.OCRConfig) Config {
	return Config{
		Pdftotext:     c.Pdftotext,
		Pdftoppm:      c.Pdftoppm,
		Tesseract:     c.Tesseract,
		TesseractLang: c.TesseractLang,
		DPI:           c.DPI,
		MaxPages:      c.MaxPages,
		TessdataDir:   c.TessdataDir,
	}
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "chi_sim+eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting text extraction", "path", path, "ext", ext)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err := e.extractPDF(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	case constants.IMAGE:
		res, err := e.extractImage(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	case constants.TXT:
		res, err := e.extractPlainText(path)
		res.Duration = time.Since(start)
		return res, err
	default:
		e.logger.Error("unsupported extension", "extension", ext)
		return Result{}, common.NewAppError("OCR_UNSUPPORTED",
			fmt.Sprintf("unsupported extension %q", ext), common.ErrUnsupported)
	}
}

func (e *Extractor) extractPlainText(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{SourceType: constants.TXT}, err
	}
	return Result{
		Text:       Normalize(string(data)),
		Pages:      1,
		SourceType: constants.TXT,
		Method:     "plain-text",
		Confidence: 100,
	}, nil
}
