// Package pipeline chains text recognition and field extraction into the
// structured result consumers see: one StructuredOutput per input file.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/docgrid/doc-parser/constants"
	"github.com/docgrid/doc-parser/internal/extract"
	"github.com/docgrid/doc-parser/internal/ocr"
)

// TextExtractor recognizes text in a document file.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.Result, error)
}

// StructuredOutput is the per-file processing result.
type StructuredOutput struct {
	Filename            string                   `json:"filename"`
	RawText             string                   `json:"raw_text"`
	ExtractedFields     []extract.ExtractedField `json:"extracted_fields"`
	LowConfidenceFields []string                 `json:"low_confidence_fields"`
	OverallConfidence   float64                  `json:"overall_confidence"`
}

// Processor runs the recognize-then-extract pipeline.
type Processor struct {
	extractor TextExtractor
	engine    *extract.Engine
	logger    *slog.Logger
}

func NewProcessor(extractor TextExtractor, engine *extract.Engine, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{extractor: extractor, engine: engine, logger: logger}
}

// Engine exposes the extraction engine currently in use.
func (p *Processor) Engine() *extract.Engine { return p.engine }

// ProcessFile recognizes and extracts one file. Fields below the review
// threshold are listed by name in LowConfidenceFields; OverallConfidence is
// the recognizer's confidence for the whole document.
func (p *Processor) ProcessFile(ctx context.Context, path string) (StructuredOutput, error) {
	res, err := p.extractor.Extract(ctx, path)
	if err != nil {
		p.logger.Error("text extraction failed", "path", path, "error", err)
		return StructuredOutput{Filename: filepath.Base(path)}, err
	}
	p.logger.Debug("text extracted",
		"path", path, "method", res.Method, "pages", res.Pages, "confidence", res.Confidence)

	fields := p.engine.Extract(res.Text, extract.OCRMeta{Confidence: res.Confidence})

	low := make([]string, 0)
	for _, f := range fields {
		if f.Confidence < constants.LowConfidenceThreshold {
			low = append(low, f.Name)
		}
	}

	return StructuredOutput{
		Filename:            filepath.Base(path),
		RawText:             res.Text,
		ExtractedFields:     fields,
		LowConfidenceFields: low,
		OverallConfidence:   res.Confidence,
	}, nil
}

// ProcessFiles processes files sequentially. A failed file yields a
// placeholder result carrying the error text instead of aborting the rest.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string) []StructuredOutput {
	results := make([]StructuredOutput, 0, len(paths))
	for _, path := range paths {
		out, err := p.ProcessFile(ctx, path)
		if err != nil {
			out = ErrorResult(path, err)
		}
		results = append(results, out)
	}
	return results
}

// ErrorResult is the placeholder output for a file that failed processing.
func ErrorResult(path string, err error) StructuredOutput {
	return StructuredOutput{
		Filename:            filepath.Base(path),
		RawText:             fmt.Sprintf("Processing failed: %v", err),
		ExtractedFields:     []extract.ExtractedField{},
		LowConfidenceFields: []string{},
		OverallConfidence:   0,
	}
}
