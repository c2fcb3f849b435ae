// Package export writes processing results to disk: per-document raw text
// and structured JSON, plus a consolidated review workbook for every field
// that fell below the confidence threshold.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/docgrid/doc-parser/constants"
	"github.com/docgrid/doc-parser/internal/pipeline"
)

// Options selects which artifacts SaveResults writes.
type Options struct {
	RawText        bool // <stem>_raw.txt per document
	JSON           bool // <stem>_structured.json per document
	ValidationList bool // validation_list.xlsx across all documents
}

// DefaultOptions writes everything.
func DefaultOptions() Options {
	return Options{RawText: true, JSON: true, ValidationList: true}
}

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// SaveResults writes the selected artifacts for each result into outputDir,
// creating it if needed.
func (s *Service) SaveResults(results []pipeline.StructuredOutput, outputDir string, opts Options) error {
	start := time.Now()
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, res := range results {
		stem := strings.TrimSuffix(res.Filename, filepath.Ext(res.Filename))

		if opts.RawText {
			path := filepath.Join(outputDir, stem+"_raw.txt")
			if err := os.WriteFile(path, []byte(res.RawText), 0o644); err != nil {
				return fmt.Errorf("write raw text %s: %w", path, err)
			}
		}
		if opts.JSON {
			path := filepath.Join(outputDir, stem+"_structured.json")
			data, err := marshalResult(res)
			if err != nil {
				return fmt.Errorf("encode %s: %w", res.Filename, err)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write json %s: %w", path, err)
			}
		}
	}

	if opts.ValidationList {
		rows := 0
		for _, res := range results {
			for _, f := range res.ExtractedFields {
				if f.Confidence < constants.LowConfidenceThreshold {
					rows++
				}
			}
		}
		if rows > 0 {
			buf, err := ValidationListXLSX(results)
			if err != nil {
				return err
			}
			path := filepath.Join(outputDir, "validation_list.xlsx")
			if err := os.WriteFile(path, buf, 0o644); err != nil {
				return fmt.Errorf("write validation list: %w", err)
			}
		}
	}

	s.logger.Info("export.ok",
		"output_dir", outputDir,
		"documents", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// marshalResult renders indented JSON with CJK text left readable.
func marshalResult(res pipeline.StructuredOutput) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ValidationListXLSX returns a workbook listing every extracted field below
// the review threshold, one row per field across all documents.
func ValidationListXLSX(results []pipeline.StructuredOutput) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Validation"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"Filename", "Field Name", "Extracted Value", "Confidence"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, res := range results {
		for _, field := range res.ExtractedFields {
			if field.Confidence >= constants.LowConfidenceThreshold {
				continue
			}
			value := ""
			if field.Value != nil {
				value = *field.Value
			}
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(sheet, cell, v)
			}
			write(1, res.Filename)
			write(2, field.Name)
			write(3, value)
			write(4, field.Confidence)
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 32)
	_ = f.SetColWidth(sheet, "B", "B", 24)
	_ = f.SetColWidth(sheet, "C", "C", 48)
	_ = f.SetColWidth(sheet, "D", "D", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
