package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/docgrid/doc-parser/constants"
	"github.com/docgrid/doc-parser/internal/common"
	"github.com/docgrid/doc-parser/internal/config"
	"github.com/docgrid/doc-parser/internal/pipeline"
	"github.com/docgrid/doc-parser/internal/validate"
)

type processResponse struct {
	pipeline.StructuredOutput
	DocumentID       string           `json:"document_id,omitempty"`
	ValidationIssues []validate.Issue `json:"validation_issues"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.currentConfig())
}

func (s *Server) handlePutConfig(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading body failed"})
		return
	}
	doc, err := config.Parse(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.swapConfig(doc)
	s.logger.Info("configuration replaced",
		"document_type", doc.DocumentType,
		"fields", len(doc.Extraction.Fields),
		"adaptive", doc.Extraction.EnableAdaptiveFields,
	)
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleProcessFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	resp, status := s.processUpload(c, file)
	c.JSON(status, resp)
}

func (s *Server) handleProcessFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form is required"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'files' is required"})
		return
	}

	// Per-file failures ride along as placeholder results.
	results := make([]processResponse, 0, len(files))
	for _, file := range files {
		resp, _ := s.processUpload(c, file)
		results = append(results, resp)
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) handleExtractText(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	path, cleanup, err := s.spool(c, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer cleanup()

	res, err := s.extractor.Extract(c.Request.Context(), path)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"filename":   file.Filename,
		"text":       res.Text,
		"method":     res.Method,
		"pages":      res.Pages,
		"confidence": res.Confidence,
	})
}

// processUpload spools the upload to disk, runs the pipeline, validates, and
// optionally persists. It never writes to the response itself.
func (s *Server) processUpload(c *gin.Context, file *multipart.FileHeader) (processResponse, int) {
	path, cleanup, err := s.spool(c, file)
	if err != nil {
		return processResponse{
			StructuredOutput: pipeline.ErrorResult(file.Filename, err),
			ValidationIssues: []validate.Issue{},
		}, http.StatusBadRequest
	}
	defer cleanup()

	processor, validator := s.current()
	out, err := processor.ProcessFile(c.Request.Context(), path)
	if err != nil {
		return processResponse{
			StructuredOutput: pipeline.ErrorResult(file.Filename, err),
			ValidationIssues: []validate.Issue{},
		}, statusFor(err)
	}
	out.Filename = file.Filename

	resp := processResponse{
		StructuredOutput: out,
		ValidationIssues: validator.Validate(out),
	}
	if s.store != nil {
		id, err := s.store.SaveResult(c.Request.Context(), file.Filename, out, constants.JobStatusExtracted)
		if err != nil {
			s.logger.Error("persisting result failed", "filename", file.Filename, "error", err)
		} else {
			resp.DocumentID = id.String()
		}
	}
	return resp, http.StatusOK
}

// spool writes the upload to a temp file keeping its extension, so format
// detection by extension keeps working.
func (s *Server) spool(c *gin.Context, file *multipart.FileHeader) (string, func(), error) {
	if s.cfg.MaxUploadBytes > 0 && file.Size > s.cfg.MaxUploadBytes {
		return "", nil, common.NewAppError("UPLOAD_TOO_LARGE", "file exceeds upload limit", common.ErrInvalidInput)
	}
	dir, err := os.MkdirTemp("", "dp-upload-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	name := filepath.Base(file.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	path := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(file, path); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
