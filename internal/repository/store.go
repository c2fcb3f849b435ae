// Package repository persists processing results. Two backends implement the
// same store interface: Postgres (pgx pool, long-running server) and SQLite
// (embedded, batch CLI runs).
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/docgrid/doc-parser/constants"
	"github.com/docgrid/doc-parser/internal/pipeline"
)

// Document is one stored processing job.
type Document struct {
	ID                uuid.UUID
	Filename          string
	SourcePath        string
	Status            constants.JobStatus
	RawText           string
	OverallConfidence float64
	CreatedAt         time.Time
}

// StoredField is one extracted field row belonging to a document.
type StoredField struct {
	DocumentID uuid.UUID
	Name       string
	Value      *string
	Confidence float64
	Position   int
}

// DocumentStore persists results and serves them back for review.
type DocumentStore interface {
	// SaveResult stores the document row and its fields atomically and
	// returns the new document ID.
	SaveResult(ctx context.Context, sourcePath string, out pipeline.StructuredOutput, status constants.JobStatus) (uuid.UUID, error)

	// GetResult returns a document and its fields in extraction order.
	GetResult(ctx context.Context, id uuid.UUID) (*Document, []StoredField, error)

	// ListDocuments returns the most recent documents, newest first.
	ListDocuments(ctx context.Context, limit int) ([]Document, error)

	Close()
}
