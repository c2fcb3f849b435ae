package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/docgrid/doc-parser/constants"
	"github.com/docgrid/doc-parser/internal/common"
	"github.com/docgrid/doc-parser/internal/pipeline"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
    id                 TEXT PRIMARY KEY,
    filename           TEXT NOT NULL,
    source_path        TEXT NOT NULL,
    status             TEXT NOT NULL,
    raw_text           TEXT NOT NULL DEFAULT '',
    overall_confidence REAL NOT NULL DEFAULT 0,
    created_at         TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS document_fields (
    document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    position    INTEGER NOT NULL,
    name        TEXT NOT NULL,
    value       TEXT,
    confidence  REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (document_id, position)
);
`

// SQLiteStore persists results in an embedded SQLite database. It backs the
// batch CLI, which should not require a running Postgres.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (creating if absent) the database at path. Use ":memory:"
// for an ephemeral store.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.NewAppError("DB_OPEN", "opening sqlite database failed", err)
	}
	// modernc sqlite serializes writes; one connection avoids lock errors.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, common.NewAppError("DB_OPEN", "sqlite schema setup failed", err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("closing sqlite failed", "error", err)
	}
}

func (s *SQLiteStore) SaveResult(ctx context.Context, sourcePath string, out pipeline.StructuredOutput, status constants.JobStatus) (uuid.UUID, error) {
	id := uuid.New()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, common.NewAppError("DB_SAVE", "begin failed", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (id, filename, source_path, status, raw_text, overall_confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), out.Filename, sourcePath, string(status), out.RawText,
		out.OverallConfidence, time.Now().UTC()); err != nil {
		return uuid.Nil, common.NewAppError("DB_SAVE", "saving document failed", err)
	}
	for i, f := range out.ExtractedFields {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO document_fields (document_id, position, name, value, confidence)
			 VALUES (?, ?, ?, ?, ?)`,
			id.String(), i, f.Name, f.Value, f.Confidence); err != nil {
			return uuid.Nil, common.NewAppError("DB_SAVE", "saving field failed", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, common.NewAppError("DB_SAVE", "commit failed", err)
	}
	s.logger.Debug("result stored", "document_id", id, "filename", out.Filename)
	return id, nil
}

func (s *SQLiteStore) GetResult(ctx context.Context, id uuid.UUID) (*Document, []StoredField, error) {
	var doc Document
	var rawID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, filename, source_path, status, raw_text, overall_confidence, created_at
		 FROM documents WHERE id = ?`, id.String()).
		Scan(&rawID, &doc.Filename, &doc.SourcePath, &doc.Status, &doc.RawText,
			&doc.OverallConfidence, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.NewAppError("DB_GET", "document not found", common.ErrNotFound)
		}
		return nil, nil, common.NewAppError("DB_GET", "loading document failed", err)
	}
	doc.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, nil, common.NewAppError("DB_GET", "stored id is not a uuid", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, name, value, confidence
		 FROM document_fields WHERE document_id = ? ORDER BY position`, id.String())
	if err != nil {
		return nil, nil, common.NewAppError("DB_GET", "loading fields failed", err)
	}
	defer rows.Close()

	var fields []StoredField
	for rows.Next() {
		f := StoredField{DocumentID: doc.ID}
		if err := rows.Scan(&f.Position, &f.Name, &f.Value, &f.Confidence); err != nil {
			return nil, nil, common.NewAppError("DB_GET", "scanning field failed", err)
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, common.NewAppError("DB_GET", "reading fields failed", err)
	}
	return &doc, fields, nil
}

func (s *SQLiteStore) ListDocuments(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, source_path, status, raw_text, overall_confidence, created_at
		 FROM documents ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, common.NewAppError("DB_LIST", "listing documents failed", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var rawID string
		if err := rows.Scan(&rawID, &doc.Filename, &doc.SourcePath, &doc.Status, &doc.RawText,
			&doc.OverallConfidence, &doc.CreatedAt); err != nil {
			return nil, common.NewAppError("DB_LIST", "scanning document failed", err)
		}
		if doc.ID, err = uuid.Parse(rawID); err != nil {
			return nil, common.NewAppError("DB_LIST", "stored id is not a uuid", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
