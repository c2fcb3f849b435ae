package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docgrid/doc-parser/constants"
	"github.com/docgrid/doc-parser/internal/common"
	"github.com/docgrid/doc-parser/internal/pipeline"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS documents (
    id                 UUID PRIMARY KEY,
    filename           TEXT NOT NULL,
    source_path        TEXT NOT NULL,
    status             TEXT NOT NULL,
    raw_text           TEXT NOT NULL DEFAULT '',
    overall_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS document_fields (
    document_id UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    position    INT NOT NULL,
    name        TEXT NOT NULL,
    value       TEXT,
    confidence  DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (document_id, position)
);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at DESC);
`

// PostgresStore persists results in Postgres through a pgx pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres connects a pool with the configured limits and ensures the
// schema exists.
func OpenPostgres(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database")

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("invalid database dsn", "error", err)
		return nil, err
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "doc-parser"

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		logger.Error("schema setup failed", "error", err)
		return nil, err
	}

	logger.Info("successfully connected to database")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// HealthCheck pings the pool to catch DSN and connectivity issues early.
func (s *PostgresStore) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.logger.Info("closing database connections")
	s.pool.Close()
}

func (s *PostgresStore) SaveResult(ctx context.Context, sourcePath string, out pipeline.StructuredOutput, status constants.JobStatus) (uuid.UUID, error) {
	id := uuid.New()

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO documents (id, filename, source_path, status, raw_text, overall_confidence)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, out.Filename, sourcePath, string(status), out.RawText, out.OverallConfidence)
		if err != nil {
			return err
		}
		for i, f := range out.ExtractedFields {
			if _, err := tx.Exec(ctx,
				`INSERT INTO document_fields (document_id, position, name, value, confidence)
				 VALUES ($1, $2, $3, $4, $5)`,
				id, i, f.Name, f.Value, f.Confidence); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("save result failed", "filename", out.Filename, "error", err)
		return uuid.Nil, common.NewAppError("DB_SAVE", "saving result failed", err)
	}
	s.logger.Info("result stored", "document_id", id, "filename", out.Filename, "status", status)
	return id, nil
}

func (s *PostgresStore) GetResult(ctx context.Context, id uuid.UUID) (*Document, []StoredField, error) {
	var doc Document
	err := s.pool.QueryRow(ctx,
		`SELECT id, filename, source_path, status, raw_text, overall_confidence, created_at
		 FROM documents WHERE id = $1`, id).
		Scan(&doc.ID, &doc.Filename, &doc.SourcePath, &doc.Status, &doc.RawText,
			&doc.OverallConfidence, &doc.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, common.NewAppError("DB_GET", "document not found", common.ErrNotFound)
		}
		return nil, nil, common.NewAppError("DB_GET", "loading document failed", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT document_id, position, name, value, confidence
		 FROM document_fields WHERE document_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, nil, common.NewAppError("DB_GET", "loading fields failed", err)
	}
	defer rows.Close()

	var fields []StoredField
	for rows.Next() {
		var f StoredField
		if err := rows.Scan(&f.DocumentID, &f.Position, &f.Name, &f.Value, &f.Confidence); err != nil {
			return nil, nil, common.NewAppError("DB_GET", "scanning field failed", err)
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, common.NewAppError("DB_GET", "reading fields failed", err)
	}
	return &doc, fields, nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, filename, source_path, status, raw_text, overall_confidence, created_at
		 FROM documents ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, common.NewAppError("DB_LIST", "listing documents failed", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.SourcePath, &doc.Status, &doc.RawText,
			&doc.OverallConfidence, &doc.CreatedAt); err != nil {
			return nil, common.NewAppError("DB_LIST", "scanning document failed", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
