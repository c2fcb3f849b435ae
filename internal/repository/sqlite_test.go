package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docgrid/doc-parser/constants"
	"github.com/docgrid/doc-parser/internal/common"
	"github.com/docgrid/doc-parser/internal/extract"
	"github.com/docgrid/doc-parser/internal/pipeline"
)

func strp(s string) *string { return &s }

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "results.db"), nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func sampleOutput() pipeline.StructuredOutput {
	return pipeline.StructuredOutput{
		Filename: "invoice.pdf",
		RawText:  "发票号码：INV-2024-001",
		ExtractedFields: []extract.ExtractedField{
			{Name: "Invoice Number", Value: strp("INV-2024-001"), Confidence: 90},
			{Name: "Approver", Value: nil, Confidence: 0},
		},
		LowConfidenceFields: []string{"Approver"},
		OverallConfidence:   88,
	}
}

func TestSQLiteSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SaveResult(ctx, "/in/invoice.pdf", sampleOutput(), constants.JobStatusExtracted)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	doc, fields, err := s.GetResult(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "invoice.pdf", doc.Filename)
	assert.Equal(t, "/in/invoice.pdf", doc.SourcePath)
	assert.Equal(t, constants.JobStatusExtracted, doc.Status)
	assert.Equal(t, float64(88), doc.OverallConfidence)
	assert.False(t, doc.CreatedAt.IsZero())

	require.Len(t, fields, 2)
	assert.Equal(t, "Invoice Number", fields[0].Name)
	require.NotNil(t, fields[0].Value)
	assert.Equal(t, "INV-2024-001", *fields[0].Value)
	assert.Equal(t, 0, fields[0].Position)
	assert.Nil(t, fields[1].Value)
	assert.Equal(t, 1, fields[1].Position)
}

func TestSQLiteGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, _, err := s.GetResult(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSQLiteListDocuments(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		out := sampleOutput()
		_, err := s.SaveResult(ctx, "/in/invoice.pdf", out, constants.JobStatusExtracted)
		require.NoError(t, err)
	}

	docs, err := s.ListDocuments(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = s.ListDocuments(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}
