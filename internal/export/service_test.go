package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/docgrid/doc-parser/internal/extract"
	"github.com/docgrid/doc-parser/internal/pipeline"
)

func strp(s string) *string { return &s }

func sampleResults() []pipeline.StructuredOutput {
	return []pipeline.StructuredOutput{
		{
			Filename: "invoice.pdf",
			RawText:  "发票号码：INV-2024-001\n金额：￥1,250.00",
			ExtractedFields: []extract.ExtractedField{
				{Name: "Invoice Number", Value: strp("INV-2024-001"), Confidence: 90},
				{Name: "Vendor", Value: strp("北京恒远科技有限公司"), Confidence: 75},
				{Name: "Approver", Value: nil, Confidence: 0},
			},
			LowConfidenceFields: []string{"Vendor", "Approver"},
			OverallConfidence:   88,
		},
		{
			Filename: "contract.png",
			RawText:  "合同编号：HT-77",
			ExtractedFields: []extract.ExtractedField{
				{Name: "Contract Number", Value: strp("HT-77"), Confidence: 90},
			},
			LowConfidenceFields: []string{},
			OverallConfidence:   92,
		},
	}
}

func TestSaveResults(t *testing.T) {
	dir := t.TempDir()
	s := NewService(nil)
	require.NoError(t, s.SaveResults(sampleResults(), filepath.Join(dir, "out"), DefaultOptions()))

	out := filepath.Join(dir, "out")

	raw, err := os.ReadFile(filepath.Join(out, "invoice_raw.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "INV-2024-001")

	data, err := os.ReadFile(filepath.Join(out, "invoice_structured.json"))
	require.NoError(t, err)
	var decoded pipeline.StructuredOutput
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "invoice.pdf", decoded.Filename)
	assert.Len(t, decoded.ExtractedFields, 3)
	// CJK stays readable in the JSON artifact.
	assert.True(t, bytes.Contains(data, []byte("发票号码")))

	_, err = os.Stat(filepath.Join(out, "contract_structured.json"))
	assert.NoError(t, err)

	wb, err := excelize.OpenFile(filepath.Join(out, "validation_list.xlsx"))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Validation")
	require.NoError(t, err)
	// Header plus the two low-confidence fields from invoice.pdf.
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Filename", "Field Name", "Extracted Value", "Confidence"}, rows[0])
	assert.Equal(t, "invoice.pdf", rows[1][0])
	assert.Equal(t, "Vendor", rows[1][1])
	assert.Equal(t, "Approver", rows[2][1])
}

func TestSaveResultsSelectiveOptions(t *testing.T) {
	dir := t.TempDir()
	s := NewService(nil)
	require.NoError(t, s.SaveResults(sampleResults(), dir, Options{JSON: true}))

	_, err := os.Stat(filepath.Join(dir, "invoice_raw.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "validation_list.xlsx"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "invoice_structured.json"))
	assert.NoError(t, err)
}

func TestSaveResultsNoLowConfidenceSkipsWorkbook(t *testing.T) {
	dir := t.TempDir()
	s := NewService(nil)
	results := []pipeline.StructuredOutput{{
		Filename: "clean.pdf",
		ExtractedFields: []extract.ExtractedField{
			{Name: "Amount", Value: strp("100.00"), Confidence: 90},
		},
	}}
	require.NoError(t, s.SaveResults(results, dir, DefaultOptions()))
	_, err := os.Stat(filepath.Join(dir, "validation_list.xlsx"))
	assert.True(t, os.IsNotExist(err))
}
