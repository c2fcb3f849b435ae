package config

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docgrid/doc-parser/internal/common"
)

func TestParseFullDocument(t *testing.T) {
	data := []byte(`{
		"document_type": "invoice",
		"extraction": {
			"enable_adaptive_fields": false,
			"fields": [
				{"name": "Invoice Number", "pattern": "invoice number"},
				{"name": "Amount", "pattern": ["金额", "total"], "post_process": "amount_normalize"}
			]
		},
		"validation": {
			"confidence_threshold": 70,
			"business_rules": {
				"invoice": {"required_fields": ["Amount"], "amount_limits": {"max_amount": 1000}}
			}
		}
	}`)

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "invoice", cfg.DocumentType)
	assert.False(t, cfg.Extraction.EnableAdaptiveFields)
	require.Len(t, cfg.Extraction.Fields, 2)
	assert.Equal(t, []string{"invoice number"}, []string(cfg.Extraction.Fields[0].Pattern))
	assert.Equal(t, []string{"金额", "total"}, []string(cfg.Extraction.Fields[1].Pattern))
	assert.Equal(t, float64(70), cfg.Validation.ConfidenceThreshold)
	require.Contains(t, cfg.Validation.BusinessRules, "invoice")
	require.NotNil(t, cfg.Validation.BusinessRules["invoice"].AmountLimits)
	assert.Equal(t, float64(1000), cfg.Validation.BusinessRules["invoice"].AmountLimits.MaxAmount)
}

func TestParseAdaptiveDefaultsTrue(t *testing.T) {
	cfg, err := Parse([]byte(`{"extraction": {"fields": []}}`))
	require.NoError(t, err)
	assert.True(t, cfg.Extraction.EnableAdaptiveFields)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"missing extraction", `{"document_type": "x"}`},
		{"field without name", `{"extraction": {"fields": [{"pattern": "x"}]}}`},
		{"empty field name", `{"extraction": {"fields": [{"name": ""}]}}`},
		{"unknown field property", `{"extraction": {"fields": [{"name": "A", "bogus": 1}]}}`},
		{"pattern wrong type", `{"extraction": {"fields": [{"name": "A", "pattern": 5}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			var appErr *common.AppError
			assert.True(t, errors.As(err, &appErr))
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"extraction": {"fields": [{"name": "A"}]}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Extraction.Fields, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Extraction.EnableAdaptiveFields)
	require.Len(t, cfg.Extraction.Fields, 3)
	assert.Equal(t, "Invoice Number", cfg.Extraction.Fields[0].Name)
	assert.Equal(t, "DATE", cfg.Extraction.Fields[2].EntityType)
}

func TestPreset(t *testing.T) {
	inv, err := Preset(PresetInvoiceReimbursement)
	require.NoError(t, err)
	assert.Equal(t, "invoice_reimbursement", inv.DocumentType)
	assert.NotEmpty(t, inv.Extraction.Fields)
	assert.Contains(t, inv.Validation.BusinessRules, PresetInvoiceReimbursement)

	_, err = Preset("no_such_scenario")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	assert.Equal(t, []string{PresetContractAudit, PresetInvoiceReimbursement}, PresetNames())
}

func TestPresetRegexPatternsCompile(t *testing.T) {
	for _, name := range PresetNames() {
		cfg, err := Preset(name)
		require.NoError(t, err)
		for _, f := range cfg.Extraction.Fields {
			for _, p := range f.RegexPatterns {
				_, err := regexp.Compile("(?i)" + p)
				assert.NoError(t, err, "preset %s field %s pattern %s", name, f.Name, p)
			}
		}
	}
}
