package config

import (
	"fmt"
	"sort"

	"github.com/docgrid/doc-parser/constants"
	"github.com/docgrid/doc-parser/internal/common"
	"github.com/docgrid/doc-parser/internal/extract"
)

// Built-in scenario names.
const (
	PresetInvoiceReimbursement = "invoice_reimbursement"
	PresetContractAudit        = "contract_audit"
)

// Preset returns a copy of the named built-in scenario configuration.
func Preset(name string) (DocumentConfig, error) {
	build, ok := presets[name]
	if !ok {
		return DocumentConfig{}, common.NewAppError("CONFIG_PRESET",
			fmt.Sprintf("unknown preset %q", name), common.ErrNotFound)
	}
	return build(), nil
}

// PresetNames lists the built-in scenarios, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var presets = map[string]func() DocumentConfig{
	PresetInvoiceReimbursement: invoiceReimbursement,
	PresetContractAudit:        contractAudit,
}

func invoiceReimbursement() DocumentConfig {
	return DocumentConfig{
		DocumentType: PresetInvoiceReimbursement,
		Extraction: extract.ExtractionConfig{
			EnableAdaptiveFields: true,
			Fields: []extract.FieldRule{
				{
					Name:          "Document Type",
					Pattern:       extract.PatternList{"发票", "报销单", "invoice", "reimbursement"},
					RegexPatterns: []string{`(发票|报销单|invoice|reimbursement)`},
				},
				{
					Name:    "Vendor/Company",
					Pattern: extract.PatternList{"供应商", "公司", "vendor", "company"},
					RegexPatterns: []string{
						`供应商[:：]\s*([\w\s\x{4e00}-\x{9fff}]+)`,
						`公司[:：]\s*([\w\s\x{4e00}-\x{9fff}]+)`,
						`([\w\s]+)(?:公司|Inc|Corp)`,
					},
					ValueTypeHint: constants.HintCompany,
				},
				{
					Name:    "Invoice Amount",
					Pattern: extract.PatternList{"金额", "总计", "amount", "total"},
					RegexPatterns: []string{
						`金额[:：]\s*[￥$]?([\d,\.]+)`,
						`总计[:：]\s*[￥$]?([\d,\.]+)`,
						`￥([\d,\.]+)`,
						`\$([\d,\.]+)`,
					},
					ValueTypeHint: constants.HintAmount,
					PostProcess:   constants.PostAmountNormalize,
				},
				{
					Name:    "Tax Amount",
					Pattern: extract.PatternList{"税额", "税金", "tax", "vat"},
					RegexPatterns: []string{
						`税额[:：]\s*[￥$]?([\d,\.]+)`,
						`税金[:：]\s*[￥$]?([\d,\.]+)`,
					},
					ValueTypeHint: constants.HintAmount,
					PostProcess:   constants.PostAmountNormalize,
				},
				{
					Name:       "Invoice Date",
					Pattern:    extract.PatternList{"日期", "开票日期", "date"},
					EntityType: constants.EntityDate,
					RegexPatterns: []string{
						`开票日期[:：]\s*([\d\-\./年月日\s]+)`,
						`\d{4}年\d{1,2}月\d{1,2}日`,
						`\d{4}[-/]\d{1,2}[-/]\d{1,2}`,
					},
					ValueTypeHint: constants.HintDate,
					PostProcess:   constants.PostDateNormalize,
				},
				{
					Name:          "Invoice Number",
					Pattern:       extract.PatternList{"发票号码", "编号", "invoice number"},
					RegexPatterns: []string{`发票号码[:：]\s*([\w\d\-]+)`},
				},
			},
		},
		Validation: ValidationConfig{
			ConfidenceThreshold: 70,
			BusinessRules: map[string]BusinessRule{
				PresetInvoiceReimbursement: {
					RequiredFields: []string{"Document Type", "Vendor/Company", "Invoice Amount", "Invoice Date"},
					AmountLimits:   &AmountLimit{MaxAmount: 50000, Currency: "CNY"},
					Checks:         []string{"amount_reasonable", "date_not_future", "vendor_approved"},
				},
			},
		},
	}
}

func contractAudit() DocumentConfig {
	return DocumentConfig{
		DocumentType: PresetContractAudit,
		Extraction: extract.ExtractionConfig{
			EnableAdaptiveFields: true,
			Fields: []extract.FieldRule{
				{
					Name:          "Document Type",
					Pattern:       extract.PatternList{"合同", "协议", "contract", "agreement"},
					RegexPatterns: []string{`(合同|协议|contract|agreement)`},
				},
				{
					Name:    "Party A",
					Pattern: extract.PatternList{"甲方", "party a", "employer"},
					RegexPatterns: []string{
						`甲方[:：]\s*([\w\s\x{4e00}-\x{9fff}]+)`,
						`(?i)Party A[:：]\s*([\w\s\x{4e00}-\x{9fff}]+)`,
					},
					ValueTypeHint: constants.HintCompany,
				},
				{
					Name:    "Party B",
					Pattern: extract.PatternList{"乙方", "party b", "employee"},
					RegexPatterns: []string{
						`乙方[:：]\s*([\w\s\x{4e00}-\x{9fff}]+)`,
						`(?i)Party B[:：]\s*([\w\s\x{4e00}-\x{9fff}]+)`,
					},
					ValueTypeHint: constants.HintCompany,
				},
				{
					Name:    "Contract Amount",
					Pattern: extract.PatternList{"金额", "报酬", "amount", "salary"},
					RegexPatterns: []string{
						`金额[:：]\s*[￥$]?([\d,\.]+)`,
						`报酬[:：]\s*[￥$]?([\d,\.]+)`,
						`￥([\d,\.]+)`,
						`\$([\d,\.]+)`,
					},
					ValueTypeHint: constants.HintAmount,
					PostProcess:   constants.PostAmountNormalize,
				},
				{
					Name:       "Contract Date",
					Pattern:    extract.PatternList{"签订日期", "日期", "contract date"},
					EntityType: constants.EntityDate,
					RegexPatterns: []string{
						`签订日期[:：]\s*([\d\-\./年月日\s]+)`,
						`\d{4}年\d{1,2}月\d{1,2}日`,
					},
					ValueTypeHint: constants.HintDate,
					PostProcess:   constants.PostDateNormalize,
				},
				{
					Name:          "Contract Number",
					Pattern:       extract.PatternList{"合同编号", "contract number"},
					RegexPatterns: []string{`合同编号[:：]\s*([\w\d\-]+)`},
				},
				{
					Name:    "Approval Status",
					Pattern: extract.PatternList{"审批", "审核", "approval", "audit"},
					RegexPatterns: []string{
						`审批[:：]\s*([\w\s\x{4e00}-\x{9fff}]+)`,
						`审核[:：]\s*([\w\s\x{4e00}-\x{9fff}]+)`,
					},
				},
			},
		},
		Validation: ValidationConfig{
			ConfidenceThreshold: 70,
			BusinessRules: map[string]BusinessRule{
				PresetContractAudit: {
					RequiredFields: []string{"Document Type", "Party A", "Party B", "Contract Amount", "Contract Date"},
					Checks:         []string{"amount_reasonable", "date_not_future", "parties_valid", "contract_format"},
				},
			},
		},
	}
}
