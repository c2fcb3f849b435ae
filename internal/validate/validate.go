// Package validate enforces the business rules a configuration document
// declares: required fields, amount limits, and named plausibility checks.
// Validation never blocks processing; it annotates results for review.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/docgrid/doc-parser/internal/config"
	"github.com/docgrid/doc-parser/internal/extract"
	"github.com/docgrid/doc-parser/internal/pipeline"
)

// Issue is one failed check on a processing result.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Check   string `json:"check"`
	Message string `json:"message"`
}

// Validator applies a configuration's validation section to results.
type Validator struct {
	cfg config.ValidationConfig
	now func() time.Time
}

func New(cfg config.ValidationConfig) *Validator {
	return &Validator{cfg: cfg, now: time.Now}
}

// Validate returns every issue found in out. An empty slice means the result
// passed all configured checks.
func (v *Validator) Validate(out pipeline.StructuredOutput) []Issue {
	issues := []Issue{}

	if t := v.cfg.ConfidenceThreshold; t > 0 && out.OverallConfidence < t {
		issues = append(issues, Issue{
			Check:   "confidence_threshold",
			Message: fmt.Sprintf("overall confidence %.0f below threshold %.0f", out.OverallConfidence, t),
		})
	}

	byName := map[string]extract.ExtractedField{}
	for _, f := range out.ExtractedFields {
		byName[f.Name] = f
	}

	for _, rule := range v.cfg.BusinessRules {
		issues = append(issues, v.applyRule(rule, byName)...)
	}
	return issues
}

func (v *Validator) applyRule(rule config.BusinessRule, byName map[string]extract.ExtractedField) []Issue {
	var issues []Issue

	for _, name := range rule.RequiredFields {
		f, ok := byName[name]
		if !ok || f.Value == nil || *f.Value == "" {
			issues = append(issues, Issue{
				Field:   name,
				Check:   "required_fields",
				Message: "required field was not extracted",
			})
		}
	}

	if rule.AmountLimits != nil {
		limit := decimal.NewFromFloat(rule.AmountLimits.MaxAmount)
		for name, f := range byName {
			amt, ok := fieldAmount(f)
			if !ok {
				continue
			}
			if amt.GreaterThan(limit) {
				issues = append(issues, Issue{
					Field: name,
					Check: "amount_limits",
					Message: fmt.Sprintf("amount %s exceeds limit %s %s",
						amt.StringFixed(2), limit.StringFixed(2), rule.AmountLimits.Currency),
				})
			}
		}
	}

	for _, check := range rule.Checks {
		switch check {
		case "amount_reasonable":
			for name, f := range byName {
				if amt, ok := fieldAmount(f); ok && amt.LessThanOrEqual(decimal.Zero) {
					issues = append(issues, Issue{
						Field:   name,
						Check:   check,
						Message: "amount is not positive",
					})
				}
			}
		case "date_not_future":
			today := v.now().Format("2006-01-02")
			for name, f := range byName {
				if d, ok := fieldDate(f); ok && d > today {
					issues = append(issues, Issue{
						Field:   name,
						Check:   check,
						Message: fmt.Sprintf("date %s is in the future", d),
					})
				}
			}
		}
		// Other named checks (vendor_approved, parties_valid, contract_format)
		// need reference data this service does not hold; they pass through.
	}
	return issues
}

// fieldAmount parses an amount-named field's value as a decimal.
func fieldAmount(f extract.ExtractedField) (decimal.Decimal, bool) {
	if f.Value == nil || !strings.Contains(strings.ToLower(f.Name), "amount") {
		return decimal.Decimal{}, false
	}
	amt, err := decimal.NewFromString(extract.NormalizeAmount(*f.Value))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amt, true
}

// fieldDate returns a date-named field's value in YYYY-MM-DD form.
func fieldDate(f extract.ExtractedField) (string, bool) {
	if f.Value == nil || !strings.Contains(strings.ToLower(f.Name), "date") {
		return "", false
	}
	d := extract.NormalizeDate(*f.Value)
	if _, err := time.Parse("2006-01-02", d); err != nil {
		return "", false
	}
	return d, true
}
