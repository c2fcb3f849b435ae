package extract

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/docgrid/doc-parser/constants"
)

// resolver runs the strategy cascade for one field rule. Strategies are
// evaluated in strict priority order and short-circuit on first success:
// regex (90), keyword window (85), entity fallback (80).
type resolver struct {
	entities *entityAdapter
	logger   *slog.Logger
}

// resolve returns exactly one field per rule; a rule with no match yields
// (nil value, confidence 0) rather than an error.
func (r *resolver) resolve(rule FieldRule, text string) ExtractedField {
	if v, ok := r.byRegex(rule, text); ok {
		return field(rule.Name, v, confidenceRegex)
	}
	if v, ok := r.byKeyword(rule, text); ok {
		return field(rule.Name, v, confidenceKeyword)
	}
	if rule.EntityType != "" {
		if v, ok := r.entities.lookup(rule.EntityType, text); ok {
			return field(rule.Name, postProcess(rule.PostProcess, v), confidenceEntity)
		}
	}
	return ExtractedField{Name: rule.Name}
}

func (r *resolver) byRegex(rule FieldRule, text string) (string, bool) {
	for _, p := range rule.RegexPatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			// A malformed pattern is skipped, not fatal to the field.
			r.logger.Warn("skipping malformed field regex",
				"field", rule.Name, "pattern", p, "err", err)
			continue
		}
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v := m[0]
		if re.NumSubexp() >= 1 {
			v = m[1]
		}
		return postProcess(rule.PostProcess, cleanValue(v)), true
	}
	return "", false
}

func (r *resolver) byKeyword(rule FieldRule, text string) (string, bool) {
	lower := asciiLower(text)
	for _, kw := range rule.Pattern {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		kwLower := asciiLower(kw)
		// Every occurrence, left to right; the first that yields a
		// non-empty cleaned value wins.
		for start := 0; ; {
			idx := strings.Index(lower[start:], kwLower)
			if idx < 0 {
				break
			}
			pos := start + idx + len(kwLower)
			window := runeWindow(text, pos, windowSize)
			if v := cleanValue(extractByType(window, rule.ValueTypeHint)); v != "" {
				return postProcess(rule.PostProcess, v), true
			}
			start = pos
		}
	}
	return "", false
}

var trailingPunct = regexp.MustCompile(`[\s。；，,.;:：、]+$`)

const stopChars = "。；，,.;:：\n\t"

// cleanValue trims a raw match. Digit-bearing values only lose trailing
// punctuation so internal thousands/decimal separators survive; plain text is
// cut at the first stop character so it does not bleed into following prose.
func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if strings.ContainsFunc(v, unicode.IsDigit) {
		return strings.TrimSpace(trailingPunct.ReplaceAllString(v, ""))
	}
	if i := strings.IndexAny(v, stopChars); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// postProcess applies a declared normalization by name. Unknown names are
// identity, not an error.
func postProcess(name, v string) string {
	switch name {
	case constants.PostAmountNormalize, "amount-normalize":
		return NormalizeAmount(v)
	case constants.PostDateNormalize, "date-normalize":
		return NormalizeDate(v)
	}
	return v
}
