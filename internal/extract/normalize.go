package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// NormalizeAmount canonicalizes a raw amount string: currency glyphs and
// whitespace are stripped, the thousands/decimal separator ambiguity is
// resolved, and the result is rendered with exactly two fraction digits.
//
// Separator rule: when both "," and "." appear, the later-occurring symbol is
// the decimal point and the earlier one groups thousands. A lone "," is a
// decimal point only when exactly 1-2 digits follow it. This is a heuristic,
// not a locale-aware parser; it is kept as-is to match the behavior the
// shipped rule configs were tuned against.
//
// Unparseable input returns the partially-cleaned string, never an error.
func NormalizeAmount(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', '¥', '￥', '€', '£':
			return -1
		}
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	comma := strings.LastIndex(cleaned, ",")
	dot := strings.LastIndex(cleaned, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			cleaned = decimalAt(cleaned, comma)
		} else {
			cleaned = decimalAt(cleaned, dot)
		}
	case comma >= 0:
		frac := cleaned[comma+1:]
		if isDigits(frac) && len(frac) >= 1 && len(frac) <= 2 {
			cleaned = decimalAt(cleaned, comma)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return cleaned
	}
	return d.StringFixed(2)
}

// decimalAt rebuilds s with the separator at byte index i as the decimal
// point and every other "," or "." removed as a grouping separator.
func decimalAt(s string, i int) string {
	strip := func(part string) string {
		part = strings.ReplaceAll(part, ",", "")
		return strings.ReplaceAll(part, ".", "")
	}
	return strip(s[:i]) + "." + strip(s[i+1:])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Date rewrite patterns, attempted in order. Group order differs between the
// slash styles: MM/DD/YYYY is tried before YYYY/MM/DD.
var dateRewrites = []struct {
	re    *regexp.Regexp
	y, m, d int
}{
	{regexp.MustCompile(`(\d{4})[-年](\d{1,2})[-月](\d{1,2})日?`), 1, 2, 3},
	{regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`), 3, 1, 2},
	{regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})`), 1, 2, 3},
}

// NormalizeDate rewrites the first recognized date into zero-padded
// YYYY-MM-DD. Input with no recognizable date comes back trimmed but
// otherwise unchanged.
func NormalizeDate(raw string) string {
	trimmed := strings.TrimSpace(raw)
	for _, p := range dateRewrites {
		m := p.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[p.y])
		month, _ := strconv.Atoi(m[p.m])
		day, _ := strconv.Atoi(m[p.d])
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}
	return trimmed
}
