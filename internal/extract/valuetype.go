package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/docgrid/doc-parser/constants"
)

// windowSize bounds the trailing window scanned after a matched anchor, in
// runes. 100 is empirical: long enough for any value we target, short enough
// not to bleed into the next field's content.
const windowSize = 100

var (
	leadingSeparators = regexp.MustCompile(`^[\s:：,，。、.;；\-–—=]+`)
	segmentSplit      = regexp.MustCompile(`[。.；;!！?？\n\r]`)
)

// Ordered candidate patterns per value type. First match wins, so the more
// specific patterns come first.
var amountValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:RMB|￥|¥|\$)\s*([\d,]+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`([\d,]+\.\d{1,2})`),
	regexp.MustCompile(`(\d[\d,]*)`),
}

var dateValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{4}年\d{1,2}月\d{1,2}日)`),
	regexp.MustCompile(`(\d{4}[-/]\d{1,2}[-/]\d{1,2})`),
	regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`(?i)((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4})`),
}

var plateValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([A-Z0-9]{6,8})\b`),
	regexp.MustCompile(`([京津沪渝冀豫云辽黑湘皖鲁新苏浙赣鄂桂甘晋蒙陕吉闽贵粤青藏川宁琼使领][A-Z][A-HJ-NP-Z0-9]{5,6})`),
}

var nameValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:Dear|Attn|尊敬的)\s*[:：]?\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
	regexp.MustCompile(`([\x{4e00}-\x{9fff}]{2,4})(?:先生|女士|经理|主任)`),
	regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+)`),
}

var companyValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([\x{4e00}-\x{9fff}A-Za-z0-9&\s]{2,30}?(?:股份有限公司|有限公司|集团|公司))`),
	regexp.MustCompile(`([A-Z][A-Za-z0-9&.,'\s]{1,40}?(?:Inc|Corp|Corporation|Ltd|LLC|Co\.|Company))`),
}

var addressValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([\x{4e00}-\x{9fff}]{2,8}(?:省|市|区|县)[\x{4e00}-\x{9fff}0-9号路街道巷弄栋室]{2,30})`),
	regexp.MustCompile(`(?i)(\d{1,5}\s+[A-Za-z0-9.\s]{2,40}?(?:Street|St|Road|Rd|Avenue|Ave|Boulevard|Blvd|Lane|Ln|Drive|Dr))`),
}

var phoneValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{3,4}[-\s]\d{7,8})`),
	regexp.MustCompile(`(1[3-9]\d{9})`),
	regexp.MustCompile(`(\+\d{1,3}[-\s]?\d{3,4}[-\s]?\d{4,8})`),
}

// extractByType isolates the most plausible candidate substring for the given
// semantic hint from a text window. An empty result means nothing survived.
// Unknown hints and typed misses both fall back to plain segmentation.
func extractByType(window, hint string) string {
	w := leadingSeparators.ReplaceAllString(window, "")
	if w == "" {
		return ""
	}

	var v string
	switch hint {
	case constants.HintAmount:
		v = firstCapture(amountValuePatterns, w)
	case constants.HintDate:
		v = firstCapture(dateValuePatterns, w)
	case constants.HintLicensePlate:
		v = extractLicensePlate(w)
	case constants.HintName:
		v = firstCapture(nameValuePatterns, w)
	case constants.HintCompany:
		v = firstCapture(companyValuePatterns, w)
	case constants.HintAddress:
		v = firstCapture(addressValuePatterns, w)
	case constants.HintPhone:
		v = firstCapture(phoneValuePatterns, w)
	}
	if v == "" {
		v = firstSegment(w)
	}
	return v
}

func firstCapture(patterns []*regexp.Regexp, w string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(w); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// firstSegment is the untyped fallback: split on sentence boundaries and take
// the first segment of plausible value length, else the first 30 runes.
func firstSegment(w string) string {
	for _, p := range segmentSplit.Split(w, -1) {
		p = strings.TrimSpace(p)
		if n := utf8.RuneCountInString(p); n > 1 && n < 50 {
			return p
		}
	}
	r := []rune(w)
	if len(r) > 30 {
		r = r[:30]
	}
	return strings.TrimSpace(string(r))
}

// extractLicensePlate requires candidates to mix letters and digits; pure
// numbers and pure words of plate-like length are OCR noise, not plates.
func extractLicensePlate(w string) string {
	for _, re := range plateValuePatterns {
		for _, m := range re.FindAllStringSubmatch(w, -1) {
			if plausiblePlate(m[1]) {
				return m[1]
			}
		}
	}
	return ""
}

func plausiblePlate(c string) bool {
	n := utf8.RuneCountInString(c)
	if n < 6 || n > 10 {
		return false
	}
	var hasDigit, hasLetter bool
	for _, r := range c {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		}
	}
	return hasDigit && hasLetter
}

// runeWindow returns up to n runes of s starting at byte offset off.
func runeWindow(s string, off, n int) string {
	if off >= len(s) {
		return ""
	}
	tail := s[off:]
	count := 0
	for i := range tail {
		if count == n {
			return tail[:i]
		}
		count++
	}
	return tail
}

// asciiLower lowercases only ASCII letters, preserving byte offsets so
// positions found in the lowered text index the original directly.
func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
