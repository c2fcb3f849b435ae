package ocr

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

var (
	reDateish   = regexp.MustCompile(`\d{4}[年\-/]\d{1,2}[月\-/]\d{1,2}`)
	reAmountish = regexp.MustCompile(`[￥¥$€£]\s*[\d,]+|\d+\.\d{2}|[\d,]+\s*元`)
	reLabelish  = regexp.MustCompile(`[\x{4e00}-\x{9fff}\w]{1,12}[:：]`)
)

// heuristicConfidence estimates recognition quality from text shape when no
// per-word confidence is available, on the 0-100 scale. Documents that carry
// the structure we extract from (labeled lines, dates, amounts) score higher;
// garbage-heavy output scores lower.
func heuristicConfidence(txt string) float64 {
	if txt == "" {
		return 0
	}
	score := 20.0
	if reDateish.MatchString(txt) {
		score += 20
	}
	if reAmountish.MatchString(txt) {
		score += 15
	}
	if reLabelish.MatchString(txt) {
		score += 15
	}
	if utf8.RuneCountInString(txt) > 120 {
		score += 10
	}
	if readableRatio(txt) > 0.85 {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}

// readableRatio is the share of runes that are letters, digits, or spaces.
// Symbol-heavy OCR noise drives it down.
func readableRatio(txt string) float64 {
	var total, readable int
	for _, r := range txt {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}
