package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// discoverer mines document text for field-like content without declared
// rules. Each sub-pass is capped; the final pool is confidence-filtered,
// ranked, and truncated so adaptive output cannot flood declared results.
type discoverer struct {
	entities *entityAdapter
	logger   *slog.Logger
}

const (
	adaptiveMinConfidence = 60
	adaptiveMaxFields     = 8
	maxSectionFields      = 3
	maxConceptEntities    = 3
	maxConceptTerms       = 2
)

// Key-value miners: high-precision patterns, each with a synthetic field name
// and a strategy-specific confidence.
var kvMiners = []struct {
	name string
	conf float64
	re   *regexp.Regexp
}{
	{"Amount", 90, regexp.MustCompile(`(?:RMB|￥|¥|\$)\s*([\d,]+(?:\.\d{1,2})?)`)},
	{"Company", 85, regexp.MustCompile(`([\x{4e00}-\x{9fff}A-Za-z0-9&\s]{2,30}?(?:股份有限公司|有限公司|集团)|[A-Z][A-Za-z0-9&\s]{1,30}?(?:Inc|Corp|Ltd|LLC))`)},
	{"Date", 80, regexp.MustCompile(`(\d{4}年\d{1,2}月\d{1,2}日|\d{4}[-/]\d{1,2}[-/]\d{1,2})`)},
	{"Name", 75, regexp.MustCompile(`(?:Dear|尊敬的)\s*[:：]?\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?|[\x{4e00}-\x{9fff}]{2,4})`)},
	{"License Plate", 85, regexp.MustCompile(`([京津沪渝冀豫云辽黑湘皖鲁新苏浙赣鄂桂甘晋蒙陕吉闽贵粤青藏川宁琼][A-Z][A-HJ-NP-Z0-9]{5,6})`)},
}

var topicKeywords = []string{
	"通知", "公告", "报告", "合同", "协议", "发票", "申请", "说明", "纪要",
	"notice", "announcement", "report", "contract", "agreement", "invoice",
	"summary", "proposal", "memo",
}

var bulletLine = regexp.MustCompile(`^\s*(?:[-•*]|\d+[.、)]|[一二三四五六七八九十]+、)`)

var sectionMarkers = []struct {
	conf float64
	re   *regexp.Regexp
}{
	{80, regexp.MustCompile(`(?m)^\s*[一二三四五六七八九十]+、\s*(\S[^\n]{1,40})`)},
	{75, regexp.MustCompile(`(?m)^\s*\d{1,2}[.、]\s+(\S[^\n]{1,40})`)},
}

var conceptLabels = map[string]struct{}{
	"PERSON": {}, "ORG": {}, "GPE": {}, "PRODUCT": {}, "EVENT": {},
}

var conceptKeywords = []string{
	"系统", "项目", "计划", "方案", "平台", "流程", "审批",
	"system", "project", "plan", "platform", "process", "analysis", "budget",
}

var conceptTermPatterns = buildConceptTermPatterns()

func buildConceptTermPatterns() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(conceptKeywords))
	for _, kw := range conceptKeywords {
		out = append(out, regexp.MustCompile(
			`(?i)[A-Za-z\x{4e00}-\x{9fff}]{0,6}`+regexp.QuoteMeta(kw)+`[A-Za-z\x{4e00}-\x{9fff}]{0,6}`))
	}
	return out
}

// discover runs the adaptive sub-passes, then assembles the final ranked
// list: empty or sub-60 fields dropped, sorted by confidence descending,
// truncated to the top 8.
func (d *discoverer) discover(text string) []ExtractedField {
	fields := d.mineKeyValues(text)
	kvHits := len(fields)

	if kvHits < 3 {
		if f, ok := d.mainTopic(text); ok {
			fields = append(fields, f)
		}
	}
	if len(fields) < 5 {
		fields = append(fields, d.sections(text)...)
	}
	if len(fields) < 7 {
		fields = append(fields, d.keyConcepts(text)...)
	}

	kept := fields[:0]
	for _, f := range fields {
		if f.Value == nil || strings.TrimSpace(*f.Value) == "" {
			continue
		}
		if f.Confidence < adaptiveMinConfidence {
			continue
		}
		kept = append(kept, f)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Confidence > kept[j].Confidence })
	if len(kept) > adaptiveMaxFields {
		kept = kept[:adaptiveMaxFields]
	}
	return kept
}

func (d *discoverer) mineKeyValues(text string) []ExtractedField {
	var out []ExtractedField
	seen := map[[2]string]struct{}{}
	for _, m := range kvMiners {
		for _, hit := range m.re.FindAllStringSubmatch(text, -1) {
			v := strings.TrimSpace(hit[1])
			if v == "" {
				continue
			}
			key := [2]string{m.name, v}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, field(m.name, v, m.conf))
		}
	}
	return out
}

// mainTopic scans the leading lines for a title-like line carrying a topic
// keyword, falling back to the first sentence of plausible length.
func (d *discoverer) mainTopic(text string) (ExtractedField, bool) {
	lines := strings.Split(text, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		n := utf8.RuneCountInString(ln)
		if n < 10 || n > 100 || bulletLine.MatchString(ln) {
			continue
		}
		low := asciiLower(ln)
		for _, kw := range topicKeywords {
			if strings.Contains(low, kw) {
				return field("Main Topic", ln, 85), true
			}
		}
	}
	if s := firstSentence(text); s != "" {
		if n := utf8.RuneCountInString(s); n >= 20 && n <= 150 {
			return field("Main Topic", s, 75), true
		}
	}
	return ExtractedField{}, false
}

var sentenceSplit = regexp.MustCompile(`[。.!！?？\n]`)

func firstSentence(text string) string {
	for _, s := range sentenceSplit.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// sections emits one field per numbered section title, Chinese ideographic
// markers outranking Latin ones, keeping the top 3 by confidence.
func (d *discoverer) sections(text string) []ExtractedField {
	var out []ExtractedField
	n := 0
	for _, sm := range sectionMarkers {
		for _, m := range sm.re.FindAllStringSubmatch(text, -1) {
			n++
			out = append(out, field(fmt.Sprintf("Section %d", n), strings.TrimSpace(m[1]), sm.conf))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	if len(out) > maxSectionFields {
		out = out[:maxSectionFields]
	}
	return out
}

// keyConcepts counts recognizer entities across the salient categories and
// emits the most frequent ones, plus a couple of keyword-bearing terms.
// Requires the recognizer; without one this pass is skipped entirely.
func (d *discoverer) keyConcepts(text string) []ExtractedField {
	if !d.entities.available {
		return nil
	}

	counts := map[string]int{}
	var order []string
	for _, e := range d.entities.rec.FindEntities(text) {
		if _, ok := conceptLabels[e.Label]; !ok {
			continue
		}
		if e.Text == "" {
			continue
		}
		if counts[e.Text] == 0 {
			order = append(order, e.Text)
		}
		counts[e.Text]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > maxConceptEntities {
		order = order[:maxConceptEntities]
	}

	var out []ExtractedField
	seen := map[string]struct{}{}
	for _, t := range order {
		conf := 70 + 5*float64(counts[t])
		if conf > 90 {
			conf = 90
		}
		out = append(out, field("Key Concept", t, conf))
		seen[t] = struct{}{}
	}

	added := 0
	for _, re := range conceptTermPatterns {
		if added >= maxConceptTerms {
			break
		}
		t := strings.TrimSpace(re.FindString(text))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, field("Key Term", t, 70))
		added++
	}
	return out
}
