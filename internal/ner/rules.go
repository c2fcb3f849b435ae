// Package ner provides entity recognizers for the extraction engine. The
// default backend is rule-based pattern matching over mixed Chinese and
// English text; an HTTP backend can delegate to an external NER service.
package ner

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/docgrid/doc-parser/internal/extract"
)

// maxInputBytes is the maximum input length the rule recognizer will scan.
// Inputs exceeding this are returned with no results.
const maxInputBytes = 1 << 20

// labelPatterns maps a recognizer label to its ordered pattern list. Patterns
// within a label go from specific to general; across labels, longer matches
// at the same position win.
var labelPatterns = []struct {
	label    string
	patterns []*regexp.Regexp
}{
	{"DATE", []*regexp.Regexp{
		regexp.MustCompile(`\d{4}年\d{1,2}月\d{1,2}日`),
		regexp.MustCompile(`\d{4}[-/]\d{1,2}[-/]\d{1,2}`),
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
		regexp.MustCompile(`(?i)(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}`),
	}},
	{"TIME", []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?`),
		regexp.MustCompile(`\d{1,2}[时点]\d{1,2}分`),
	}},
	{"MONEY", []*regexp.Regexp{
		regexp.MustCompile(`(?:RMB|￥|¥|\$|€|£)\s*[\d,]+(?:\.\d{1,2})?`),
		regexp.MustCompile(`[\d,]+(?:\.\d{1,2})?\s*(?:元|美元|欧元|人民币)`),
	}},
	// CJK runs have no \b, so the name classes exclude whitespace,
	// punctuation, and common particles to keep matches from swallowing the
	// preceding prose.
	{"ORG", []*regexp.Regexp{
		regexp.MustCompile(`[^\s\d\p{P}的了于由与和在是年月日]{2,18}(?:股份有限公司|有限公司|有限责任公司|集团|研究院|大学|银行)`),
		regexp.MustCompile(`[A-Z][A-Za-z0-9&.'\s]{1,30}?(?:Inc\.?|Corp\.?|Corporation|Ltd\.?|LLC|Group|Bank|University)`),
	}},
	{"PERSON", []*regexp.Regexp{
		regexp.MustCompile(`[^\s\dA-Za-z\p{P}的了于由与和在是]{1,4}(?:先生|女士|经理|主任|总监|律师)`),
		regexp.MustCompile(`(?:Dear|Attn|Mr\.|Ms\.|Dr\.)\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?`),
		regexp.MustCompile(`(?:签字|经办人|联系人|负责人)[:：]?\s*[\x{4e00}-\x{9fff}]{2,4}`),
	}},
	{"LOC", []*regexp.Regexp{
		regexp.MustCompile(`[^\s\dA-Za-z\p{P}的了于由与和在是]{1,8}(?:省|市|自治区|特别行政区)`),
	}},
	{"GPE", []*regexp.Regexp{
		regexp.MustCompile(`\b(?:China|Beijing|Shanghai|Shenzhen|Hong Kong|United States|New York|London|Singapore|Tokyo)\b`),
	}},
}

// personPrefixes are keyword anchors stripped from PERSON matches so only the
// name itself is reported.
var personPrefix = regexp.MustCompile(`^(?:Dear|Attn|Mr\.|Ms\.|Dr\.|签字|经办人|联系人|负责人)[:：]?\s*`)

// personSuffix strips honorifics so "张伟先生" reports as "张伟".
var personSuffix = regexp.MustCompile(`(?:先生|女士|经理|主任|总监|律师)$`)

// RuleRecognizer finds entities with regular-expression rules. It needs no
// external service and is safe for concurrent use.
type RuleRecognizer struct {
	logger *slog.Logger
}

// NewRuleRecognizer builds the built-in rule backend.
func NewRuleRecognizer(logger *slog.Logger) *RuleRecognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleRecognizer{logger: logger}
}

type span struct {
	start, end int
	ent        extract.Entity
}

// FindEntities scans text with every label's patterns and returns the
// surviving matches sorted by position. Overlapping spans are dropped in
// favor of the earliest match; at equal start the longer one wins.
func (r *RuleRecognizer) FindEntities(text string) []extract.Entity {
	if text == "" || len(text) > maxInputBytes {
		return nil
	}

	var spans []span
	for _, lp := range labelPatterns {
		for _, re := range lp.patterns {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				val := strings.TrimSpace(text[loc[0]:loc[1]])
				if lp.label == "PERSON" {
					val = personSuffix.ReplaceAllString(personPrefix.ReplaceAllString(val, ""), "")
				}
				if val == "" {
					continue
				}
				spans = append(spans, span{
					start: loc[0],
					end:   loc[1],
					ent:   extract.Entity{Text: val, Label: lp.label},
				})
			}
		}
	}

	spans = resolveOverlaps(spans)
	out := make([]extract.Entity, 0, len(spans))
	for _, s := range spans {
		out = append(out, s.ent)
	}
	return out
}

func resolveOverlaps(spans []span) []span {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end-spans[i].start > spans[j].end-spans[j].start
	})
	var kept []span
	for _, s := range spans {
		if n := len(kept); n > 0 && s.start < kept[n-1].end {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}
