package extract

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiscoverer(rec EntityRecognizer) *discoverer {
	return &discoverer{entities: newEntityAdapter(rec), logger: slog.Default()}
}

func TestMineKeyValues(t *testing.T) {
	d := newTestDiscoverer(nil)
	text := "付款 ￥1,250.00 已收，另 $300 待付。\n开票方：北京恒远科技有限公司\n日期：2024年3月15日"
	fields := d.mineKeyValues(text)

	byName := map[string][]string{}
	for _, f := range fields {
		byName[f.Name] = append(byName[f.Name], *f.Value)
	}
	assert.ElementsMatch(t, []string{"1,250.00", "300"}, byName["Amount"])
	assert.Len(t, byName["Date"], 1)
	require.Len(t, byName["Company"], 1)
	assert.Contains(t, byName["Company"][0], "有限公司")
}

func TestMineKeyValuesDeduplicates(t *testing.T) {
	d := newTestDiscoverer(nil)
	fields := d.mineKeyValues("￥500 paid, then ￥500 again")
	assert.Len(t, fields, 1)
}

func TestMainTopicKeywordLine(t *testing.T) {
	d := newTestDiscoverer(nil)
	text := "关于2024年度设备采购的通知文件\n正文从这里开始。"
	f, ok := d.mainTopic(text)
	require.True(t, ok)
	assert.Equal(t, "Main Topic", f.Name)
	assert.Equal(t, float64(85), f.Confidence)
	assert.Contains(t, *f.Value, "通知")
}

func TestMainTopicFirstSentenceFallback(t *testing.T) {
	d := newTestDiscoverer(nil)
	text := "The quarterly review meeting covered staffing and deadlines in detail.\nmore text follows here"
	f, ok := d.mainTopic(text)
	require.True(t, ok)
	assert.Equal(t, float64(75), f.Confidence)
}

func TestSectionsCappedAtThree(t *testing.T) {
	d := newTestDiscoverer(nil)
	text := "一、项目背景说明\n二、实施方案细节\n1. first item here\n2. second item here\n3. third item here\n"
	fields := d.sections(text)
	require.Len(t, fields, 3)
	// Chinese markers carry higher confidence and sort first.
	assert.Equal(t, float64(80), fields[0].Confidence)
	assert.Equal(t, float64(80), fields[1].Confidence)
	assert.Equal(t, float64(75), fields[2].Confidence)
	for _, f := range fields {
		assert.True(t, strings.HasPrefix(f.Name, "Section "))
	}
}

func TestKeyConceptsRequiresRecognizer(t *testing.T) {
	d := newTestDiscoverer(nil)
	assert.Empty(t, d.keyConcepts("Acme Acme Acme appears often in this text"))
}

func TestKeyConceptsFrequencyRanked(t *testing.T) {
	rec := fakeRecognizer{entities: []Entity{
		{Text: "Acme", Label: "ORG"},
		{Text: "Acme", Label: "ORG"},
		{Text: "Acme", Label: "ORG"},
		{Text: "Bob", Label: "PERSON"},
		{Text: "ignored", Label: "CARDINAL"},
	}}
	d := newTestDiscoverer(rec)
	fields := d.keyConcepts("plain text")
	require.GreaterOrEqual(t, len(fields), 2)
	assert.Equal(t, "Acme", *fields[0].Value)
	assert.Equal(t, float64(85), fields[0].Confidence) // 70 + 5*3
	assert.Equal(t, "Bob", *fields[1].Value)
	assert.Equal(t, float64(75), fields[1].Confidence)
}

func TestKeyConceptsConfidenceCap(t *testing.T) {
	var ents []Entity
	for i := 0; i < 10; i++ {
		ents = append(ents, Entity{Text: "Acme", Label: "ORG"})
	}
	d := newTestDiscoverer(fakeRecognizer{entities: ents})
	fields := d.keyConcepts("x")
	require.NotEmpty(t, fields)
	assert.Equal(t, float64(90), fields[0].Confidence)
}

func TestDiscoverCapAndOrdering(t *testing.T) {
	d := newTestDiscoverer(nil)
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteString("付款 ￥1,20")
		b.WriteByte(byte('0' + i))
		b.WriteString(".00 于 2024年3月1")
		b.WriteByte(byte('0' + i))
		b.WriteString("日\n")
	}
	fields := d.discover(b.String())

	assert.LessOrEqual(t, len(fields), adaptiveMaxFields)
	for i := 1; i < len(fields); i++ {
		assert.GreaterOrEqual(t, fields[i-1].Confidence, fields[i].Confidence,
			"adaptive fields must be sorted by non-increasing confidence")
	}
	for _, f := range fields {
		require.NotNil(t, f.Value)
		assert.NotEmpty(t, *f.Value)
		assert.GreaterOrEqual(t, f.Confidence, float64(adaptiveMinConfidence))
	}
}
