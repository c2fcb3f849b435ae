package ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleRecognizerMixedChineseText(t *testing.T) {
	r := NewRuleRecognizer(nil)
	text := "合同于2024年3月15日签署。甲方：北京恒远科技有限公司，经办人：张伟先生，地址位于广东省深圳市。金额：￥1,250.00"
	ents := r.FindEntities(text)

	byLabel := map[string][]string{}
	for _, e := range ents {
		byLabel[e.Label] = append(byLabel[e.Label], e.Text)
	}

	assert.Equal(t, []string{"2024年3月15日"}, byLabel["DATE"])
	assert.Equal(t, []string{"北京恒远科技有限公司"}, byLabel["ORG"])
	assert.Equal(t, []string{"张伟"}, byLabel["PERSON"])
	require.Len(t, byLabel["LOC"], 1)
	assert.Contains(t, byLabel["LOC"][0], "深圳市")
	assert.Equal(t, []string{"￥1,250.00"}, byLabel["MONEY"])
}

func TestRuleRecognizerEnglishText(t *testing.T) {
	r := NewRuleRecognizer(nil)
	text := "Dear John Smith, Acme Corp will pay $3,000.50 on March 15, 2024 in Beijing."
	ents := r.FindEntities(text)

	byLabel := map[string]string{}
	for _, e := range ents {
		byLabel[e.Label] = e.Text
	}
	assert.Equal(t, "John Smith", byLabel["PERSON"])
	assert.Equal(t, "Acme Corp", byLabel["ORG"])
	assert.Equal(t, "$3,000.50", byLabel["MONEY"])
	assert.Equal(t, "March 15, 2024", byLabel["DATE"])
	assert.Equal(t, "Beijing", byLabel["GPE"])
}

func TestRuleRecognizerSortedByPosition(t *testing.T) {
	r := NewRuleRecognizer(nil)
	ents := r.FindEntities("张伟先生 于 2024-03-15 14:30 到访")
	require.Len(t, ents, 3)
	assert.Equal(t, "PERSON", ents[0].Label)
	assert.Equal(t, "DATE", ents[1].Label)
	assert.Equal(t, "TIME", ents[2].Label)
}

func TestRuleRecognizerOverlapKeepsEarliest(t *testing.T) {
	r := NewRuleRecognizer(nil)
	// The currency-symbol span and the 元-suffixed span overlap; only the
	// earlier one survives.
	ents := r.FindEntities("￥1,250.00元")
	require.Len(t, ents, 1)
	assert.Equal(t, "MONEY", ents[0].Label)
	assert.Equal(t, "￥1,250.00", ents[0].Text)
}

func TestRuleRecognizerEmptyInput(t *testing.T) {
	r := NewRuleRecognizer(nil)
	assert.Nil(t, r.FindEntities(""))
}
