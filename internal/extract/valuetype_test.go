package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docgrid/doc-parser/constants"
)

func TestExtractByTypeAmount(t *testing.T) {
	tests := []struct {
		window string
		want   string
	}{
		{": USD 500 due", "500"},
		{"：￥1,250.00 含税", "1,250.00"},
		{"total due $3,000.50 by Friday", "3,000.50"},
		{": 无", "无"}, // falls back to segmentation
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractByType(tt.window, constants.HintAmount), "window %q", tt.window)
	}
}

func TestExtractByTypeDate(t *testing.T) {
	tests := []struct {
		window string
		want   string
	}{
		{"：2024年3月15日 开具", "2024年3月15日"},
		{": 2024-03-15", "2024-03-15"},
		{": 3/15/2024 noted", "3/15/2024"},
		{": March 15, 2024", "March 15, 2024"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractByType(tt.window, constants.HintDate), "window %q", tt.window)
	}
}

func TestExtractByTypeLicensePlate(t *testing.T) {
	// Plates must mix letters and digits.
	assert.Equal(t, "AB12345", extractByType(": AB12345", constants.HintLicensePlate))
	// The alphanumeric pattern is tried first, so the ASCII run wins even
	// when a province prefix precedes it.
	assert.Equal(t, "A12345", extractByType("：京A12345", constants.HintLicensePlate))
	// Pure digits are rejected as a plate and fall to segmentation.
	assert.Equal(t, "1234567", extractByType(": 1234567", constants.HintLicensePlate))
}

func TestExtractByTypeCompany(t *testing.T) {
	assert.Equal(t, "Acme Corp", extractByType(": Acme Corp handles shipping", constants.HintCompany))
	got := extractByType("：北京科技有限公司 负责", constants.HintCompany)
	assert.Contains(t, got, "有限公司")
}

func TestExtractByTypePhone(t *testing.T) {
	assert.Equal(t, "010-12345678", extractByType(": 010-12345678", constants.HintPhone))
	assert.Equal(t, "13812345678", extractByType("：13812345678 小王", constants.HintPhone))
}

func TestExtractByTypeNoHint(t *testing.T) {
	// First segment of plausible length wins.
	assert.Equal(t, "short answer", extractByType(": short answer. trailing prose", ""))
	// Over-long single segment truncates to 30 runes.
	long := ": " + "abcdefghij" + "abcdefghij" + "abcdefghij" + "abcdefghij" + "abcdefghij" + "abcdefghij"
	got := extractByType(long, "")
	assert.Len(t, []rune(got), 30)
}

func TestExtractByTypeEmptyWindow(t *testing.T) {
	assert.Equal(t, "", extractByType("", constants.HintAmount))
	assert.Equal(t, "", extractByType("：：  ", ""))
}

func TestRuneWindow(t *testing.T) {
	assert.Equal(t, "bcd", runeWindow("abcd", 1, 3))
	assert.Equal(t, "汉字", runeWindow("汉字", 0, 5))
	assert.Equal(t, "", runeWindow("ab", 5, 3))
}
