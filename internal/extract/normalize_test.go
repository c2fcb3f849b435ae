package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain thousands", "1,234.56", "1234.56"},
		{"european separators", "￥1.234,56", "1234.56"},
		{"dollar prefix", "$2,500", "2500.00"},
		{"comma decimal short", "12,5", "12.50"},
		{"comma thousands", "1,234", "1234.00"},
		{"yen glyph", "¥500", "500.00"},
		{"euro", "€ 99,99", "99.99"},
		{"integer", "42", "42.00"},
		{"unparseable passthrough", "abc", "abc"},
		{"empty", "", ""},
		{"internal spaces", "1 234.50", "1234.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAmount(tt.in))
		})
	}
}

func TestNormalizeAmountIdempotent(t *testing.T) {
	for _, in := range []string{"￥1.234,56", "1,234.56", "$99", "abc"} {
		once := NormalizeAmount(in)
		assert.Equal(t, once, NormalizeAmount(once), "re-normalizing %q drifted", in)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"chinese", "2024年3月5日", "2024-03-05"},
		{"us slash", "3/5/2024", "2024-03-05"},
		{"iso slash", "2024/03/05", "2024-03-05"},
		{"iso dash", "2024-3-5", "2024-03-05"},
		{"already normalized", "2024-03-05", "2024-03-05"},
		{"not a date", "not a date", "not a date"},
		{"padded", "  2024年12月31日  ", "2024-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.in))
		})
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	for _, in := range []string{"2024年3月5日", "3/5/2024", "junk"} {
		once := NormalizeDate(in)
		assert.Equal(t, once, NormalizeDate(once), "re-normalizing %q drifted", in)
	}
}
