package cardparser

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HiraG-62/maillet/internal/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
		ok    bool
	}{
		{"plain", "5400", 5400, true},
		{"comma separated", "1,234", 1234, true},
		{"full-width digits", "５４００", 5400, true},
		{"full-width with comma", "５，４００", 5400, true},
		{"trailing yen", "5,400円", 5400, true},
		{"negative refund", "-1,200", -1200, true},
		{"at upper bound", "2147483647", models.MaxAmount, true},
		{"above upper bound", "2147483648", 0, false},
		{"below lower bound", "-2147483648", 0, false},
		{"empty", "", 0, false},
		{"garbage", "abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractAmount_WidthInvariance(t *testing.T) {
	pattern := regexp.MustCompile(`ご利用金額\s*:?\s*(-?[0-9][0-9,]*)\s*円?`)

	halfWidth := "ご利用金額：5,400円"
	fullWidth := "ご利用金額：５，４００円"

	gotHalf, ok := ExtractAmount(halfWidth, pattern)
	assert.True(t, ok)
	gotFull, ok2 := ExtractAmount(fullWidth, pattern)
	assert.True(t, ok2)
	assert.Equal(t, gotHalf, gotFull)
	assert.Equal(t, int64(5400), gotFull)
}

func TestExtractAmount_GenericFallback(t *testing.T) {
	got, ok := ExtractAmount("お支払いは 980円 です", nil)
	assert.True(t, ok)
	assert.Equal(t, int64(980), got)

	got, ok = ExtractAmount("合計 ¥2,480", nil)
	assert.True(t, ok)
	assert.Equal(t, int64(2480), got)
}

func TestExtractAmount_NoAmount(t *testing.T) {
	_, ok := ExtractAmount("金額の記載がない本文", nil)
	assert.False(t, ok)
}

func TestExtractAmount_OversizedRejected(t *testing.T) {
	_, ok := ExtractAmount("ご利用金額：9,999,999,999,999円", regexp.MustCompile(`ご利用金額\s*:?\s*(-?[0-9][0-9,]*)\s*円`))
	assert.False(t, ok)
}
