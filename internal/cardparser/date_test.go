package cardparser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokyo = time.FixedZone("JST", 9*60*60)

func TestMakeDate(t *testing.T) {
	got, ok := MakeDate(2025, 8, 1, 12, 34, tokyo)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 8, 1, 12, 34, 0, 0, tokyo), got)

	// Components that do not form a real calendar date are rejected, not
	// normalized into March.
	_, ok = MakeDate(2025, 2, 30, 0, 0, tokyo)
	assert.False(t, ok)

	_, ok = MakeDate(2025, 13, 1, 0, 0, tokyo)
	assert.False(t, ok)
}

func TestExtractDate_Formats(t *testing.T) {
	tests := []struct {
		name string
		body string
		want time.Time
	}{
		{
			"slash with time",
			"ご利用日時：2025/08/01 12:34",
			time.Date(2025, 8, 1, 12, 34, 0, 0, tokyo),
		},
		{
			"hyphen date only",
			"ご利用日 2025-08-01",
			time.Date(2025, 8, 1, 0, 0, 0, 0, tokyo),
		},
		{
			"kanji date",
			"2025年8月1日にご利用がありました",
			time.Date(2025, 8, 1, 0, 0, 0, 0, tokyo),
		},
		{
			"kanji date with kanji time",
			"2025年8月1日 12時34分",
			time.Date(2025, 8, 1, 12, 34, 0, 0, tokyo),
		},
		{
			"full-width digits",
			"ご利用日時：２０２５/０８/０１ １２:３４",
			time.Date(2025, 8, 1, 12, 34, 0, 0, tokyo),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDate(tt.body, nil, tokyo)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestExtractDate_NoDate(t *testing.T) {
	_, ok := ExtractDate("日付の記載がない本文", nil, tokyo)
	assert.False(t, ok)
}

func TestExtractDate_ImpossibleDateSkipped(t *testing.T) {
	// The first match is an impossible date; extraction moves on to the
	// next rather than failing outright.
	body := "2025/02/30 は存在しない日付。実際の利用日は 2025/03/01 です。"
	got, ok := ExtractDate(body, nil, tokyo)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, tokyo), got)
}
