package cardparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HiraG-62/maillet/internal/models"
)

func TestExtractMerchant(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"half-width colon", "ご利用先:Amazon.co.jp\n以上", "Amazon.co.jp"},
		{"full-width colon", "ご利用先：セブンイレブン\n", "セブンイレブン"},
		{"whitespace separator", "ご利用先 スターバックス\n", "スターバックス"},
		{"full-width space separator", "加盟店　ローソン", "ローソン"},
		{"alternate label", "店舗名：ファミリーマート", "ファミリーマート"},
		{"no label", "本文に店舗情報なし", ""},
		{"label with empty value", "ご利用先：\n次の行", ""},
		{"inner whitespace collapsed", "ご利用先：JR  東日本", "JR 東日本"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMerchant(tt.body))
		})
	}
}

func TestCleanMerchant_CapsLength(t *testing.T) {
	long := strings.Repeat("あ", models.MaxMerchantLength+50)
	cleaned := CleanMerchant(long)
	assert.Equal(t, models.MaxMerchantLength, len([]rune(cleaned)))
}

func TestContainsAny(t *testing.T) {
	markers := []string{"ご返金", "返品"}

	assert.True(t, ContainsAny("ご返金のお知らせです", markers))
	assert.True(t, ContainsAny("商品の返品を受け付けました", markers))
	assert.False(t, ContainsAny("ご利用のお知らせです", markers))
	assert.False(t, ContainsAny("anything", nil))
}
