package mufgparser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HiraG-62/maillet/internal/models"
)

var (
	tokyo   = time.FixedZone("JST", 9*60*60)
	from    = "notice@cr.mufg.jp"
	subject = "ショッピングご利用のご連絡"
)

const usageBody = `カードのご利用がありました。

ご利用日時：2025/08/20 08:15
ご利用金額：12,800円
ご利用先：ビックカメラ`

func TestParse(t *testing.T) {
	p := New(tokyo)
	tx := p.Parse(usageBody, from, subject)
	require.NotNil(t, tx)

	assert.Equal(t, models.CompanyMUFG, tx.CardCompany)
	assert.Equal(t, int64(12800), tx.Amount)
	assert.Equal(t, "ビックカメラ", tx.Merchant)
	assert.True(t, time.Date(2025, 8, 20, 8, 15, 0, 0, tokyo).Equal(tx.TransactionDate))
	assert.False(t, tx.IsReturn)
}

func TestParse_NeverReturn(t *testing.T) {
	body := "返品\nご利用日時：2025/08/20 08:15\nご利用金額：12,800円"
	p := New(tokyo)
	tx := p.Parse(body, from, subject)
	require.NotNil(t, tx)
	assert.False(t, tx.IsReturn)
}

func TestParse_UsageSubject(t *testing.T) {
	p := New(tokyo)
	assert.True(t, p.CanParse("notice@mufg.jp", "【重要】ご利用のお知らせ"))
}

func TestParse_UntrustedSenderRejected(t *testing.T) {
	p := New(tokyo)
	assert.Nil(t, p.Parse(usageBody, "fake@mufg.jp.phish.example", subject))
}
