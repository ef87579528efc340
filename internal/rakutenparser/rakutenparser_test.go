package rakutenparser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HiraG-62/maillet/internal/models"
)

var (
	tokyo   = time.FixedZone("JST", 9*60*60)
	from    = "info@mail.rakuten-card.co.jp"
	subject = "カード利用のお知らせ(本人ご利用分)"
)

const usageBody = `楽天カードをご利用いただきありがとうございます。

利用日: 2025/08/15
利用金額: 1,480円
ご利用先: 楽天ブックス`

func TestParse(t *testing.T) {
	p := New(tokyo)
	tx := p.Parse(usageBody, from, subject)
	require.NotNil(t, tx)

	assert.Equal(t, models.CompanyRakuten, tx.CardCompany)
	assert.Equal(t, int64(1480), tx.Amount)
	assert.Equal(t, "楽天ブックス", tx.Merchant)
	assert.True(t, time.Date(2025, 8, 15, 0, 0, 0, 0, tokyo).Equal(tx.TransactionDate))
	assert.False(t, tx.IsReturn)
}

func TestParse_FlashNotice(t *testing.T) {
	p := New(tokyo)
	tx := p.Parse(usageBody, from, "カード利用のお知らせ(速報版)")
	require.NotNil(t, tx)
	assert.Equal(t, models.CompanyRakuten, tx.CardCompany)
}

func TestParse_Refund(t *testing.T) {
	body := `ご返金のお知らせ
利用日: 2025/08/15
利用金額: -1,480円`

	p := New(tokyo)
	tx := p.Parse(body, from, subject)
	require.NotNil(t, tx)
	assert.Equal(t, int64(-1480), tx.Amount)
	assert.True(t, tx.IsReturn)
}

func TestParse_BareDomainTrusted(t *testing.T) {
	p := New(tokyo)
	assert.True(t, p.CanParse("info@rakuten-card.co.jp", subject))
}

func TestParse_SpoofedSenderRejected(t *testing.T) {
	p := New(tokyo)
	assert.Nil(t, p.Parse(usageBody, "fake@rakuten-card.co.jp.evil.net", subject))
}
