package visaparser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/HiraG-62/maillet/internal/models"
)

var tokyo = time.FixedZone("JST", 9*60*60)

func TestCanParse_AlwaysRejects(t *testing.T) {
	p := New(tokyo)

	// With no trusted domains the gate can never pass, whatever the
	// sender claims.
	froms := []string{
		"noreply@visa.com",
		"notice@visa.co.jp",
		"anything@example.com",
	}
	for _, from := range froms {
		assert.False(t, p.CanParse(from, "Visaカードご利用のお知らせ"), "from=%s", from)
	}
}

func TestParse_AlwaysNil(t *testing.T) {
	p := New(tokyo)
	body := "ご利用日時：2025/08/01 12:34\nご利用金額：5,400円"
	assert.Nil(t, p.Parse(body, "noreply@visa.com", "Visaカードご利用のお知らせ"))
}

func TestCompanyName(t *testing.T) {
	assert.Equal(t, models.CompanyVisa, New(tokyo).CompanyName())
}

func TestExtractors_StillUsableStandalone(t *testing.T) {
	// Field extraction falls through to the generic patterns even though
	// the gate rejects everything.
	p := New(tokyo)
	amount, ok := p.ExtractAmount("ご利用金額：5,400円")
	assert.True(t, ok)
	assert.Equal(t, int64(5400), amount)
	assert.False(t, p.ExtractIsReturn("ご返金"))
}
