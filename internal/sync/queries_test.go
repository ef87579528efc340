package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuery(t *testing.T) {
	after := time.Date(2025, 8, 1, 0, 0, 0, 0, tokyo)
	before := time.Date(2025, 9, 1, 0, 0, 0, 0, tokyo)

	got := buildQuery("ご利用のお知らせ", after, before)
	assert.Equal(t, "subject:(ご利用のお知らせ) after:2025/08/01 before:2025/09/01", got)
}

func TestDefaultRange(t *testing.T) {
	now := time.Date(2025, 8, 31, 23, 50, 0, 0, tokyo)
	after, before := defaultRange(now, tokyo)

	assert.True(t, time.Date(2025, 8, 1, 0, 0, 0, 0, tokyo).Equal(after))
	assert.True(t, time.Date(2025, 9, 1, 0, 0, 0, 0, tokyo).Equal(before))
}

func TestDefaultRange_YearBoundary(t *testing.T) {
	now := time.Date(2025, 12, 15, 12, 0, 0, 0, tokyo)
	after, before := defaultRange(now, tokyo)

	assert.True(t, time.Date(2025, 12, 1, 0, 0, 0, 0, tokyo).Equal(after))
	assert.True(t, time.Date(2026, 1, 1, 0, 0, 0, 0, tokyo).Equal(before))
}

func TestDefaultRange_ConvertsToLocation(t *testing.T) {
	// 2025-08-31 20:00 UTC is already 2025-09-01 05:00 in Tokyo; the
	// range must follow the issuer timezone, not the instant's zone.
	now := time.Date(2025, 8, 31, 20, 0, 0, 0, time.UTC)
	after, _ := defaultRange(now, tokyo)
	assert.True(t, time.Date(2025, 9, 1, 0, 0, 0, 0, tokyo).Equal(after))
}

func TestSubjectQueries_CoverAllIssuerSubjects(t *testing.T) {
	assert.Len(t, subjectQueries, 3)
	assert.Contains(t, subjectQueries, "ご利用のお知らせ")
	assert.Contains(t, subjectQueries, "カードご利用通知")
	assert.Contains(t, subjectQueries, "カード利用のお知らせ")
}
