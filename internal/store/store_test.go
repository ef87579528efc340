package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HiraG-62/maillet/internal/logging"
	"github.com/HiraG-62/maillet/internal/models"
	"github.com/HiraG-62/maillet/internal/parsererror"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "maillet.db"), logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("closing store: %v", err)
		}
	})
	require.NoError(t, s.Init(context.Background()))
	return s
}

func sampleTransaction(messageID string) *models.PersistedTransaction {
	return &models.PersistedTransaction{
		CardCompany:     models.CompanySMBC,
		Amount:          5400,
		Merchant:        "Amazon.co.jp",
		TransactionDate: time.Date(2025, 8, 1, 12, 34, 0, 0, time.UTC),
		EmailSubject:    "ご利用のお知らせ",
		EmailFrom:       "statement@vpass.ne.jp",
		GmailMessageID:  messageID,
		IsVerified:      true,
	}
}

func TestInsertTransaction(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tx := sampleTransaction("msg-001")
	require.NoError(t, s.InsertTransaction(ctx, tx))
	assert.NotZero(t, tx.ID)
	assert.False(t, tx.CreatedAt.IsZero())

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInsertTransaction_Duplicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertTransaction(ctx, sampleTransaction("msg-001")))

	// Same message ID with different field values still counts as a
	// duplicate; the existing row is untouched.
	dup := sampleTransaction("msg-001")
	dup.Amount = 9999
	err := s.InsertTransaction(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateMessage)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(5400), rows[0].Amount)
}

func TestInsertTransaction_ValidationGuards(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	oversized := sampleTransaction("msg-002")
	oversized.Amount = models.MaxAmount + 1
	err := s.InsertTransaction(ctx, oversized)
	var verr *parsererror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, models.CompanySMBC, verr.Issuer)

	tooLong := sampleTransaction("msg-003")
	tooLong.Merchant = strings.Repeat("very long merchant name ", 50)
	err = s.InsertTransaction(ctx, tooLong)
	require.ErrorAs(t, err, &verr)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestInsertTransaction_MerchantLengthIsCountedInRunes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// A multi-byte merchant at exactly the cap is valid even though its
	// byte length is three times the rune count.
	atCap := sampleTransaction("msg-cjk-at-cap")
	atCap.Merchant = strings.Repeat("あ", models.MaxMerchantLength)
	require.NoError(t, s.InsertTransaction(ctx, atCap))

	overCap := sampleTransaction("msg-cjk-over-cap")
	overCap.Merchant = strings.Repeat("あ", models.MaxMerchantLength+1)
	var verr *parsererror.ValidationError
	require.ErrorAs(t, s.InsertTransaction(ctx, overCap), &verr)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExistingMessageIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ids, err := s.ExistingMessageIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, s.InsertTransaction(ctx, sampleTransaction("msg-001")))
	require.NoError(t, s.InsertTransaction(ctx, sampleTransaction("msg-002")))

	ids, err = s.ExistingMessageIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	_, ok := ids["msg-001"]
	assert.True(t, ok)
	_, ok = ids["msg-003"]
	assert.False(t, ok)
}

func TestListTransactions_OrderedByDate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	later := sampleTransaction("msg-later")
	later.TransactionDate = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	earlier := sampleTransaction("msg-earlier")
	earlier.TransactionDate = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertTransaction(ctx, later))
	require.NoError(t, s.InsertTransaction(ctx, earlier))

	rows, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "msg-earlier", rows[0].GmailMessageID)
	assert.Equal(t, "msg-later", rows[1].GmailMessageID)
	assert.True(t, rows[0].IsVerified)
	assert.True(t, earlier.TransactionDate.Equal(rows[0].TransactionDate))
}

func TestInit_Idempotent(t *testing.T) {
	s := openTestStore(t)
	// Init is called again on every sync run.
	assert.NoError(t, s.Init(context.Background()))
}
