// Package store persists card transactions in a local SQLite database.
// The pipeline is append-mostly: rows are inserted keyed by a unique
// Gmail message ID and never deleted here; category and memo edits happen
// elsewhere.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite"

	"github.com/HiraG-62/maillet/internal/logging"
	"github.com/HiraG-62/maillet/internal/models"
	"github.com/HiraG-62/maillet/internal/parsererror"
)

// ErrDuplicateMessage is returned by InsertTransaction when a row with
// the same Gmail message ID already exists. The unique constraint is the
// final dedup safety net behind the orchestrator's diff sync.
var ErrDuplicateMessage = errors.New("store: transaction with this message id already exists")

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	card_company TEXT NOT NULL,
	amount INTEGER NOT NULL,
	merchant TEXT NOT NULL DEFAULT '',
	transaction_date TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	email_subject TEXT NOT NULL DEFAULT '',
	email_from TEXT NOT NULL DEFAULT '',
	gmail_message_id TEXT NOT NULL UNIQUE,
	is_verified INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
)`

// Store wraps the SQLite database holding persisted transactions.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (or creates) the SQLite database at path. Call Init before
// first use to ensure the schema exists.
func Open(path string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Init creates the transactions table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Query runs an arbitrary SELECT against the store. Exposed for
// collaborators outside this pipeline that consume the store through a
// query/execute contract.
func (s *Store) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}

// Execute runs an arbitrary statement and returns the affected row count
// and last insert id.
func (s *Store) Execute(ctx context.Context, query string, args ...interface{}) (changes, lastInsertID int64, err error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, 0, err
	}
	changes, err = res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}
	lastInsertID, err = res.LastInsertId()
	if err != nil {
		return changes, 0, err
	}
	return changes, lastInsertID, nil
}

// InsertTransaction inserts a new transaction row. It returns
// ErrDuplicateMessage when the Gmail message ID is already present,
// leaving the existing row untouched.
func (s *Store) InsertTransaction(ctx context.Context, tx *models.PersistedTransaction) error {
	if tx.Amount > models.MaxAmount || tx.Amount < -models.MaxAmount {
		return &parsererror.ValidationError{Issuer: tx.CardCompany, Reason: "amount out of range"}
	}
	if utf8.RuneCountInString(tx.Merchant) > models.MaxMerchantLength {
		return &parsererror.ValidationError{Issuer: tx.CardCompany, Reason: "merchant name too long"}
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO transactions
			(card_company, amount, merchant, transaction_date, description,
			 category, email_subject, email_from, gmail_message_id,
			 is_verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.CardCompany, tx.Amount, tx.Merchant,
		tx.TransactionDate.Format(time.RFC3339), tx.Description,
		tx.Category, tx.EmailSubject, tx.EmailFrom, tx.GmailMessageID,
		boolToInt(tx.IsVerified), tx.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	changes, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	if changes == 0 {
		return ErrDuplicateMessage
	}
	id, err := res.LastInsertId()
	if err == nil {
		tx.ID = id
	}
	s.logger.Debug("inserted transaction",
		logging.Field{Key: logging.FieldMessageID, Value: tx.GmailMessageID},
		logging.Field{Key: logging.FieldIssuer, Value: tx.CardCompany},
		logging.Field{Key: logging.FieldAmount, Value: tx.Amount})
	return nil
}

// ExistingMessageIDs returns the set of Gmail message IDs already
// persisted. The orchestrator uses it for diff sync: candidates already
// present are skipped before any further network cost.
func (s *Store) ExistingMessageIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT gmail_message_id FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("query message ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan message id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// ListTransactions returns the full persisted history ordered by
// transaction date. The subscription detector consumes this on demand.
func (s *Store) ListTransactions(ctx context.Context) ([]models.PersistedTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, card_company, amount, merchant, transaction_date,
		       description, category, email_subject, email_from,
		       gmail_message_id, is_verified, created_at
		FROM transactions
		ORDER BY transaction_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []models.PersistedTransaction
	for rows.Next() {
		var tx models.PersistedTransaction
		var txDate, createdAt string
		var verified int
		if err := rows.Scan(&tx.ID, &tx.CardCompany, &tx.Amount,
			&tx.Merchant, &txDate, &tx.Description, &tx.Category,
			&tx.EmailSubject, &tx.EmailFrom, &tx.GmailMessageID,
			&verified, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.IsVerified = verified != 0
		if tx.TransactionDate, err = time.Parse(time.RFC3339, txDate); err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", txDate, err)
		}
		if tx.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// Count returns the number of persisted transactions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n)
	return n, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
