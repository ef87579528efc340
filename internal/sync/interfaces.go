// Package sync drives one end-to-end synchronization run: search the
// mailbox, diff against the local store, fetch and parse candidates in
// rate-limited batches, and persist new transactions.
package sync

import (
	"context"

	"github.com/HiraG-62/maillet/internal/models"
)

// MailClient is the remote mail API surface the orchestrator needs.
// internal/gmailclient provides the production implementation.
type MailClient interface {
	// Search returns the IDs of messages matching the query.
	Search(ctx context.Context, query string, maxResults int64) ([]string, error)

	// Metadata returns only the Subject and From headers of a message.
	Metadata(ctx context.Context, id string) (subject, from string, err error)

	// FullBody returns the extracted plain-text body of a message.
	FullBody(ctx context.Context, id string) (string, error)
}

// TransactionStore is the slice of the local store the orchestrator
// needs.
type TransactionStore interface {
	Init(ctx context.Context) error
	ExistingMessageIDs(ctx context.Context) (map[string]struct{}, error)
	InsertTransaction(ctx context.Context, tx *models.PersistedTransaction) error
}

// Registry dispatches emails to issuer parsers.
type Registry interface {
	DetectCardCompany(subject, from string) string
	ParseEmail(from, subject, body string) *models.ParsedTransaction

	// ExplainFailure describes which extractions failed, for diagnostics.
	ExplainFailure(from, subject, body string) string
}

// ProgressFunc receives transient progress snapshots. It is called
// synchronously from the orchestrator goroutine, zero or more times.
type ProgressFunc func(models.SyncProgress)
