// Package models defines the core data structures shared across the
// application: parsed and persisted card transactions, sync bookkeeping
// types, and the parser capability interface.
package models

import "time"

// ParsedTransaction is the result of extracting fields from a single
// card-usage notification email. It is transient: the orchestrator either
// persists it or discards it after one parse attempt.
type ParsedTransaction struct {
	// Amount is the transaction amount in yen. Negative for returns.
	Amount int64

	// TransactionDate is the wall-clock date/time found in the email body,
	// interpreted in the configured issuer timezone.
	TransactionDate time.Time

	// Merchant is the merchant name as extracted from the body. May be
	// empty when the issuer omits it or extraction found nothing usable.
	Merchant string

	// CardCompany identifies the issuer whose parser produced this record.
	CardCompany string

	// RawText is the plain-text email body the fields were extracted from.
	RawText string

	// IsReturn reports whether the notification describes a refund.
	// Only some issuers report returns at all.
	IsReturn bool
}

// PersistedTransaction is a transaction row in the local store.
type PersistedTransaction struct {
	ID              int64
	CardCompany     string
	Amount          int64
	Merchant        string
	TransactionDate time.Time
	Description     string
	Category        string
	EmailSubject    string
	EmailFrom       string

	// GmailMessageID is unique across the table and is the dedup key for
	// idempotent re-synchronization.
	GmailMessageID string

	IsVerified bool
	CreatedAt  time.Time
}
