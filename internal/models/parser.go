package models

import "time"

// Parser is the capability interface implemented by every issuer email
// parser. Implementations are stateless apart from their configured
// timezone and are safe for concurrent use.
type Parser interface {
	// CompanyName returns the issuer identifier (one of the Company*
	// constants).
	CompanyName() string

	// CanParse reports whether this parser should handle an email with the
	// given From header and subject. It requires both a trusted sender
	// domain and a recognized subject keyword; the two gates are
	// independent and both mandatory.
	CanParse(from, subject string) bool

	// ExtractAmount extracts the transaction amount in yen from the body.
	// The second return value is false when no parseable amount is found
	// or the magnitude is implausibly large.
	ExtractAmount(body string) (int64, bool)

	// ExtractTransactionDate extracts the transaction date/time from the
	// body, interpreted in the parser's configured timezone.
	ExtractTransactionDate(body string) (time.Time, bool)

	// ExtractMerchant extracts the merchant name, or "" when the body
	// carries none.
	ExtractMerchant(body string) string

	// ExtractIsReturn reports whether the body describes a refund. Only
	// meaningful for issuers that send return notifications.
	ExtractIsReturn(body string) bool

	// Parse runs the trust gate and full field extraction. It returns nil
	// when the gate rejects the email or when either amount or date
	// extraction fails. A missing merchant is not a failure.
	Parse(body, from, subject string) *ParsedTransaction
}
