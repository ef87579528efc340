// Package parser wires the issuer parsers into a registry that dispatches
// an email to the parser whose trust and subject gates accept it.
package parser

import (
	"errors"
	"strings"
	"time"

	"github.com/HiraG-62/maillet/internal/jcbparser"
	"github.com/HiraG-62/maillet/internal/models"
	"github.com/HiraG-62/maillet/internal/mufgparser"
	"github.com/HiraG-62/maillet/internal/parsererror"
	"github.com/HiraG-62/maillet/internal/rakutenparser"
	"github.com/HiraG-62/maillet/internal/smbcparser"
	"github.com/HiraG-62/maillet/internal/visaparser"
)

// Registry holds the issuer parsers in a fixed iteration order. The set
// is closed and small; there is no dynamic registration. Trusted-domain
// sets are disjoint across issuers, so the order has no observable effect
// on which parser wins, but it is pinned and covered by tests anyway.
type Registry struct {
	parsers []models.Parser
}

// NewRegistry builds the registry with all issuer parsers interpreting
// email dates in loc.
func NewRegistry(loc *time.Location) *Registry {
	return &Registry{
		parsers: []models.Parser{
			smbcparser.New(loc),
			jcbparser.New(loc),
			rakutenparser.New(loc),
			mufgparser.New(loc),
			visaparser.New(loc),
		},
	}
}

// Parsers returns the registered parsers in iteration order.
func (r *Registry) Parsers() []models.Parser {
	return r.parsers
}

// DetectCardCompany returns the issuer whose trust and subject gates both
// pass, or "" when no issuer recognizes the email. Only headers are
// needed, so this is used as a cheap pre-filter before fetching a body.
func (r *Registry) DetectCardCompany(subject, from string) string {
	for _, p := range r.parsers {
		if p.CanParse(from, subject) {
			return p.CompanyName()
		}
	}
	return ""
}

// ParseEmail dispatches to the first parser whose gate passes and runs
// full field extraction. It returns nil when no parser accepts the email
// or extraction fails.
func (r *Registry) ParseEmail(from, subject, body string) *models.ParsedTransaction {
	for _, p := range r.parsers {
		if p.CanParse(from, subject) {
			return p.Parse(body, from, subject)
		}
	}
	return nil
}

var errNoMatch = errors.New("no match in body")

// ExplainFailure reports which extractions failed for the parser that
// accepted the email, for use in sync diagnostics. Returns "" when no
// parser accepted the email or nothing failed.
func (r *Registry) ExplainFailure(from, subject, body string) string {
	for _, p := range r.parsers {
		if !p.CanParse(from, subject) {
			continue
		}
		var failures []string
		if _, ok := p.ExtractAmount(body); !ok {
			perr := &parsererror.ParseError{Issuer: p.CompanyName(), Field: "amount", Err: errNoMatch}
			failures = append(failures, perr.Error())
		}
		if _, ok := p.ExtractTransactionDate(body); !ok {
			perr := &parsererror.ParseError{Issuer: p.CompanyName(), Field: "transaction_date", Err: errNoMatch}
			failures = append(failures, perr.Error())
		}
		return strings.Join(failures, "; ")
	}
	return ""
}
