// Package visaparser is the denylist parser for emails claiming to come
// from Visa. Visa is a network, not an issuer, and never emails
// cardholders about individual transactions; its trusted-domain set is
// deliberately empty so the gate can never pass and any mail claiming the
// brand is rejected as spoofed.
package visaparser

import (
	"time"

	"github.com/HiraG-62/maillet/internal/cardparser"
	"github.com/HiraG-62/maillet/internal/models"
)

var (
	// No trusted domains: denylist by omission.
	trustedDomains  []string
	subjectKeywords = []string{"Visaカードご利用", "VISAカード利用"}
)

// Parser implements models.Parser for the Visa denylist entry.
type Parser struct {
	loc *time.Location
}

// New creates the Visa denylist parser.
func New(loc *time.Location) *Parser {
	return &Parser{loc: loc}
}

// CompanyName returns the issuer identifier.
func (p *Parser) CompanyName() string {
	return models.CompanyVisa
}

// CanParse always returns false: with no trusted domains the gate cannot
// pass regardless of subject.
func (p *Parser) CanParse(from, subject string) bool {
	return cardparser.CanParse(from, subject, trustedDomains, subjectKeywords)
}

// ExtractAmount falls through to the generic amount patterns.
func (p *Parser) ExtractAmount(body string) (int64, bool) {
	return cardparser.ExtractAmount(body, nil)
}

// ExtractTransactionDate falls through to the generic date patterns.
func (p *Parser) ExtractTransactionDate(body string) (time.Time, bool) {
	return cardparser.ExtractDate(body, nil, p.loc)
}

// ExtractMerchant extracts the merchant name, or "" when absent.
func (p *Parser) ExtractMerchant(body string) string {
	return cardparser.ExtractMerchant(body)
}

// ExtractIsReturn always reports false.
func (p *Parser) ExtractIsReturn(body string) bool {
	return false
}

// Parse always returns nil: the trust gate rejects everything.
func (p *Parser) Parse(body, from, subject string) *models.ParsedTransaction {
	if !p.CanParse(from, subject) {
		return nil
	}
	// Unreachable while the trusted-domain set is empty.
	return nil
}
