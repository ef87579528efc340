// Package smbcparser parses 三井住友カード (SMBC) usage-notification emails.
// SMBC sends both regular usage alerts and 速報 (flash) notices, and
// reports refunds with a ご返金 marker and a minus amount.
package smbcparser

import (
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HiraG-62/maillet/internal/cardparser"
	"github.com/HiraG-62/maillet/internal/models"
)

var log = logrus.New()

// SetLogger allows setting a configured logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

var (
	trustedDomains  = []string{"vpass.ne.jp", "smbc-card.com"}
	subjectKeywords = []string{"ご利用のお知らせ", "ご利用速報", "カードご利用"}
	returnMarkers   = []string{"ご返金", "返品"}

	// Patterns run against a width-narrowed body: full-width digits,
	// colons and parentheses have already been folded to ASCII.
	amountPattern = regexp.MustCompile(
		`(?:ご利用金額|利用金額)(?:\([^)]*\))?\s*:?\s*(-?[0-9][0-9,]*)\s*円?`)
	datePattern = regexp.MustCompile(
		`(?:ご利用日時|ご利用日|利用日時)\s*:?\s*([0-9]{4})[/-]([0-9]{1,2})[/-]([0-9]{1,2})(?:\s+([0-9]{1,2}):([0-9]{2}))?`)
)

// Parser implements models.Parser for SMBC notification emails.
type Parser struct {
	loc *time.Location
}

// New creates an SMBC parser that interprets wall-clock dates in loc.
func New(loc *time.Location) *Parser {
	return &Parser{loc: loc}
}

// CompanyName returns the issuer identifier.
func (p *Parser) CompanyName() string {
	return models.CompanySMBC
}

// CanParse reports whether the email passes the SMBC trust and subject
// gates.
func (p *Parser) CanParse(from, subject string) bool {
	return cardparser.CanParse(from, subject, trustedDomains, subjectKeywords)
}

// ExtractAmount extracts the transaction amount in yen.
func (p *Parser) ExtractAmount(body string) (int64, bool) {
	return cardparser.ExtractAmount(body, amountPattern)
}

// ExtractTransactionDate extracts the usage date/time.
func (p *Parser) ExtractTransactionDate(body string) (time.Time, bool) {
	return cardparser.ExtractDate(body, datePattern, p.loc)
}

// ExtractMerchant extracts the merchant name, or "" when absent.
func (p *Parser) ExtractMerchant(body string) string {
	return cardparser.ExtractMerchant(body)
}

// ExtractIsReturn reports whether the notification describes a refund.
func (p *Parser) ExtractIsReturn(body string) bool {
	return cardparser.ContainsAny(body, returnMarkers)
}

// Parse validates the trust gate and extracts all fields. It returns nil
// when the gate rejects the email or amount or date extraction fails.
func (p *Parser) Parse(body, from, subject string) *models.ParsedTransaction {
	if !p.CanParse(from, subject) {
		return nil
	}
	amount, ok := p.ExtractAmount(body)
	if !ok {
		log.WithField("subject", subject).Debug("smbc: no parseable amount")
		return nil
	}
	date, ok := p.ExtractTransactionDate(body)
	if !ok {
		log.WithField("subject", subject).Debug("smbc: no parseable date")
		return nil
	}
	return &models.ParsedTransaction{
		Amount:          amount,
		TransactionDate: date,
		Merchant:        p.ExtractMerchant(body),
		CardCompany:     p.CompanyName(),
		RawText:         body,
		IsReturn:        p.ExtractIsReturn(body),
	}
}
