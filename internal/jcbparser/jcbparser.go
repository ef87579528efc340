// Package jcbparser parses JCB カードご利用通知 emails. JCB does not send
// refund notifications, so ExtractIsReturn is always false.
package jcbparser

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
	trustedDomains  = []string{"qa.jcb.co.jp", "jcb.co.jp"}
	subjectKeywords = []string{"カードご利用通知", "ショッピングご利用"}

	amountPattern = regexp.MustCompile(
		`(?:ご利用金額|お支払い金額)(?:\([^)]*\))?\s*:?\s*(-?[0-9][0-9,]*)\s*円?`)
	datePattern = regexp.MustCompile(
		`(?:ご利用日時|ご利用日)\s*:?\s*([0-9]{4})[/-]([0-9]{1,2})[/-]([0-9]{1,2})(?:\s+([0-9]{1,2}):([0-9]{2}))?`)
)

// Parser implements models.Parser for JCB notification emails.
type Parser struct {
	loc *time.Location
}

// New creates a JCB parser that interprets wall-clock dates in loc.
func New(loc *time.Location) *Parser {
	return &Parser{loc: loc}
}

// CompanyName returns the issuer identifier.
func (p *Parser) CompanyName() string {
	return models.CompanyJCB
}

// CanParse reports whether the email passes the JCB trust and subject
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

// ExtractIsReturn always reports false; JCB notifications never describe
// refunds.
func (p *Parser) ExtractIsReturn(body string) bool {
	return false
}

// Parse validates the trust gate and extracts all fields.
func (p *Parser) Parse(body, from, subject string) *models.ParsedTransaction {
	if !p.CanParse(from, subject) {
		return nil
	}
	amount, ok := p.ExtractAmount(body)
	if !ok {
		log.WithField("subject", subject).Debug("jcb: no parseable amount")
		return nil
	}
	date, ok := p.ExtractTransactionDate(body)
	if !ok {
		log.WithField("subject", subject).Debug("jcb: no parseable date")
		return nil
	}
	return &models.ParsedTransaction{
		Amount:          amount,
		TransactionDate: date,
		Merchant:        p.ExtractMerchant(body),
		CardCompany:     p.CompanyName(),
		RawText:         body,
		IsReturn:        false,
	}
}
