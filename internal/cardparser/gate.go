// Package cardparser provides the building blocks shared by the issuer
// email parsers: the sender-trust and subject gates, and the label-based
// amount, date and merchant extraction helpers with their generic
// fallback patterns.
package cardparser

import (
	"net/mail"
	"strings"
)

// senderDomain extracts the lowercased domain of an address from a From
// header. Handles both bare addresses and display-name forms like
// `"三井住友カード" <statement@vpass.ne.jp>`.
func senderDomain(from string) string {
	addr := from
	if parsed, err := mail.ParseAddress(from); err == nil {
		addr = parsed.Address
	}
	at := strings.LastIndex(addr, "@")
	if at < 0 || at == len(addr)-1 {
		return ""
	}
	domain := addr[at+1:]
	domain = strings.TrimRight(domain, "> \t")
	return strings.ToLower(domain)
}

// MatchDomain reports whether the From header's domain exactly equals or
// is a subdomain of one of the trusted domains. Matching is on the domain
// component only, so "fake-vpass.com" does not match "vpass.com". An
// empty trusted set never matches; this is how an issuer that never
// emails users is denylisted.
func MatchDomain(from string, trusted []string) bool {
	domain := senderDomain(from)
	if domain == "" {
		return false
	}
	for _, t := range trusted {
		t = strings.ToLower(t)
		if domain == t || strings.HasSuffix(domain, "."+t) {
			return true
		}
	}
	return false
}

// ContainsKeyword reports whether the subject contains at least one of
// the issuer's recognized keyword substrings.
func ContainsKeyword(subject string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(subject, k) {
			return true
		}
	}
	return false
}

// CanParse is the combined trust gate: the sender domain must be trusted
// and the subject must carry a recognized keyword. The two checks are
// independent and both mandatory.
func CanParse(from, subject string, trusted, keywords []string) bool {
	return MatchDomain(from, trusted) && ContainsKeyword(subject, keywords)
}
