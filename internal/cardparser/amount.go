package cardparser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/HiraG-62/maillet/internal/models"
	"github.com/HiraG-62/maillet/internal/textutils"
)

// Generic amount fallbacks, tried in order when the issuer-specific
// pattern finds nothing. They run against a width-narrowed body, so
// full-width numerals have already been folded to ASCII.
var genericAmountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(-?[0-9][0-9,]*)\s*円`),
	regexp.MustCompile(`[¥￥]\s*(-?[0-9][0-9,]*)`),
}

// ParseAmount converts a matched amount string to yen. It tolerates
// full-width digits, comma separators and a leading minus. Magnitudes
// above models.MaxAmount are rejected as mis-parses rather than accepted
// as real transactions.
func ParseAmount(s string) (int64, bool) {
	s = textutils.NarrowWidth(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "円")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	if v > models.MaxAmount || v < -models.MaxAmount {
		return 0, false
	}
	return v, true
}

// ExtractAmount applies the issuer's primary pattern to the
// width-narrowed body, falling back to the generic patterns. The issuer
// pattern's first capture group must be the numeric amount.
func ExtractAmount(body string, primary *regexp.Regexp) (int64, bool) {
	narrowed := textutils.NarrowWidth(body)
	if primary != nil {
		if m := primary.FindStringSubmatch(narrowed); len(m) > 1 {
			if v, ok := ParseAmount(m[1]); ok {
				return v, true
			}
		}
	}
	for _, re := range genericAmountPatterns {
		if m := re.FindStringSubmatch(narrowed); len(m) > 1 {
			if v, ok := ParseAmount(m[1]); ok {
				return v, true
			}
		}
	}
	return 0, false
}
