package cardparser

import (
	"regexp"
	"strings"

	"github.com/HiraG-62/maillet/internal/models"
	"github.com/HiraG-62/maillet/internal/textutils"
)

// merchantLabelPattern matches the common merchant label variants followed
// by a colon of either width, or by whitespace alone. The whitespace form
// is what an HTML table row collapses to once cell boundaries have been
// replaced with spaces during body extraction. The value runs to the end
// of the line.
// Whitespace around the separator is same-line only, so a label with an
// empty value never captures the following line.
var merchantLabelPattern = regexp.MustCompile(
	`(?:ご利用先|利用先|店舗名|加盟店)(?:[ \t　]*[:：][ \t　]*|[ \t　]+)([^\r\n]+)`)

// ExtractMerchant finds a labeled merchant value in the body. The value
// is stripped of control characters, whitespace-collapsed and capped at
// models.MaxMerchantLength runes. It returns "" when no label matches or
// the value is empty after cleanup; an absent merchant is not an error.
func ExtractMerchant(body string) string {
	m := merchantLabelPattern.FindStringSubmatch(body)
	if len(m) < 2 {
		return ""
	}
	return CleanMerchant(m[1])
}

// CleanMerchant normalizes a raw captured merchant value.
func CleanMerchant(raw string) string {
	cleaned := textutils.CollapseWhitespace(textutils.StripControl(raw))
	runes := []rune(cleaned)
	if len(runes) > models.MaxMerchantLength {
		cleaned = string(runes[:models.MaxMerchantLength])
	}
	return cleaned
}

// ContainsAny reports whether the body contains any of the given marker
// substrings. Issuers that report refunds flag them with markers like
// ご返金 or 返品.
func ContainsAny(body string, markers []string) bool {
	for _, marker := range markers {
		if marker != "" && strings.Contains(body, marker) {
			return true
		}
	}
	return false
}
