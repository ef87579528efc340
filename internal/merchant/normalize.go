// Package merchant provides merchant-name canonicalization so that
// vendor-formatted variants of the same merchant compare equal.
package merchant

import (
	"strings"

	"github.com/HiraG-62/maillet/internal/textutils"
)

// Normalize canonicalizes a merchant name: surrounding whitespace is
// trimmed, half-width katakana (including combining voiced marks) becomes
// full-width, and full-width Latin letters and digits become half-width
// uppercase. "ｱﾏｿﾞﾝ" and "アマゾン" normalize identically, as do
// "Ａｍａｚｏｎ" and "AMAZON".
func Normalize(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return strings.ToUpper(textutils.NormalizeJapanese(trimmed))
}
