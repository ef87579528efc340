// Package textutils provides text normalization and extraction utilities
// for Japanese card-notification email bodies.
package textutils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// NarrowWidth converts full-width Latin letters, digits and punctuation to
// their ASCII equivalents. Full-width numerals, commas, colons and the yen
// sign all fold to their half-width forms, so "５，４００円" becomes
// "5,400円". Kanji are unaffected.
func NarrowWidth(s string) string {
	return width.Narrow.String(s)
}

// NormalizeJapanese canonicalizes a Japanese string for comparison:
// half-width katakana (including combining voiced and semi-voiced marks)
// becomes full-width precomposed katakana, and full-width Latin letters
// and digits become ASCII. NFKC handles both directions in one pass.
func NormalizeJapanese(s string) string {
	return norm.NFKC.String(s)
}

// CollapseWhitespace trims the string and replaces every run of
// whitespace, including full-width spaces and control characters, with a
// single ASCII space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripControl removes control characters (newlines, carriage returns,
// tabs and other C0/C1 controls) from the string.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || (r >= 0x7f && r < 0xa0) {
			return -1
		}
		return r
	}, s)
}
