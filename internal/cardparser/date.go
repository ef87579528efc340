package cardparser

import (
	"regexp"
	"strconv"
	"time"

	"github.com/HiraG-62/maillet/internal/textutils"
)

// Generic date fallbacks, tried after the issuer-specific pattern. Groups
// are year, month, day and optionally hour, minute. Like the amount
// patterns they run against a width-narrowed body.
var genericDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([0-9]{4})[/-]([0-9]{1,2})[/-]([0-9]{1,2})(?:\s+([0-9]{1,2}):([0-9]{2}))?`),
	regexp.MustCompile(`([0-9]{4})年([0-9]{1,2})月([0-9]{1,2})日(?:\s*([0-9]{1,2})[:時]([0-9]{2})分?)?`),
}

// MakeDate builds an instant from matched wall-clock components in the
// given location. Source text never carries a timezone, so the configured
// issuer timezone supplies one. Components that do not form a real
// calendar date (February 30th and the like) are rejected.
func MakeDate(year, month, day, hour, minute int, loc *time.Location) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	if t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, false
	}
	return t, true
}

// ExtractDate applies the issuer's primary datetime pattern to the
// width-narrowed body, then the generic fallbacks. Patterns must capture
// year, month, day and may capture hour and minute.
func ExtractDate(body string, primary *regexp.Regexp, loc *time.Location) (time.Time, bool) {
	narrowed := textutils.NarrowWidth(body)

	patterns := genericDatePatterns
	if primary != nil {
		patterns = append([]*regexp.Regexp{primary}, patterns...)
	}
	for _, re := range patterns {
		// All matches are tried in order: an impossible date earlier in
		// the body must not mask a real one later.
		for _, m := range re.FindAllStringSubmatch(narrowed, -1) {
			if len(m) < 4 {
				continue
			}
			year, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			hour, minute := 0, 0
			if len(m) > 5 && m[4] != "" {
				hour, _ = strconv.Atoi(m[4])
				minute, _ = strconv.Atoi(m[5])
			}
			if hour > 23 || minute > 59 {
				continue
			}
			if t, ok := MakeDate(year, month, day, hour, minute, loc); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
