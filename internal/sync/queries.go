package sync

import (
	"fmt"
	"time"
)

// subjectQueries are the three fixed subject substrings that together
// cover every supported issuer's notification mails. Each is combined
// with an after/before date filter at search time.
var subjectQueries = []string{
	"ご利用のお知らせ",
	"カードご利用通知",
	"カード利用のお知らせ",
}

// gmailDateFormat is the date layout Gmail's after:/before: operators
// expect.
const gmailDateFormat = "2006/01/02"

// buildQuery combines one subject pattern with the date range filter.
func buildQuery(subject string, after, before time.Time) string {
	return fmt.Sprintf("subject:(%s) after:%s before:%s",
		subject, after.Format(gmailDateFormat), before.Format(gmailDateFormat))
}

// defaultRange returns the first day of now's calendar month through the
// first day of the next month, in loc.
func defaultRange(now time.Time, loc *time.Location) (after, before time.Time) {
	now = now.In(loc)
	after = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	before = after.AddDate(0, 1, 0)
	return after, before
}
