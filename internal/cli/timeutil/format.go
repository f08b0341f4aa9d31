// Package timeutil renders the shadow/gshadow aging fields (day counts
// since the Unix epoch, with -1 meaning "unset") as human-readable dates
// for accountctl's table output.
package timeutil

import (
	"strconv"
	"time"
)

// DateFormat is the format accountctl uses for shadow aging dates.
const DateFormat = "2006-01-02"

// FormatEpochDay renders a day-count field (days since 1970-01-01) as a
// UTC calendar date. Negative values (the shadow "unset" sentinel) and
// zero (never changed) are rendered as dash placeholders rather than
// 1970-01-01, since that date is never a meaningful value in this
// domain.
func FormatEpochDay(days int64) string {
	if days <= 0 {
		return "-"
	}
	t := time.Unix(days*86400, 0).UTC()
	return t.Format(DateFormat)
}

// FormatDayCount renders a relative day count (MinDays, MaxDays,
// WarnDays, InactiveDays) as a plain number, or "-" for the shadow
// "unset" sentinel of -1.
func FormatDayCount(days int64) string {
	if days < 0 {
		return "-"
	}
	return strconv.FormatInt(days, 10)
}
