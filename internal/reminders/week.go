package reminders

import "time"

// CurrentWeekWindow returns the Sunday-to-Saturday window containing now,
// in now's location. The start is the most recent Sunday at 00:00:00.000
// (now itself if it falls on a Sunday); the end is the following Saturday
// at 23:59:59.999.
func CurrentWeekWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day()-int(now.Weekday()), 0, 0, 0, 0, now.Location())
	endDay := start.AddDate(0, 0, 6)
	end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 23, 59, 59, 999_000_000, endDay.Location())
	return start, end
}

// dayKey collapses a timestamp to its calendar day. Two marks with the same
// key are the same mark.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
