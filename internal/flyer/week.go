package flyer

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
	_ "time/tzdata" // store zones must resolve on minimal images
)

var weekPattern = regexp.MustCompile(`^(\d{4})-W(\d{1,2})$`)

// WeekRange parses an ISO week ("2026-W43") and returns its Monday and
// Sunday at local midnight in loc (UTC when nil). ok is false for
// malformed or out-of-range weeks.
func WeekRange(week string, loc *time.Location) (monday, sunday time.Time, ok bool) {
	m := weekPattern.FindStringSubmatch(week)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	num, _ := strconv.Atoi(m[2])
	if num < 1 || num > weeksInYear(year) {
		return time.Time{}, time.Time{}, false
	}

	if loc == nil {
		loc = time.UTC
	}
	y, mon, d := isoWeekOneMonday(year).AddDate(0, 0, (num-1)*7).Date()
	monday = time.Date(y, mon, d, 0, 0, 0, 0, loc)
	return monday, monday.AddDate(0, 0, 6), true
}

// ISOWeek formats the ISO week containing t, e.g. "2026-W43".
func ISOWeek(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

// isoWeekOneMonday returns the Monday of the week holding January 4th.
func isoWeekOneMonday(year int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset)
}

// weeksInYear is 53 when December 28th falls in week 53, else 52.
func weeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// dateRange renders the header line for a week, or the generic title when
// the week is missing or invalid.
func dateRange(week string, loc *time.Location) string {
	monday, sunday, ok := WeekRange(week, loc)
	if !ok {
		return GenericWeekTitle
	}
	return fmt.Sprintf("dal %s al %s", monday.Format(dateLayout), sunday.Format(dateLayout))
}
