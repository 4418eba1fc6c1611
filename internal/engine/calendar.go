package engine

import (
	"fmt"
	"time"
)

const ymdLayout = "2006-01-02"

// Week is one calendar block of a month: contiguous 7-day spans
// starting at day 1, with the final week absorbing the remainder.
// WorkingDays caps how many daily plans the week produces.
type Week struct {
	Number      int
	StartDay    int
	EndDay      int
	WorkingDays int
}

// WeeksInMonth partitions the month containing monthStart into weeks.
// A 31-day month yields 1-7, 8-14, 15-21, 22-28, 29-31; a 28-day month
// yields exactly four 7-day weeks.
func WeeksInMonth(monthStart time.Time, workingDayCap int) []Week {
	if workingDayCap <= 0 {
		workingDayCap = 6
	}
	daysInMonth := time.Date(monthStart.Year(), monthStart.Month()+1, 0, 0, 0, 0, 0, monthStart.Location()).Day()

	var weeks []Week
	number := 1
	for start := 1; start <= daysInMonth; start += 7 {
		end := start + 6
		if end > daysInMonth {
			end = daysInMonth
		}
		working := end - start + 1
		if working > workingDayCap {
			working = workingDayCap
		}
		weeks = append(weeks, Week{
			Number:      number,
			StartDay:    start,
			EndDay:      end,
			WorkingDays: working,
		})
		number++
	}
	return weeks
}

// WeekByNumber returns the week with the given number, or false.
func WeekByNumber(weeks []Week, number int) (Week, bool) {
	for _, w := range weeks {
		if w.Number == number {
			return w, true
		}
	}
	return Week{}, false
}

// DateRange renders the week's day span for display ("8-14").
func (w Week) DateRange() string {
	return fmt.Sprintf("%d-%d", w.StartDay, w.EndDay)
}

// MonthKey formats a time as the "YYYY-MM" period marker.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthStart returns the first day of t's month at midnight.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// ParseMonthStart parses a YYYY-MM-DD header value and normalizes it to
// the first of its month. Errors fall through to the caller so bad
// submitted dates surface as validation problems, not silent defaults.
func ParseMonthStart(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(ymdLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad month start date %q: %w", s, err)
	}
	return MonthStart(d), nil
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameWeek reports whether two times fall in the same Monday-to-Sunday
// window.
func SameWeek(a, b time.Time) bool {
	return weekStart(a).Equal(weekStart(b))
}

func weekStart(t time.Time) time.Time {
	// Monday-anchored: Sunday counts as day 7 of the prior week.
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, 1-wd)
}
