package worktime

import "time"

// isWeekend reports whether d falls on a Saturday or Sunday. Saturdays and
// Sundays never count as working days; holidays are not modeled.
func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// midnight normalizes t to 00:00:00 on its own calendar day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WorkingDaysBetween counts the non-weekend days in the half-open interval
// [start, end) at calendar-day granularity. Time of day is normalized away
// before comparison; end <= start yields 0.
func WorkingDaysBetween(start, end time.Time) int {
	cursor := midnight(start)
	stop := midnight(end)

	days := 0
	for cursor.Before(stop) {
		if !isWeekend(cursor) {
			days++
		}
		cursor = cursor.AddDate(0, 0, 1)
	}
	return days
}

// WorkingDaysAgo steps backward from ref one calendar day at a time,
// counting only non-weekend days, until workingDays of them have been
// consumed. The result is at midnight. workingDays <= 0 returns ref's own
// midnight.
func WorkingDaysAgo(ref time.Time, workingDays int) time.Time {
	cursor := midnight(ref)
	remaining := workingDays

	for remaining > 0 {
		cursor = cursor.AddDate(0, 0, -1)
		if !isWeekend(cursor) {
			remaining--
		}
	}
	return cursor
}

// OlderThanWorkingDays reports whether itemDate falls strictly before the
// day workingDays working days before ref. Backlog alerting uses this to
// flag items added more than N working days ago.
func OlderThanWorkingDays(itemDate, ref time.Time, workingDays int) bool {
	return itemDate.Before(WorkingDaysAgo(ref, workingDays))
}
