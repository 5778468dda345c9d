// Package worktime converts raw clock-in/clock-out timestamps into billable
// worked seconds and provides weekend-exclusive working-day arithmetic.
// Everything in here is pure calendar math: no I/O, no clocks.
package worktime

import "time"

// The fixed daily break window. It is excluded from worked time on every
// calendar day an interval touches.
const (
	breakStartHour   = 11
	breakStartMinute = 0
	breakEndHour     = 11
	breakEndMinute   = 30
)

// WorkedSeconds returns the billable seconds between start and end with the
// daily break window excluded. Intervals that span multiple calendar days
// subtract the break once per day touched, not once total.
//
// Invalid input (zero-value times, or end not strictly after start) is worth
// nothing and returns 0.
func WorkedSeconds(start, end time.Time) int64 {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return 0
	}

	var total float64
	cursor := start

	for cursor.Before(end) {
		// Segment runs to the end of the cursor's calendar day, or to the
		// overall end if that comes first.
		dayEnd := time.Date(cursor.Year(), cursor.Month(), cursor.Day()+1, 0, 0, 0, 0, cursor.Location())
		segmentEnd := dayEnd
		if end.Before(dayEnd) {
			segmentEnd = end
		}

		segment := segmentEnd.Sub(cursor).Seconds()
		if segment < 0 {
			segment = 0
		}

		total += segment - breakOverlapSeconds(cursor, segmentEnd)
		cursor = dayEnd
	}

	if total < 0 {
		return 0
	}
	return int64(total)
}

// breakOverlapSeconds returns the overlap between [segStart, segEnd] and the
// break window of segStart's calendar day, clamped to >= 0. A segment
// entirely outside the window contributes nothing.
func breakOverlapSeconds(segStart, segEnd time.Time) float64 {
	breakStart := time.Date(segStart.Year(), segStart.Month(), segStart.Day(),
		breakStartHour, breakStartMinute, 0, 0, segStart.Location())
	breakEnd := time.Date(segStart.Year(), segStart.Month(), segStart.Day(),
		breakEndHour, breakEndMinute, 0, 0, segStart.Location())

	overlapStart := segStart
	if breakStart.After(overlapStart) {
		overlapStart = breakStart
	}
	overlapEnd := segEnd
	if breakEnd.Before(overlapEnd) {
		overlapEnd = breakEnd
	}

	overlap := overlapEnd.Sub(overlapStart).Seconds()
	if overlap < 0 {
		return 0
	}
	return overlap
}
