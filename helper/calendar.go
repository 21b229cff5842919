package helper

import "time"

// FirstOfMonth returns midnight UTC on the first day of the given month.
func FirstOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}
