package usecase

import (
	"time"

	"residency-sync/internal/domain/entity"
)

// ExpandNights turns a stay span into the calendar days it covers as
// resident-nights: check-in inclusive, check-out exclusive. A check-out not
// after the check-in is treated as a single-night stay so zero-length
// calendar events still yield one night.
func ExpandNights(checkIn, checkOut time.Time) []string {
	in := truncateDay(checkIn)
	out := truncateDay(checkOut)
	if !out.After(in) {
		out = in.AddDate(0, 0, 1)
	}

	var nights []string
	for d := in; d.Before(out); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d.Format(entity.DayLayout))
	}
	return nights
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
