package entity

import "time"

// BookingType classifies what kind of travel a booking describes
type BookingType string

const (
	BookingFlight BookingType = "flight"
	BookingHotel  BookingType = "hotel"
)

// BookingSource identifies where a booking was scraped from
type BookingSource string

const (
	SourceCalendar BookingSource = "calendar"
	SourceEmail    BookingSource = "email"
)

// DayLayout is the canonical calendar-day format used as the residency
// accounting unit and as the record-store key.
const DayLayout = "2006-01-02"

// DayOf truncates a timestamp to its calendar-day key.
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

// Booking is a single extracted travel fact for one calendar day. Hotel stays
// are fanned out into one Booking per resident-night before reconciliation.
// Bookings live for one sync run and are discarded after merge.
type Booking struct {
	Type    BookingType
	Date    string // DayLayout key
	Flights []string
	City    string
	Country string
	Place   string
	Source  BookingSource
	Raw     string // original subject/snippet, kept for the audit trail
}
