package entity

import "time"

// LocationRecord is the persistent per-day residency entry, keyed by its
// calendar day. Records are created on first sighting of a date, mutated in
// place by repeated syncs and never deleted by the merge engine.
//
// A record with City set and both AutoGps and AutoBooking false is manual:
// a human curated it and the merge engine must never touch it.
type LocationRecord struct {
	Date            string    `bson:"_id"`
	Place           string    `bson:"place,omitempty"`
	City            string    `bson:"city,omitempty"`
	Country         string    `bson:"country,omitempty"`
	Flights         string    `bson:"flights,omitempty"` // comma-joined flight designators
	Notes           string    `bson:"notes,omitempty"`   // manual-only, never written by the engine
	Lat             *float64  `bson:"lat,omitempty"`     // set only by GPS capture
	Lon             *float64  `bson:"lon,omitempty"`
	Working         *bool     `bson:"working,omitempty"`
	AutoGps         bool      `bson:"autoGps,omitempty"`
	AutoBooking     bool      `bson:"autoBooking,omitempty"` // ratchet: false -> true only
	BookingSource   string    `bson:"bookingSource,omitempty"`
	CountryConflict string    `bson:"countryConflict,omitempty"`
	CreatedAt       time.Time `bson:"createdAt,omitempty"`
	UpdatedAt       time.Time `bson:"updatedAt,omitempty"`
}

// IsManual reports whether the record is human-curated and therefore
// immutable to the booking merge engine.
func (r *LocationRecord) IsManual() bool {
	return r.City != "" && !r.AutoGps && !r.AutoBooking
}

// Clone returns a copy safe to mutate without touching the store snapshot.
func (r *LocationRecord) Clone() *LocationRecord {
	c := *r
	return &c
}
