package usecase

import (
	"strings"
	"testing"

	"residency-sync/internal/domain/entity"
	"residency-sync/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReconciler() *Reconciler {
	return NewReconciler(logger.NewLogger("error"))
}

func flightSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, code := range splitFlights(s) {
		set[code] = struct{}{}
	}
	return set
}

func TestMergeFlights_Union(t *testing.T) {
	assert.Equal(t, "BA123,LH99", MergeFlights("BA123", "LH99, BA123"))
	assert.Equal(t, "BA123", MergeFlights("", "BA123"))
	assert.Equal(t, "", MergeFlights("", ""))
}

func TestMergeFlights_Associative(t *testing.T) {
	a, b, c := "BA123,LH99", "LH99 FR200", "U21111,BA123"

	left := MergeFlights(MergeFlights(a, b), c)
	right := MergeFlights(a, MergeFlights(b, c))
	assert.Equal(t, flightSet(left), flightSet(right))
}

func TestMergeFlights_Idempotent(t *testing.T) {
	a := "BA123, LH99 BA123"
	assert.Equal(t, "BA123,LH99", MergeFlights(a, a))
}

func TestDedupeBookings_SourcePriority(t *testing.T) {
	bookings := []*entity.Booking{
		{Type: entity.BookingFlight, Date: "2025-06-01", Source: entity.SourceEmail, Flights: []string{"LH99"}, City: "Munich"},
		{Type: entity.BookingFlight, Date: "2025-06-01", Source: entity.SourceCalendar, Flights: []string{"BA123"}, City: "Milan"},
		{Type: entity.BookingHotel, Date: "2025-06-01", Source: entity.SourceEmail, Place: "Hotel X"},
	}

	deduped := DedupeBookings(bookings, DefaultSourcePriority)
	require.Len(t, deduped, 2)

	var flight *entity.Booking
	for _, b := range deduped {
		if b.Type == entity.BookingFlight {
			flight = b
		}
	}
	require.NotNil(t, flight)

	// The calendar occurrence wins, the email's flights are folded in
	assert.Equal(t, entity.SourceCalendar, flight.Source)
	assert.Equal(t, "Milan", flight.City)
	assert.Equal(t, flightSet("BA123,LH99"), flightSet(strings.Join(flight.Flights, ",")))
}

func TestReconcile_ManualLock(t *testing.T) {
	r := newTestReconciler()

	existing := map[string]*entity.LocationRecord{
		"2025-06-01": {Date: "2025-06-01", City: "Paris", AutoGps: false, AutoBooking: false},
	}
	booking := &entity.Booking{
		Type: entity.BookingHotel, Date: "2025-06-01",
		City: "Rome", Country: "Italy", Place: "Hotel X",
		Source: entity.SourceCalendar, Raw: "Hotel X booking",
	}

	updates, stats := r.Reconcile(existing, []*entity.Booking{booking})

	assert.Empty(t, updates)
	assert.Equal(t, 1, stats.Skipped)
	// snapshot untouched
	assert.Equal(t, "Paris", existing["2025-06-01"].City)
	assert.False(t, existing["2025-06-01"].AutoBooking)
}

func TestReconcile_NewRecord(t *testing.T) {
	r := newTestReconciler()

	booking := &entity.Booking{
		Type: entity.BookingHotel, Date: "2025-06-01",
		City: "Rome", Country: "Italy", Place: "Hotel X",
		Source: entity.SourceCalendar, Raw: "Hotel X booking confirmation",
	}

	updates, stats := r.Reconcile(map[string]*entity.LocationRecord{}, []*entity.Booking{booking})

	require.Len(t, updates, 1)
	record := updates["2025-06-01"]
	require.NotNil(t, record)

	assert.Equal(t, "Rome", record.City)
	assert.Equal(t, "Italy", record.Country)
	assert.Equal(t, "Hotel X", record.Place)
	assert.True(t, record.AutoBooking)
	assert.Equal(t, "calendar: Hotel X booking confirmation", record.BookingSource)
	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 0, stats.Merged)
}

func TestReconcile_ExistingFieldsWin(t *testing.T) {
	r := newTestReconciler()

	existing := map[string]*entity.LocationRecord{
		"2025-06-01": {Date: "2025-06-01", City: "Rome", AutoBooking: true, BookingSource: "calendar: earlier event"},
	}
	booking := &entity.Booking{
		Type: entity.BookingHotel, Date: "2025-06-01",
		City: "Milan", Country: "Italy", Place: "Hotel X",
		Source: entity.SourceEmail, Raw: "Hotel X reservation",
	}

	updates, stats := r.Reconcile(existing, []*entity.Booking{booking})

	require.Len(t, updates, 1)
	record := updates["2025-06-01"]

	// existing city wins, gaps are filled
	assert.Equal(t, "Rome", record.City)
	assert.Equal(t, "Italy", record.Country)
	assert.Equal(t, "Hotel X", record.Place)
	assert.Equal(t, "calendar: earlier event | email: Hotel X reservation", record.BookingSource)
	assert.Equal(t, 1, stats.Merged)
}

func TestReconcile_AuditAppendIdempotent(t *testing.T) {
	r := newTestReconciler()

	booking := &entity.Booking{
		Type: entity.BookingHotel, Date: "2025-06-01",
		City: "Rome", Place: "Hotel X",
		Source: entity.SourceCalendar, Raw: "Hotel X booking",
	}

	// First run creates the record
	updates, _ := r.Reconcile(map[string]*entity.LocationRecord{}, []*entity.Booking{booking})
	require.Len(t, updates, 1)

	// Second run against the persisted result changes nothing
	updates2, stats := r.Reconcile(updates, []*entity.Booking{booking})
	assert.Empty(t, updates2)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, strings.Count(updates["2025-06-01"].BookingSource, "calendar: Hotel X booking"))
}

func TestReconcile_SameBookingTwiceInOneRun(t *testing.T) {
	r := newTestReconciler()

	booking := &entity.Booking{
		Type: entity.BookingHotel, Date: "2025-06-01",
		City: "Rome", Place: "Hotel X",
		Source: entity.SourceCalendar, Raw: "Hotel X booking",
	}

	updates, stats := r.Reconcile(map[string]*entity.LocationRecord{}, []*entity.Booking{booking, booking})

	require.Len(t, updates, 1)
	assert.Equal(t, 1, strings.Count(updates["2025-06-01"].BookingSource, "calendar: Hotel X booking"))
	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 1, stats.Skipped)
}

func TestReconcile_CountryConflict(t *testing.T) {
	r := newTestReconciler()

	existing := map[string]*entity.LocationRecord{
		"2025-06-01": {Date: "2025-06-01", City: "London", Country: "UK", AutoGps: true},
	}
	booking := &entity.Booking{
		Type: entity.BookingFlight, Date: "2025-06-01",
		City: "Milan", Country: "Italy", Flights: []string{"BA123"},
		Source: entity.SourceEmail, Raw: "BA123 to Milan",
	}

	updates, _ := r.Reconcile(existing, []*entity.Booking{booking})

	require.Len(t, updates, 1)
	record := updates["2025-06-01"]

	assert.Equal(t, "GPS says UK, booking says Italy", record.CountryConflict)
	assert.Equal(t, "UK", record.Country)
	assert.True(t, record.AutoGps)
	assert.True(t, record.AutoBooking)
}

func TestReconcile_PreservesGpsFields(t *testing.T) {
	r := newTestReconciler()

	lat, lon := 51.5, -0.12
	working := true
	existing := map[string]*entity.LocationRecord{
		"2025-06-01": {
			Date: "2025-06-01", City: "London", Country: "UK",
			AutoGps: true, Lat: &lat, Lon: &lon, Working: &working,
			Notes: "office day",
		},
	}
	booking := &entity.Booking{
		Type: entity.BookingFlight, Date: "2025-06-01",
		Flights: []string{"BA123"},
		Source:  entity.SourceEmail, Raw: "BA123",
	}

	updates, _ := r.Reconcile(existing, []*entity.Booking{booking})

	require.Len(t, updates, 1)
	record := updates["2025-06-01"]

	require.NotNil(t, record.Lat)
	assert.Equal(t, 51.5, *record.Lat)
	require.NotNil(t, record.Working)
	assert.True(t, *record.Working)
	assert.Equal(t, "office day", record.Notes)
	assert.Equal(t, "BA123", record.Flights)
}

func TestReconcile_NoOpSuppressed(t *testing.T) {
	r := newTestReconciler()

	existing := map[string]*entity.LocationRecord{
		"2025-06-01": {
			Date: "2025-06-01", City: "Rome", Place: "Hotel X",
			Flights: "BA123", AutoBooking: true,
			BookingSource: "calendar: Hotel X booking",
		},
	}
	booking := &entity.Booking{
		Type: entity.BookingHotel, Date: "2025-06-01",
		City: "Rome", Place: "Hotel X", Flights: []string{"BA123"},
		Source: entity.SourceCalendar, Raw: "Hotel X booking",
	}

	updates, stats := r.Reconcile(existing, []*entity.Booking{booking})

	assert.Empty(t, updates)
	assert.Equal(t, 1, stats.Skipped)
}
