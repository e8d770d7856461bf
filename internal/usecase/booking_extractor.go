package usecase

import (
	"context"
	"strings"
	"time"

	"residency-sync/internal/domain/entity"
	"residency-sync/pkg/extract"
	"residency-sync/pkg/logger"
)

// BookingExtractor turns one raw item into zero or more bookings: classify,
// extract structured fields, fan hotel stays out into per-night bookings.
type BookingExtractor struct {
	parser     *extract.BookingParser
	classifier Classifier
	logger     logger.Logger
}

// NewBookingExtractor creates a booking extractor.
func NewBookingExtractor(parser *extract.BookingParser, classifier Classifier, logger logger.Logger) *BookingExtractor {
	return &BookingExtractor{
		parser:     parser,
		classifier: classifier,
		logger:     logger,
	}
}

// BookingsFromItem extracts all bookings a raw item yields. An item that is
// excluded, or matches neither travel signal, yields none.
func (e *BookingExtractor) BookingsFromItem(ctx context.Context, item *entity.RawItem) []*entity.Booking {
	text := item.CombinedText()
	flights := e.parser.ExtractFlights(text)

	cls := e.classifier.Classify(item, flights)
	if cls.Discard {
		return nil
	}

	city, country := "", ""
	if dest := e.parser.ExtractDestination(ctx, text); dest != nil {
		city, country = dest.City, dest.Country
	}
	if city == "" {
		city = e.parser.ExtractCity(text)
	}

	checkIn, checkOut := e.stayDates(item, text)
	raw := rawSnippet(item)

	var bookings []*entity.Booking

	if cls.Flight {
		bookings = append(bookings, &entity.Booking{
			Type:    entity.BookingFlight,
			Date:    entity.DayOf(checkIn),
			Flights: flights,
			City:    city,
			Country: country,
			Source:  item.Source,
			Raw:     raw,
		})
	}

	if cls.Hotel {
		place := e.parser.ExtractHotelName(text)
		for _, night := range ExpandNights(checkIn, checkOut) {
			bookings = append(bookings, &entity.Booking{
				Type:    entity.BookingHotel,
				Date:    night,
				City:    city,
				Country: country,
				Place:   place,
				Source:  item.Source,
				Raw:     raw,
			})
		}
	}

	e.logger.Debug("Extracted bookings from item",
		"subject", item.Subject,
		"source", item.Source,
		"count", len(bookings))
	return bookings
}

// stayDates resolves the check-in/out span of an item. Calendar events carry
// structured start/end. For mail, free-text dates near the received year are
// scanned: two or more dates span earliest to latest (middle dates of
// multi-leg itineraries are dropped), a single date means a single night,
// none falls back to the received time.
func (e *BookingExtractor) stayDates(item *entity.RawItem, text string) (time.Time, time.Time) {
	if item.Source == entity.SourceCalendar {
		end := item.End
		if !item.HasEnd {
			end = item.Start
		}
		return item.Start, end
	}

	year := item.Start.Year()
	dates := e.parser.ExtractDatesFromFreeText(text, year-1, year+1)
	switch len(dates) {
	case 0:
		return item.Start, item.Start
	case 1:
		return dates[0], dates[0].AddDate(0, 0, 1)
	default:
		return dates[0], dates[len(dates)-1]
	}
}

// rawSnippet keeps the subject (or the body head when there is none) for the
// audit trail.
func rawSnippet(item *entity.RawItem) string {
	raw := strings.TrimSpace(item.Subject)
	if raw == "" {
		raw = strings.TrimSpace(item.Body)
	}
	if len(raw) > 200 {
		raw = raw[:200]
	}
	return raw
}
