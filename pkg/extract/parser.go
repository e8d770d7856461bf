package extract

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"residency-sync/internal/domain/repository"
	"residency-sync/pkg/logger"
)

// BookingParser turns raw calendar/email text into booking candidates.
// Extraction never fails: a miss yields an empty result, not an error.
type BookingParser struct {
	airportRepo repository.AirportRepository
	logger      logger.Logger
}

// NewBookingParser creates a parser backed by an airport gazetteer.
func NewBookingParser(airportRepo repository.AirportRepository, logger logger.Logger) *BookingParser {
	return &BookingParser{
		airportRepo: airportRepo,
		logger:      logger,
	}
}

var (
	flightCodeRe  = regexp.MustCompile(`\b([A-Z]{2}\d{1,4})\b`)
	threeLetterRe = regexp.MustCompile(`\b[A-Z]{3}\b`)

	// "LHR to MXP", "LHR -> MXP", "LHR - MXP"
	routeRe = regexp.MustCompile(`\b([A-Z]{3})(?:\s+TO\s+|\s*(?:->|→|—|–|-)\s*)([A-Z]{3})\b`)
	// "arriving MXP", "arrival at MXP", "destination: MXP"
	arrivalRe = regexp.MustCompile(`\b(?:ARRIVING|ARRIVAL|DESTINATION)(?:\s+IN|\s+AT)?\s*:?\s*([A-Z]{3})\b`)

	hotelNameRes = []*regexp.Regexp{
		regexp.MustCompile(`(?im)\b(?:booking|reservation)\s+(?:at|for)\s+([^\n]+)`),
		regexp.MustCompile(`(?im)\b(?:hotel|hostel|resort|guesthouse|apartments?|inn|suites?)\s*[:\-]\s*([^\n]+)`),
		regexp.MustCompile(`(?im)\b(?:your\s+stay\s+at|check-?in\s+at|welcome\s+to)\s+([^\n]+)`),
	}

	cityRe = regexp.MustCompile(`\b[Ii]n\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)

	monthNames = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

	isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	dmyDateRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(` + monthNames + `)\s+(\d{4})\b`)
	mdyDateRe = regexp.MustCompile(`(?i)\b(` + monthNames + `)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ExtractFlights scans text for flight designators (2-letter carrier prefix
// plus 1-4 digits) and returns unique codes in first-seen order.
func (p *BookingParser) ExtractFlights(text string) []string {
	matches := flightCodeRe.FindAllString(strings.ToUpper(text), -1)

	seen := make(map[string]struct{})
	var codes []string
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		codes = append(codes, m)
	}
	return codes
}

// ExtractAirports returns every gazetteer code appearing as a standalone
// 3-letter word in the text, in gazetteer iteration order.
func (p *BookingParser) ExtractAirports(ctx context.Context, text string) []string {
	words := threeLetterRe.FindAllString(strings.ToUpper(text), -1)
	if len(words) == 0 {
		return nil
	}

	present := make(map[string]struct{}, len(words))
	for _, w := range words {
		present[w] = struct{}{}
	}

	codes, err := p.airportRepo.ListCodes(ctx)
	if err != nil {
		p.logger.Error("Failed to list airport codes", "error", err)
		return nil
	}

	var found []string
	for _, code := range codes {
		if _, ok := present[code]; ok {
			found = append(found, code)
		}
	}
	return found
}

// ExtractDestination resolves the arrival city/country of a flight text.
// Tried in order: an explicit "A to B" route, an "arriving/destination: X"
// phrase, then a fallback on the airport codes present anywhere in the text.
// Confirmation texts list origin before destination, so the last known code
// is assumed to be the arrival airport.
func (p *BookingParser) ExtractDestination(ctx context.Context, text string) *Destination {
	upper := strings.ToUpper(text)

	if m := routeRe.FindStringSubmatch(upper); len(m) == 3 {
		if dest := p.resolveAirport(ctx, m[2]); dest != nil {
			return dest
		}
	}

	if m := arrivalRe.FindStringSubmatch(upper); len(m) == 2 {
		if dest := p.resolveAirport(ctx, m[1]); dest != nil {
			return dest
		}
	}

	airports := p.ExtractAirports(ctx, text)
	if len(airports) == 0 {
		return nil
	}
	return p.resolveAirport(ctx, airports[len(airports)-1])
}

func (p *BookingParser) resolveAirport(ctx context.Context, code string) *Destination {
	airport, err := p.airportRepo.GetByCode(ctx, code)
	if err != nil {
		return nil
	}
	return &Destination{City: airport.City, Country: airport.Country}
}

// ExtractHotelName tries three templates in priority order and returns the
// first capture whose trimmed length is plausible for a venue name.
func (p *BookingParser) ExtractHotelName(text string) string {
	for _, re := range hotelNameRes {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		name := trimHotelName(m[1])
		if len(name) > 2 && len(name) < 80 {
			return name
		}
	}
	return ""
}

var hotelNameCutRe = regexp.MustCompile(`(?i)\s+(?:in|on)\s`)

// trimHotelName cuts a capture at the first terminating delimiter.
func trimHotelName(name string) string {
	for _, sep := range []string{" - ", " – ", " — ", "|", ","} {
		if idx := strings.Index(name, sep); idx >= 0 {
			name = name[:idx]
		}
	}
	if loc := hotelNameCutRe.FindStringIndex(name); loc != nil {
		name = name[:loc[0]]
	}
	return strings.TrimSpace(name)
}

// ExtractCity matches "in <Capitalized word(s)>", first match wins.
func (p *BookingParser) ExtractCity(text string) string {
	m := cityRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// ExtractDatesFromFreeText scans for ISO, "D Month YYYY" and "Month D, YYYY"
// date shapes, keeps dates whose year lies in [yearMin, yearMax] and returns
// them sorted ascending. Duplicates are retained; unparseable candidates are
// silently dropped.
func (p *BookingParser) ExtractDatesFromFreeText(text string, yearMin, yearMax int) []time.Time {
	var dates []time.Time

	for _, m := range isoDateRe.FindAllStringSubmatch(text, -1) {
		if d, ok := makeDate(m[1], m[2], m[3]); ok {
			dates = append(dates, d)
		}
	}
	for _, m := range dmyDateRe.FindAllStringSubmatch(text, -1) {
		if d, ok := makeNamedDate(m[3], m[2], m[1]); ok {
			dates = append(dates, d)
		}
	}
	for _, m := range mdyDateRe.FindAllStringSubmatch(text, -1) {
		if d, ok := makeNamedDate(m[3], m[1], m[2]); ok {
			dates = append(dates, d)
		}
	}

	var inRange []time.Time
	for _, d := range dates {
		if d.Year() >= yearMin && d.Year() <= yearMax {
			inRange = append(inRange, d)
		}
	}

	sort.Slice(inRange, func(i, j int) bool { return inRange[i].Before(inRange[j]) })
	return inRange
}

func makeDate(year, month, day string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return validDate(y, time.Month(m), d)
}

func makeNamedDate(year, month, day string) (time.Time, bool) {
	key := strings.ToLower(month)
	if len(key) > 3 {
		key = key[:3]
	}
	m, ok := months[key]
	if !ok {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(year)
	d, _ := strconv.Atoi(day)
	return validDate(y, m, d)
}

func validDate(y int, m time.Month, d int) (time.Time, bool) {
	if m < time.January || m > time.December || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow, e.g. Feb 30 -> Mar 2
	if t.Day() != d || t.Month() != m {
		return time.Time{}, false
	}
	return t, true
}
