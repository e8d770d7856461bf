package repository

import (
	"context"
	"strings"

	"residency-sync/internal/domain/entity"
	"residency-sync/internal/domain/repository"
)

// staticAirports is the built-in gazetteer used when no Postgres table is
// configured. Slice order is the gazetteer iteration order.
var staticAirports = []entity.Airport{
	{Code: "LHR", Name: "Heathrow", City: "London", Country: "UK"},
	{Code: "LGW", Name: "Gatwick", City: "London", Country: "UK"},
	{Code: "STN", Name: "Stansted", City: "London", Country: "UK"},
	{Code: "LTN", Name: "Luton", City: "London", Country: "UK"},
	{Code: "LCY", Name: "London City", City: "London", Country: "UK"},
	{Code: "MAN", Name: "Manchester", City: "Manchester", Country: "UK"},
	{Code: "EDI", Name: "Edinburgh", City: "Edinburgh", Country: "UK"},
	{Code: "DUB", Name: "Dublin", City: "Dublin", Country: "Ireland"},
	{Code: "CDG", Name: "Charles de Gaulle", City: "Paris", Country: "France"},
	{Code: "ORY", Name: "Orly", City: "Paris", Country: "France"},
	{Code: "NCE", Name: "Nice Cote d'Azur", City: "Nice", Country: "France"},
	{Code: "MXP", Name: "Malpensa", City: "Milan", Country: "Italy"},
	{Code: "LIN", Name: "Linate", City: "Milan", Country: "Italy"},
	{Code: "FCO", Name: "Fiumicino", City: "Rome", Country: "Italy"},
	{Code: "VCE", Name: "Marco Polo", City: "Venice", Country: "Italy"},
	{Code: "NAP", Name: "Capodichino", City: "Naples", Country: "Italy"},
	{Code: "AMS", Name: "Schiphol", City: "Amsterdam", Country: "Netherlands"},
	{Code: "BRU", Name: "Zaventem", City: "Brussels", Country: "Belgium"},
	{Code: "MAD", Name: "Barajas", City: "Madrid", Country: "Spain"},
	{Code: "BCN", Name: "El Prat", City: "Barcelona", Country: "Spain"},
	{Code: "AGP", Name: "Malaga", City: "Malaga", Country: "Spain"},
	{Code: "LIS", Name: "Humberto Delgado", City: "Lisbon", Country: "Portugal"},
	{Code: "OPO", Name: "Francisco Sa Carneiro", City: "Porto", Country: "Portugal"},
	{Code: "BER", Name: "Brandenburg", City: "Berlin", Country: "Germany"},
	{Code: "MUC", Name: "Franz Josef Strauss", City: "Munich", Country: "Germany"},
	{Code: "FRA", Name: "Frankfurt", City: "Frankfurt", Country: "Germany"},
	{Code: "VIE", Name: "Schwechat", City: "Vienna", Country: "Austria"},
	{Code: "ZRH", Name: "Kloten", City: "Zurich", Country: "Switzerland"},
	{Code: "GVA", Name: "Cointrin", City: "Geneva", Country: "Switzerland"},
	{Code: "CPH", Name: "Kastrup", City: "Copenhagen", Country: "Denmark"},
	{Code: "ARN", Name: "Arlanda", City: "Stockholm", Country: "Sweden"},
	{Code: "OSL", Name: "Gardermoen", City: "Oslo", Country: "Norway"},
	{Code: "HEL", Name: "Vantaa", City: "Helsinki", Country: "Finland"},
	{Code: "PRG", Name: "Vaclav Havel", City: "Prague", Country: "Czech Republic"},
	{Code: "WAW", Name: "Chopin", City: "Warsaw", Country: "Poland"},
	{Code: "BUD", Name: "Ferenc Liszt", City: "Budapest", Country: "Hungary"},
	{Code: "ATH", Name: "Eleftherios Venizelos", City: "Athens", Country: "Greece"},
	{Code: "IST", Name: "Istanbul", City: "Istanbul", Country: "Turkey"},
	{Code: "DXB", Name: "Dubai International", City: "Dubai", Country: "UAE"},
	{Code: "DOH", Name: "Hamad", City: "Doha", Country: "Qatar"},
	{Code: "JFK", Name: "John F Kennedy", City: "New York", Country: "USA"},
	{Code: "EWR", Name: "Newark Liberty", City: "New York", Country: "USA"},
	{Code: "LAX", Name: "Los Angeles International", City: "Los Angeles", Country: "USA"},
	{Code: "SFO", Name: "San Francisco International", City: "San Francisco", Country: "USA"},
	{Code: "YYZ", Name: "Pearson", City: "Toronto", Country: "Canada"},
	{Code: "SIN", Name: "Changi", City: "Singapore", Country: "Singapore"},
	{Code: "HKG", Name: "Chek Lap Kok", City: "Hong Kong", Country: "Hong Kong"},
	{Code: "NRT", Name: "Narita", City: "Tokyo", Country: "Japan"},
	{Code: "HND", Name: "Haneda", City: "Tokyo", Country: "Japan"},
	{Code: "SYD", Name: "Kingsford Smith", City: "Sydney", Country: "Australia"},
}

// StaticAirportRepository serves the built-in gazetteer. Used when no
// gazetteer DSN is configured and as the test substitute.
type StaticAirportRepository struct {
	codes    []string
	airports map[string]*entity.Airport
}

// NewStaticAirportRepository creates the in-memory gazetteer.
func NewStaticAirportRepository() *StaticAirportRepository {
	repo := &StaticAirportRepository{
		airports: make(map[string]*entity.Airport, len(staticAirports)),
	}
	for i := range staticAirports {
		a := &staticAirports[i]
		repo.codes = append(repo.codes, a.Code)
		repo.airports[a.Code] = a
	}
	return repo
}

// GetByCode finds an airport by IATA code.
func (r *StaticAirportRepository) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	airport, ok := r.airports[strings.ToUpper(code)]
	if !ok {
		return nil, repository.ErrAirportNotFound
	}
	return airport, nil
}

// ListCodes returns all codes in gazetteer order.
func (r *StaticAirportRepository) ListCodes(ctx context.Context) ([]string, error) {
	return r.codes, nil
}
