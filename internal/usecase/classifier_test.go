package usecase

import (
	"testing"

	"residency-sync/internal/domain/entity"
	"residency-sync/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func newTestClassifier() *KeywordClassifier {
	return NewKeywordClassifier(logger.NewLogger("error"))
}

func TestClassify_NoSignalDiscards(t *testing.T) {
	c := newTestClassifier()

	item := &entity.RawItem{Subject: "Lunch with Sam", Body: "See you at noon", Source: entity.SourceCalendar}
	cls := c.Classify(item, nil)

	assert.True(t, cls.Discard)
	assert.False(t, cls.Flight)
	assert.False(t, cls.Hotel)
}

func TestClassify_CarRentalExclusionWins(t *testing.T) {
	c := newTestClassifier()

	// Exclusion takes precedence over any other matching signal
	item := &entity.RawItem{
		Subject: "Car rental confirmation",
		Body:    "Your flight BA123 lands before pick up at the airport, drop off Sunday",
		Source:  entity.SourceEmail,
		Folder:  entity.FolderFlight,
	}
	cls := c.Classify(item, []string{"BA123"})

	assert.True(t, cls.Discard)
	assert.False(t, cls.Flight)
	assert.False(t, cls.Hotel)
}

func TestClassify_FlightSignal(t *testing.T) {
	c := newTestClassifier()

	cls := c.Classify(&entity.RawItem{Subject: "Flight to Milan", Source: entity.SourceCalendar}, nil)
	assert.True(t, cls.Flight)
	assert.False(t, cls.Hotel)

	// carrier-code pattern alone is enough
	cls = c.Classify(&entity.RawItem{Subject: "BA123 confirmed", Source: entity.SourceCalendar}, nil)
	assert.True(t, cls.Flight)
}

func TestClassify_HotelSignal(t *testing.T) {
	c := newTestClassifier()

	cls := c.Classify(&entity.RawItem{Subject: "Reservation for 3 nights", Source: entity.SourceEmail, Folder: entity.FolderHotel}, nil)
	assert.True(t, cls.Hotel)
}

func TestClassify_BothSignals(t *testing.T) {
	c := newTestClassifier()

	cls := c.Classify(&entity.RawItem{
		Subject: "Trip summary",
		Body:    "Flight BA123 outbound, hotel booking for two nights",
		Source:  entity.SourceEmail,
		Folder:  entity.FolderFlight,
	}, []string{"BA123"})

	assert.True(t, cls.Flight)
	assert.True(t, cls.Hotel)
	assert.False(t, cls.Discard)
}

func TestClassify_FolderLabelAlone(t *testing.T) {
	c := newTestClassifier()

	// No keywords at all, but the user filed it under the flight label
	cls := c.Classify(&entity.RawItem{Subject: "FYI", Source: entity.SourceEmail, Folder: entity.FolderFlight}, nil)
	assert.True(t, cls.Flight)
	assert.False(t, cls.Discard)
}
