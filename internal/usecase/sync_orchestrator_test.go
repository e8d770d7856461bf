package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"residency-sync/internal/domain/entity"
	"residency-sync/internal/domain/repository"
	"residency-sync/pkg/extract"
	"residency-sync/pkg/logger"
	"residency-sync/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// promauto registers on the default registry, so the test metrics are
// created once for the whole package.
var testMetrics = metrics.NewMetrics("residency_sync_test")

// Mock structures

type MockCalendarSource struct {
	mock.Mock
}

func (m *MockCalendarSource) FetchEvents(ctx context.Context, from, to time.Time) ([]*entity.RawItem, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.RawItem), args.Error(1)
}

type MockMailSource struct {
	mock.Mock
}

func (m *MockMailSource) FetchFolder(ctx context.Context, folder entity.ItemFolder, since time.Time) ([]*entity.RawItem, error) {
	args := m.Called(ctx, folder, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.RawItem), args.Error(1)
}

type MockLocationRepo struct {
	mock.Mock
}

func (m *MockLocationRepo) ReadAll(ctx context.Context) (map[string]*entity.LocationRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*entity.LocationRecord), args.Error(1)
}

func (m *MockLocationRepo) ApplyUpdates(ctx context.Context, updates map[string]*entity.LocationRecord) error {
	args := m.Called(ctx, updates)
	return args.Error(0)
}

func (m *MockLocationRepo) SetLastSyncTimestamp(ctx context.Context, at time.Time) error {
	args := m.Called(ctx, at)
	return args.Error(0)
}

// fakeAirports keeps the orchestrator tests independent of any database.
type fakeAirports struct{}

func (f *fakeAirports) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	if code == "MXP" {
		return &entity.Airport{Code: "MXP", City: "Milan", Country: "Italy"}, nil
	}
	if code == "LHR" {
		return &entity.Airport{Code: "LHR", City: "London", Country: "UK"}, nil
	}
	return nil, repository.ErrAirportNotFound
}

func (f *fakeAirports) ListCodes(ctx context.Context) ([]string, error) {
	return []string{"LHR", "MXP"}, nil
}

func newTestOrchestrator(cal CalendarSource, mail MailSource, locationRepo repository.LocationRecordRepository) *SyncOrchestrator {
	log := logger.NewLogger("error")
	parser := extract.NewBookingParser(&fakeAirports{}, log)
	classifier := NewKeywordClassifier(log)
	extractor := NewBookingExtractor(parser, classifier, log)
	reconciler := NewReconciler(log)
	return NewSyncOrchestrator(cal, mail, extractor, reconciler, locationRepo, nil, testMetrics, log)
}

func TestRunSync_HotelEventExpandsToNights(t *testing.T) {
	cal := &MockCalendarSource{}
	mail := &MockMailSource{}
	locationRepo := &MockLocationRepo{}

	event := &entity.RawItem{
		Subject: "Hotel booking at Hotel Danieli in Venice",
		Start:   time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2025, time.June, 4, 0, 0, 0, 0, time.UTC),
		HasEnd:  true,
		Source:  entity.SourceCalendar,
	}

	cal.On("FetchEvents", mock.Anything, mock.Anything, mock.Anything).Return([]*entity.RawItem{event}, nil)
	mail.On("FetchFolder", mock.Anything, entity.FolderHotel, mock.Anything).Return([]*entity.RawItem{}, nil)
	mail.On("FetchFolder", mock.Anything, entity.FolderFlight, mock.Anything).Return([]*entity.RawItem{}, nil)

	var applied map[string]*entity.LocationRecord
	locationRepo.On("ReadAll", mock.Anything).Return(map[string]*entity.LocationRecord{}, nil)
	locationRepo.On("ApplyUpdates", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		applied = args.Get(1).(map[string]*entity.LocationRecord)
	}).Return(nil)
	locationRepo.On("SetLastSyncTimestamp", mock.Anything, mock.Anything).Return(nil)

	o := newTestOrchestrator(cal, mail, locationRepo)
	result, err := o.RunSync(context.Background(), SyncWindow{
		Start: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.NewCount)
	assert.Equal(t, 3, result.UpdatesApplied)
	assert.Equal(t, 0, result.MergedCount)

	require.Len(t, applied, 3)
	night := applied["2025-06-02"]
	require.NotNil(t, night)
	assert.Equal(t, "Hotel Danieli", night.Place)
	assert.Equal(t, "Venice", night.City)
	assert.True(t, night.AutoBooking)

	locationRepo.AssertExpectations(t)
}

func TestRunSync_SourceFailureDegrades(t *testing.T) {
	cal := &MockCalendarSource{}
	mail := &MockMailSource{}
	locationRepo := &MockLocationRepo{}

	flightMail := &entity.RawItem{
		Subject: "Your flight BA123 LHR to MXP",
		Body:    "Departing 1 June 2025",
		Start:   time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC),
		Folder:  entity.FolderFlight,
		Source:  entity.SourceEmail,
	}

	cal.On("FetchEvents", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("auth failure"))
	mail.On("FetchFolder", mock.Anything, entity.FolderHotel, mock.Anything).Return(nil, errors.New("folder not found"))
	mail.On("FetchFolder", mock.Anything, entity.FolderFlight, mock.Anything).Return([]*entity.RawItem{flightMail}, nil)

	locationRepo.On("ReadAll", mock.Anything).Return(map[string]*entity.LocationRecord{}, nil)
	locationRepo.On("ApplyUpdates", mock.Anything, mock.Anything).Return(nil)
	locationRepo.On("SetLastSyncTimestamp", mock.Anything, mock.Anything).Return(nil)

	o := newTestOrchestrator(cal, mail, locationRepo)
	result, err := o.RunSync(context.Background(), SyncWindow{
		Start: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
	})

	// Failing sources contribute zero bookings, the run still completes
	require.NoError(t, err)
	assert.Equal(t, 1, result.NewCount)
}

func TestSyncBookings_StoreWriteFailureIsFatal(t *testing.T) {
	cal := &MockCalendarSource{}
	mail := &MockMailSource{}
	locationRepo := &MockLocationRepo{}

	item := &entity.RawItem{
		Subject: "Hotel reservation at Casa Mia",
		Start:   time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		Source:  entity.SourceCalendar,
	}

	locationRepo.On("ReadAll", mock.Anything).Return(map[string]*entity.LocationRecord{}, nil)
	locationRepo.On("ApplyUpdates", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	o := newTestOrchestrator(cal, mail, locationRepo)
	_, err := o.SyncBookings(context.Background(), []*entity.RawItem{item})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	locationRepo.AssertNotCalled(t, "SetLastSyncTimestamp", mock.Anything, mock.Anything)
}

func TestSyncBookings_NoItems(t *testing.T) {
	cal := &MockCalendarSource{}
	mail := &MockMailSource{}
	locationRepo := &MockLocationRepo{}

	locationRepo.On("ReadAll", mock.Anything).Return(map[string]*entity.LocationRecord{}, nil)
	locationRepo.On("SetLastSyncTimestamp", mock.Anything, mock.Anything).Return(nil)

	o := newTestOrchestrator(cal, mail, locationRepo)
	result, err := o.SyncBookings(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 0, result.UpdatesApplied)
	locationRepo.AssertNotCalled(t, "ApplyUpdates", mock.Anything, mock.Anything)
}
