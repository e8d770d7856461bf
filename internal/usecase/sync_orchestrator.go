package usecase

import (
	"context"
	"fmt"
	"time"

	"residency-sync/internal/domain/entity"
	"residency-sync/internal/domain/repository"
	"residency-sync/pkg/logger"
	"residency-sync/pkg/metrics"
)

// CalendarSource supplies calendar events inside a date window.
type CalendarSource interface {
	FetchEvents(ctx context.Context, from, to time.Time) ([]*entity.RawItem, error)
}

// MailSource supplies emails from a pre-labelled folder received since a
// given floor.
type MailSource interface {
	FetchFolder(ctx context.Context, folder entity.ItemFolder, since time.Time) ([]*entity.RawItem, error)
}

// SyncWindow bounds one sync run. Start doubles as the mail lookback floor.
type SyncWindow struct {
	Start time.Time
	End   time.Time
}

// DefaultSourcePriority keeps calendar bookings over email duplicates:
// calendar events carry more reliable structured dates.
var DefaultSourcePriority = []entity.BookingSource{entity.SourceCalendar, entity.SourceEmail}

// SyncOrchestrator runs the full booking sync: gather raw items, extract
// bookings, dedupe, reconcile against the record store, persist the updates.
type SyncOrchestrator struct {
	calendar     CalendarSource
	mail         MailSource
	extractor    *BookingExtractor
	reconciler   *Reconciler
	locationRepo repository.LocationRecordRepository
	notifier     repository.TravelNotifier
	priority     []entity.BookingSource
	metrics      *metrics.Metrics
	logger       logger.Logger
}

// NewSyncOrchestrator creates the orchestrator. notifier may be nil when no
// conflict webhook is configured.
func NewSyncOrchestrator(
	calendar CalendarSource,
	mail MailSource,
	extractor *BookingExtractor,
	reconciler *Reconciler,
	locationRepo repository.LocationRecordRepository,
	notifier repository.TravelNotifier,
	m *metrics.Metrics,
	logger logger.Logger,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		calendar:     calendar,
		mail:         mail,
		extractor:    extractor,
		reconciler:   reconciler,
		locationRepo: locationRepo,
		notifier:     notifier,
		priority:     DefaultSourcePriority,
		metrics:      m,
		logger:       logger,
	}
}

// RunSync gathers items from the calendar window and both mail folders, then
// syncs whatever was retrieved. A failing source contributes zero bookings
// and the run continues.
func (o *SyncOrchestrator) RunSync(ctx context.Context, window SyncWindow) (*entity.SyncResult, error) {
	started := time.Now()
	var items []*entity.RawItem

	events, err := o.calendar.FetchEvents(ctx, window.Start, window.End)
	if err != nil {
		o.logger.Error("Failed to fetch calendar events", "error", err)
		o.metrics.ErrorsCount.WithLabelValues("fetch_calendar").Inc()
	} else {
		o.metrics.ItemsFetched.WithLabelValues("calendar").Add(float64(len(events)))
		items = append(items, events...)
	}

	for _, folder := range []entity.ItemFolder{entity.FolderHotel, entity.FolderFlight} {
		msgs, err := o.mail.FetchFolder(ctx, folder, window.Start)
		if err != nil {
			o.logger.Error("Failed to fetch mail folder", "folder", folder, "error", err)
			o.metrics.ErrorsCount.WithLabelValues("fetch_mail").Inc()
			continue
		}
		o.metrics.ItemsFetched.WithLabelValues("email").Add(float64(len(msgs)))
		items = append(items, msgs...)
	}

	result, err := o.SyncBookings(ctx, items)
	if err != nil {
		return nil, err
	}

	o.metrics.SyncDuration.Observe(time.Since(started).Seconds())
	return result, nil
}

// SyncBookings is the single entry point both the periodic loop and the
// historical backfill use; only the window passed to RunSync differs.
func (o *SyncOrchestrator) SyncBookings(ctx context.Context, items []*entity.RawItem) (*entity.SyncResult, error) {
	var bookings []*entity.Booking
	for _, item := range items {
		extracted := o.extractor.BookingsFromItem(ctx, item)
		for _, b := range extracted {
			o.metrics.BookingsExtracted.WithLabelValues(string(b.Type)).Inc()
		}
		bookings = append(bookings, extracted...)
	}

	deduped := DedupeBookings(bookings, o.priority)
	o.logger.Info("Extracted bookings",
		"items", len(items),
		"bookings", len(bookings),
		"afterDedup", len(deduped))

	existing, err := o.locationRepo.ReadAll(ctx)
	if err != nil {
		o.metrics.ErrorsCount.WithLabelValues("read_store").Inc()
		return nil, fmt.Errorf("failed to read location records: %w", err)
	}

	updates, stats := o.reconciler.Reconcile(existing, deduped)

	if len(updates) > 0 {
		if err := o.locationRepo.ApplyUpdates(ctx, updates); err != nil {
			o.metrics.ErrorsCount.WithLabelValues("write_store").Inc()
			return nil, fmt.Errorf("failed to apply record updates: %w", err)
		}
	}

	o.notifyConflicts(ctx, updates)

	if err := o.locationRepo.SetLastSyncTimestamp(ctx, time.Now()); err != nil {
		o.logger.Error("Failed to set last sync timestamp", "error", err)
	}

	o.metrics.RecordsNew.Add(float64(stats.New))
	o.metrics.RecordsMerged.Add(float64(stats.Merged))
	o.metrics.RecordsSkipped.Add(float64(stats.Skipped))

	result := &entity.SyncResult{
		UpdatesApplied: len(updates),
		NewCount:       stats.New,
		MergedCount:    stats.Merged,
		SkippedCount:   stats.Skipped,
	}
	o.logger.Info("Sync completed",
		"updates", result.UpdatesApplied,
		"new", result.NewCount,
		"merged", result.MergedCount,
		"skipped", result.SkippedCount)
	return result, nil
}

// notifyConflicts pushes advisory notifications for any date where GPS and
// booking disagree on country. Never resolved automatically, never fatal.
func (o *SyncOrchestrator) notifyConflicts(ctx context.Context, updates map[string]*entity.LocationRecord) {
	if o.notifier == nil {
		return
	}
	for _, record := range updates {
		if record.CountryConflict == "" {
			continue
		}
		if err := o.notifier.NotifyConflict(ctx, record); err != nil {
			o.logger.Error("Failed to send conflict notification",
				"date", record.Date,
				"error", err)
			o.metrics.ErrorsCount.WithLabelValues("notify").Inc()
		}
	}
}
