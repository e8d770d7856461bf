package gcal

import (
	"context"
	"fmt"
	"time"

	"residency-sync/internal/domain/entity"
	"residency-sync/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarSource reads events from a Google Calendar
type CalendarSource struct {
	service    *calendar.Service
	calendarID string
	logger     logger.Logger
}

// NewCalendarSource creates a new Calendar-backed item source.
func NewCalendarSource(ctx context.Context, tokenSource oauth2.TokenSource, calendarID string, logger logger.Logger) (*CalendarSource, error) {
	service, err := calendar.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &CalendarSource{
		service:    service,
		calendarID: calendarID,
		logger:     logger,
	}, nil
}

// FetchEvents fetches single events inside the window and converts them to
// raw items. Recurring events are expanded by the API.
func (s *CalendarSource) FetchEvents(ctx context.Context, from, to time.Time) ([]*entity.RawItem, error) {
	resp, err := s.service.Events.List(s.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}

	var items []*entity.RawItem
	for _, event := range resp.Items {
		item := s.convertToItem(event)
		if item == nil {
			continue
		}
		items = append(items, item)
	}

	s.logger.Info("Calendar fetch completed",
		"calendarID", s.calendarID,
		"totalEvents", len(resp.Items),
		"converted", len(items))
	return items, nil
}

// convertToItem converts a calendar event to a raw item. Events without a
// parseable start time are dropped.
func (s *CalendarSource) convertToItem(event *calendar.Event) *entity.RawItem {
	start, ok := parseEventTime(event.Start)
	if !ok {
		s.logger.Debug("Skipping event without start time", "summary", event.Summary)
		return nil
	}

	item := &entity.RawItem{
		Subject:  event.Summary,
		Body:     event.Description,
		Location: event.Location,
		Start:    start,
		Source:   entity.SourceCalendar,
	}

	if end, ok := parseEventTime(event.End); ok {
		item.End = end
		item.HasEnd = true
	}
	return item
}

// parseEventTime handles both timed and all-day event boundaries.
func parseEventTime(edt *calendar.EventDateTime) (time.Time, bool) {
	if edt == nil {
		return time.Time{}, false
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t, true
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse(entity.DayLayout, edt.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
