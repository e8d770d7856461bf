package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"residency-sync/internal/domain/entity"
	"residency-sync/pkg/logger"
)

// SyncStats accumulates reconciliation counters for one run.
type SyncStats struct {
	New     int
	Merged  int
	Skipped int
}

// Reconciler merges freshly extracted bookings into the per-day record store
// snapshot, enforcing precedence rules and producing a minimal update set.
type Reconciler struct {
	logger logger.Logger
}

// NewReconciler creates a reconciler.
func NewReconciler(logger logger.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

func splitFlights(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// MergeFlights unions two comma/whitespace separated flight lists into a
// deduplicated comma-joined string in first-seen order. The union is
// associative and idempotent; only set equality is significant.
func MergeFlights(a, b string) string {
	seen := make(map[string]struct{})
	var out []string
	for _, code := range append(splitFlights(a), splitFlights(b)...) {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return strings.Join(out, ",")
}

// DedupeBookings collapses bookings sharing a (date, type) key across all
// sources of one run. The named source priority decides which occurrence is
// kept; flights from the losers are unioned into the keeper instead of being
// discarded.
func DedupeBookings(bookings []*entity.Booking, priority []entity.BookingSource) []*entity.Booking {
	rank := make(map[entity.BookingSource]int, len(priority))
	for i, s := range priority {
		rank[s] = i
	}

	ordered := make([]*entity.Booking, len(bookings))
	copy(ordered, bookings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank[ordered[i].Source] < rank[ordered[j].Source]
	})

	kept := make(map[string]*entity.Booking)
	var out []*entity.Booking
	for _, b := range ordered {
		key := b.Date + "|" + string(b.Type)
		if first, ok := kept[key]; ok {
			first.Flights = splitFlights(MergeFlights(
				strings.Join(first.Flights, ","),
				strings.Join(b.Flights, ","),
			))
			continue
		}
		c := *b
		kept[key] = &c
		out = append(out, &c)
	}
	return out
}

// Reconcile diffs bookings against the existing per-day snapshot and returns
// the update set to persist; unchanged dates are omitted. The snapshot is
// never mutated, emitted records are copies. A malformed existing record is
// tolerated by treating missing fields as empty.
func (r *Reconciler) Reconcile(existing map[string]*entity.LocationRecord, bookings []*entity.Booking) (map[string]*entity.LocationRecord, SyncStats) {
	updates := make(map[string]*entity.LocationRecord)
	createdDates := make(map[string]struct{})
	mergedDates := make(map[string]struct{})
	var stats SyncStats

	for _, b := range bookings {
		current := updates[b.Date]
		if current == nil {
			current = existing[b.Date]
		}

		if current != nil && current.IsManual() {
			r.logger.Debug("Skipping manually curated day", "date", b.Date)
			stats.Skipped++
			continue
		}

		var merged *entity.LocationRecord
		if current != nil {
			merged = current.Clone()
		} else {
			merged = &entity.LocationRecord{Date: b.Date, CreatedAt: time.Now()}
		}

		changed := current == nil

		// Gap fill only: existing facts always win over booking data.
		if merged.Place == "" && b.Place != "" {
			merged.Place = b.Place
			changed = true
		}
		if merged.City == "" && b.City != "" {
			merged.City = b.City
			changed = true
		}
		if merged.Country == "" && b.Country != "" {
			merged.Country = b.Country
		}

		union := MergeFlights(merged.Flights, strings.Join(b.Flights, ","))
		if len(splitFlights(union)) > len(splitFlights(merged.Flights)) {
			merged.Flights = union
			changed = true
		}

		sourceInfo := auditLine(b)
		if !strings.Contains(merged.BookingSource, sourceInfo) {
			if merged.BookingSource == "" {
				merged.BookingSource = sourceInfo
			} else {
				merged.BookingSource += " | " + sourceInfo
			}
			changed = true
		}

		merged.AutoBooking = true

		if current != nil && current.AutoGps && current.Country != "" && b.Country != "" && current.Country != b.Country {
			merged.CountryConflict = fmt.Sprintf("GPS says %s, booking says %s", current.Country, b.Country)
			r.logger.Warn("Country conflict detected",
				"date", b.Date,
				"gps", current.Country,
				"booking", b.Country)
		}

		if !changed {
			stats.Skipped++
			continue
		}

		merged.UpdatedAt = time.Now()
		updates[b.Date] = merged

		if existing[b.Date] == nil {
			if _, counted := createdDates[b.Date]; !counted {
				createdDates[b.Date] = struct{}{}
				stats.New++
			}
		} else if _, counted := mergedDates[b.Date]; !counted {
			mergedDates[b.Date] = struct{}{}
			stats.Merged++
		}
	}

	return updates, stats
}

const auditRawLimit = 120

// auditLine builds the idempotent "{source}: {raw}" audit entry.
func auditLine(b *entity.Booking) string {
	raw := b.Raw
	if len(raw) > auditRawLimit {
		raw = raw[:auditRawLimit]
	}
	return fmt.Sprintf("%s: %s", b.Source, raw)
}
