package repository

import (
	"context"
	"time"

	"residency-sync/internal/domain/entity"
)

// LocationRecordRepository defines the interface for the per-day record store.
// Both calls are single-writer atomic; callers serialize sync runs.
type LocationRecordRepository interface {
	ReadAll(ctx context.Context) (map[string]*entity.LocationRecord, error)
	ApplyUpdates(ctx context.Context, updates map[string]*entity.LocationRecord) error
	SetLastSyncTimestamp(ctx context.Context, at time.Time) error
}
