package repository

import (
	"context"

	"residency-sync/internal/domain/entity"
)

// TravelNotifier pushes advisory notifications about reconciliation outcomes
// to an external endpoint. Delivery failure is never fatal to a sync run.
type TravelNotifier interface {
	NotifyConflict(ctx context.Context, record *entity.LocationRecord) error
}
