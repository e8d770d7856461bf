package repository

import (
	"context"
	"errors"

	"residency-sync/internal/domain/entity"
)

// ErrAirportNotFound is returned when a code is not in the gazetteer.
var ErrAirportNotFound = errors.New("airport code not found")

// AirportRepository is the immutable airport gazetteer injected into the
// extractors. ListCodes must return a stable iteration order: extraction
// results depend on it.
type AirportRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airport, error)
	ListCodes(ctx context.Context) ([]string, error)
}
