package repository

import (
	"context"
	"testing"

	"residency-sync/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticAirportRepository_GetByCode(t *testing.T) {
	repo := NewStaticAirportRepository()
	ctx := context.Background()

	lhr, err := repo.GetByCode(ctx, "LHR")
	require.NoError(t, err)
	assert.Equal(t, "London", lhr.City)
	assert.Equal(t, "UK", lhr.Country)

	mxp, err := repo.GetByCode(ctx, "mxp")
	require.NoError(t, err)
	assert.Equal(t, "Milan", mxp.City)
	assert.Equal(t, "Italy", mxp.Country)
}

func TestStaticAirportRepository_GetByCode_Unknown(t *testing.T) {
	repo := NewStaticAirportRepository()

	_, err := repo.GetByCode(context.Background(), "ZZZ")
	assert.ErrorIs(t, err, repository.ErrAirportNotFound)
}

func TestStaticAirportRepository_ListCodes(t *testing.T) {
	repo := NewStaticAirportRepository()

	first, err := repo.ListCodes(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Iteration order is stable across calls.
	second, err := repo.ListCodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for _, code := range first {
		_, err := repo.GetByCode(context.Background(), code)
		assert.NoError(t, err)
	}
}
