package repository

import (
	"context"
	"fmt"
	"strings"

	"residency-sync/internal/domain/entity"
	"residency-sync/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirportRepository implements the AirportRepository interface against a
// Postgres gazetteer table. The table is loaded once at construction: the
// gazetteer is immutable for the lifetime of the service and extraction
// depends on a stable iteration order.
type GormAirportRepository struct {
	codes    []string
	airports map[string]*entity.Airport
}

// AirportList GORM model for database mapping
type AirportList struct {
	ID          uint   `gorm:"primaryKey"`
	AirportCode string `gorm:"column:airportcode;unique"`
	AirportName string `gorm:"column:airport_name"`
	CityName    string `gorm:"column:cityname"`
	CountryName string `gorm:"column:countryname"`
}

// TableName overrides the default table name
func (AirportList) TableName() string {
	return "m_airport_list"
}

// NewGormAirportRepository loads the gazetteer table into memory.
func NewGormAirportRepository(db *gorm.DB) (repository.AirportRepository, error) {
	var rows []AirportList
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load airport gazetteer: %w", err)
	}

	repo := &GormAirportRepository{
		airports: make(map[string]*entity.Airport, len(rows)),
	}
	for _, row := range rows {
		code := strings.ToUpper(row.AirportCode)
		repo.codes = append(repo.codes, code)
		repo.airports[code] = &entity.Airport{
			ID:      row.ID,
			Code:    code,
			Name:    row.AirportName,
			City:    row.CityName,
			Country: row.CountryName,
		}
	}
	return repo, nil
}

// GetByCode finds an airport by IATA code.
func (r *GormAirportRepository) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	airport, ok := r.airports[strings.ToUpper(code)]
	if !ok {
		return nil, repository.ErrAirportNotFound
	}
	return airport, nil
}

// ListCodes returns all codes in table order.
func (r *GormAirportRepository) ListCodes(ctx context.Context) ([]string, error) {
	return r.codes, nil
}
