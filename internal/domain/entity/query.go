package entity

import (
	"time"

	"carprice/internal/domain/value"
)

// ListingQuery — фильтр выборки сопоставимых объявлений.
// Пустые строковые поля и нулевые enum-ы означают "без ограничения".
type ListingQuery struct {
	Brand        string
	Model        string
	YearMin      int
	YearMax      int
	KmMin        int
	KmMax        int
	Fuel         value.FuelType
	Transmission value.Transmission
	Body         value.BodyType
	ActiveOnly   bool
	// FreshSince — объявления, собранные не раньше этого момента.
	// Нулевое время отключает проверку свежести.
	FreshSince time.Time
	Limit      int
}
