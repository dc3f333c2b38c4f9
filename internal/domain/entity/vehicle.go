package entity

import "carprice/internal/domain/value"

// Vehicle — машина, которую оценивает пользователь.
// Неизменяема в рамках одного запроса оценки.
type Vehicle struct {
	Brand         string
	ModelSeries   string
	Year          int
	MileageKm     int
	Fuel          value.FuelType
	Transmission  value.Transmission
	Drivetrain    value.Drivetrain
	Body          value.BodyType
	EquipmentTags []string
}
