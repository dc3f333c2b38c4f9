package entity

import (
	"time"

	"carprice/internal/domain/value"
)

// Listing — нормализованное объявление с площадки.
// URL — естественный ключ дедупликации; запись никогда не удаляется физически,
// только помечается неактивной (история нужна для трендов цен).
type Listing struct {
	ID            int64              `json:"id"`
	Source        string             `json:"source"`
	URL           string             `json:"url"`
	Brand         string             `json:"marca"`
	Model         string             `json:"model"`
	ModelSeries   string             `json:"model_series,omitempty"`
	ModelVariant  string             `json:"model_variant,omitempty"`
	Year          int                `json:"an"`
	Mileage       int                `json:"km"`
	PriceEUR      float64            `json:"pret"`
	Fuel          value.FuelType     `json:"combustibil"`
	PowerHP       int                `json:"putere_cp,omitempty"`
	EngineCC      int                `json:"capacitate_cilindrica,omitempty"`
	Transmission  value.Transmission `json:"transmisie,omitempty"`
	Drivetrain    value.Drivetrain   `json:"tractiune,omitempty"`
	Body          value.BodyType     `json:"caroserie,omitempty"`
	Location      string             `json:"locatie"`
	EquipmentTags []string           `json:"dotari"`
	Description   string             `json:"descriere,omitempty"`
	PublishedAt   time.Time          `json:"data_publicare"`
	ScrapedAt     time.Time          `json:"data_scrape"`
	IsActive      bool               `json:"este_activ"`
}
