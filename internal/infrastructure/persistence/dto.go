package persistence

import (
	"encoding/json"
	"time"

	"carprice/internal/domain/entity"
	"carprice/internal/domain/value"
)

// listingSchema — внутренняя структура для маппинга строки БД.
type listingSchema struct {
	ID            int64     `db:"id"`
	Source        string    `db:"source"`
	URL           string    `db:"url"`
	Brand         string    `db:"brand"`
	Model         string    `db:"model"`
	ModelSeries   string    `db:"model_series"`
	ModelVariant  string    `db:"model_variant"`
	Year          int       `db:"year"`
	Mileage       int       `db:"mileage_km"`
	PriceEUR      float64   `db:"price_eur"`
	Fuel          string    `db:"fuel"`
	PowerHP       int       `db:"power_hp"`
	EngineCC      int       `db:"engine_cc"`
	Transmission  string    `db:"transmission"`
	Drivetrain    string    `db:"drivetrain"`
	Body          string    `db:"body"`
	Location      string    `db:"location"`
	EquipmentTags []byte    `db:"equipment_tags"`
	Description   string    `db:"description"`
	PublishedAt   time.Time `db:"published_at"`
	ScrapedAt     time.Time `db:"scraped_at"`
	IsActive      bool      `db:"is_active"`
}

func (s *listingSchema) toDomain() (entity.Listing, error) {
	var tags []string
	if len(s.EquipmentTags) > 0 {
		if err := json.Unmarshal(s.EquipmentTags, &tags); err != nil {
			return entity.Listing{}, err
		}
	}

	return entity.Listing{
		ID:            s.ID,
		Source:        s.Source,
		URL:           s.URL,
		Brand:         s.Brand,
		Model:         s.Model,
		ModelSeries:   s.ModelSeries,
		ModelVariant:  s.ModelVariant,
		Year:          s.Year,
		Mileage:       s.Mileage,
		PriceEUR:      s.PriceEUR,
		Fuel:          value.FuelType(s.Fuel),
		PowerHP:       s.PowerHP,
		EngineCC:      s.EngineCC,
		Transmission:  value.Transmission(s.Transmission),
		Drivetrain:    value.Drivetrain(s.Drivetrain),
		Body:          value.BodyType(s.Body),
		Location:      s.Location,
		EquipmentTags: tags,
		Description:   s.Description,
		PublishedAt:   s.PublishedAt,
		ScrapedAt:     s.ScrapedAt,
		IsActive:      s.IsActive,
	}, nil
}

func fromListing(l entity.Listing) (map[string]any, error) {
	tagsBytes, err := json.Marshal(l.EquipmentTags)
	if err != nil {
		return nil, err
	}

	scrapedAt := l.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now()
	}

	return map[string]any{
		"source":         l.Source,
		"url":            l.URL,
		"brand":          l.Brand,
		"model":          l.Model,
		"model_series":   l.ModelSeries,
		"model_variant":  l.ModelVariant,
		"year":           l.Year,
		"mileage_km":     l.Mileage,
		"price_eur":      l.PriceEUR,
		"fuel":           string(l.Fuel),
		"power_hp":       l.PowerHP,
		"engine_cc":      l.EngineCC,
		"transmission":   string(l.Transmission),
		"drivetrain":     string(l.Drivetrain),
		"body":           string(l.Body),
		"location":       l.Location,
		"equipment_tags": tagsBytes,
		"description":    l.Description,
		"published_at":   l.PublishedAt,
		"scraped_at":     scrapedAt,
		"is_active":      l.IsActive,
	}, nil
}
