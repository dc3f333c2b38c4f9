package config

import "time"

// Scraper — параметры сбора объявлений. Значения по умолчанию подобраны под
// rate limit площадки, уменьшать их стоит только в тестовых окружениях.
type Scraper struct {
	RequestDelay   time.Duration `env:"SCRAPER_REQUEST_DELAY" envDefault:"10s"`
	RequestTimeout time.Duration `env:"SCRAPER_REQUEST_TIMEOUT" envDefault:"30s"`
	MaxPages       int           `env:"SCRAPER_MAX_PAGES" envDefault:"2"`
	Freshness      time.Duration `env:"SCRAPER_FRESHNESS" envDefault:"24h"`
	MinListings    int           `env:"SCRAPER_MIN_LISTINGS" envDefault:"5"`
}
