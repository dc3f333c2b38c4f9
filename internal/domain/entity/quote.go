package entity

import "time"

// SourceTier — источник базовой цены, от самого надёжного к самому общему.
type SourceTier string

const (
	TierExactMatch       SourceTier = "database_exact"
	TierSimilarMatch     SourceTier = "database_similar"
	TierGenericFormula   SourceTier = "generic_formula"
	TierFilteredDatabase SourceTier = "database_filtered"
)

// PricePoint — одна ценовая стратегия продажи.
type PricePoint struct {
	Value              float64 `json:"valoare"`
	ExpectedDuration   string  `json:"timp"`
	ProbabilityPercent int     `json:"probabilitate"`
	Description        string  `json:"descriere"`
}

// MarketSummary — метаданные о том, откуда взялась оценка.
type MarketSummary struct {
	Source            SourceTier     `json:"source"`
	ConfidencePercent int            `json:"confidence"`
	Description       string         `json:"description"`
	SampleSize        int            `json:"sample_size"`
	TotalListings     int            `json:"total_listings,omitempty"`
	PriceMean         float64        `json:"price_mean,omitempty"`
	PriceMedian       float64        `json:"price_median,omitempty"`
	PriceStdDev       float64        `json:"price_std,omitempty"`
	PriceMin          float64        `json:"price_min,omitempty"`
	PriceMax          float64        `json:"price_max,omitempty"`
	Percentile25      float64        `json:"percentile_25,omitempty"`
	Percentile75      float64        `json:"percentile_75,omitempty"`
	DaysOnMarketAvg   float64        `json:"days_on_market_avg,omitempty"`
	RegionalSpread    map[string]int `json:"regional_distribution,omitempty"`
}

// PriceQuote — полный ответ оценки: четыре ценовые точки + рынок.
type PriceQuote struct {
	Quick          PricePoint    `json:"pret_rapid"`
	Optimal        PricePoint    `json:"pret_optim"`
	Negotiation    PricePoint    `json:"pret_negociere"`
	Premium        PricePoint    `json:"pret_maxim"`
	EquipmentValue float64       `json:"valoare_dotari"`
	Market         MarketSummary `json:"market_data"`
	GeneratedAt    time.Time     `json:"timestamp"`
}
