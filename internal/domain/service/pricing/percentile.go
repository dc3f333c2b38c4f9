package pricing

import (
	"fmt"
	"math"
	"sort"
	"time"

	"carprice/internal/domain/entity"
)

// minListingsForEmpirical — минимальная выборка для эмпирического режима.
const minListingsForEmpirical = 5

// EmpiricalQuote строит квоту напрямую из реальных цен, без формулы:
// quick = 25-й перцентиль, optimal = медиана, negotiation = среднее,
// premium = 75-й перцентиль. Используется авто-сбором, когда после
// скрейпинга данных достаточно. false — выборка мала, режим неприменим.
func EmpiricalQuote(comparables []entity.Listing, now time.Time) (entity.PriceQuote, bool) {
	prices := make([]float64, 0, len(comparables))
	for _, l := range comparables {
		if l.PriceEUR > 0 {
			prices = append(prices, l.PriceEUR)
		}
	}

	if len(prices) < minListingsForEmpirical {
		return entity.PriceQuote{}, false
	}

	sort.Float64s(prices)

	n := len(prices)
	p10 := prices[n/10]
	p25 := prices[n/4]
	median := prices[n/2]
	p75 := prices[n*3/4]
	p90 := prices[n*9/10]
	mean := meanOf(prices)

	confidence := 60 + 2*n
	if confidence > 95 {
		confidence = 95
	}

	quote := entity.PriceQuote{
		Quick: entity.PricePoint{
			Value:              math.Round(p25*100) / 100,
			ExpectedDuration:   "1-2 săptămâni",
			ProbabilityPercent: probabilityQuick,
			Description:        "Vânzare rapidă (sub medie)",
		},
		Optimal: entity.PricePoint{
			Value:              math.Round(median*100) / 100,
			ExpectedDuration:   "2-4 săptămâni",
			ProbabilityPercent: probabilityOptimal,
			Description:        "Preț optim (median piață)",
		},
		Negotiation: entity.PricePoint{
			Value:              math.Round(mean*100) / 100,
			ExpectedDuration:   "1-2 luni",
			ProbabilityPercent: probabilityNegotiation,
			Description:        "Preț de pornire negociere",
		},
		Premium: entity.PricePoint{
			Value:              math.Round(p75*100) / 100,
			ExpectedDuration:   "2-3 luni",
			ProbabilityPercent: probabilityPremium,
			Description:        "Preț maxim realist",
		},
		Market: entity.MarketSummary{
			Source:            entity.TierFilteredDatabase,
			ConfidencePercent: confidence,
			Description:       fmt.Sprintf("Analiză bazată pe %d anunțuri reale", n),
			SampleSize:        n,
			TotalListings:     len(comparables),
			PriceMean:         math.Round(mean*100) / 100,
			PriceMedian:       median,
			PriceStdDev:       math.Round(stdDevOf(prices, mean)*100) / 100,
			PriceMin:          p10,
			PriceMax:          p90,
			Percentile25:      p25,
			Percentile75:      p75,
			DaysOnMarketAvg:   avgDaysOnMarket(comparables, now),
			RegionalSpread:    regionalSpread(comparables),
		},
		GeneratedAt: now,
	}

	return quote, true
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

func stdDevOf(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}

	return math.Sqrt(sum / float64(len(values)))
}

func avgDaysOnMarket(comparables []entity.Listing, now time.Time) float64 {
	var (
		sum   float64
		count int
	)

	for _, l := range comparables {
		if l.PublishedAt.IsZero() {
			continue
		}

		sum += now.Sub(l.PublishedAt).Hours() / 24
		count++
	}

	if count == 0 {
		return 0
	}

	return math.Round(sum/float64(count)*10) / 10
}

func regionalSpread(comparables []entity.Listing) map[string]int {
	spread := make(map[string]int)

	for _, l := range comparables {
		if l.Location == "" {
			continue
		}

		spread[l.Location]++
	}

	return spread
}
