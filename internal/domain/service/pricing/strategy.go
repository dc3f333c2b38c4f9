package pricing

import (
	"fmt"
	"math"

	"carprice/internal/domain/entity"
)

// Фиксированные подписи ценовых точек. Не зависят от уровня источника.
const (
	durationQuick       = "1-2 săptămâni"
	durationOptimal     = "3-5 săptămâni"
	durationNegotiation = "5-8 săptămâni"
	durationPremium     = "2-4 luni"

	probabilityQuick       = 95
	probabilityOptimal     = 85
	probabilityNegotiation = 70
	probabilityPremium     = 50
)

// strategyFanOut раскладывает финальную цену в четыре точки. Чем выше
// уверенность источника, тем уже разбег скидки/надбавок.
func strategyFanOut(finalPrice float64, confidence int) (quick, optimal, negotiation, premium entity.PricePoint) {
	var quickDiscount, negoMarkup, maxMarkup float64

	switch {
	case confidence >= 90:
		quickDiscount, negoMarkup, maxMarkup = 0.09, 0.05, 0.12
	case confidence >= 70:
		quickDiscount, negoMarkup, maxMarkup = 0.10, 0.04, 0.10
	default:
		quickDiscount, negoMarkup, maxMarkup = 0.12, 0.03, 0.08
	}

	quick = entity.PricePoint{
		Value:              math.Round(finalPrice * (1 - quickDiscount)),
		ExpectedDuration:   durationQuick,
		ProbabilityPercent: probabilityQuick,
		Description:        "Preț atractiv pentru vânzare rapidă garantată",
	}
	optimal = entity.PricePoint{
		Value:              math.Round(finalPrice),
		ExpectedDuration:   durationOptimal,
		ProbabilityPercent: probabilityOptimal,
		Description:        "Cel mai bun raport calitate-preț-timp",
	}
	negotiation = entity.PricePoint{
		Value:              math.Round(finalPrice * (1 + negoMarkup)),
		ExpectedDuration:   durationNegotiation,
		ProbabilityPercent: probabilityNegotiation,
		Description:        "Lasă spațiu pentru negociere",
	}
	premium = entity.PricePoint{
		Value:              math.Round(finalPrice * (1 + maxMarkup)),
		ExpectedDuration:   durationPremium,
		ProbabilityPercent: probabilityPremium,
		Description:        fmt.Sprintf("Pentru cumpărători dispuși să plătească premium (încredere: %d%%)", confidence),
	}

	return quick, optimal, negotiation, premium
}
