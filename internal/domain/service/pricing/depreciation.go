package pricing

import (
	"math"

	"carprice/internal/domain/service/catalog"
)

const (
	expectedKmPerYear = 15000

	kmPenaltyPer10k = 0.005
	kmPenaltyCap    = 0.30
	kmBonusPer10k   = 0.003
	kmBonusCap      = 0.15

	// Остаточная стоимость не опускается ниже 5% от цены нового.
	floorShareOfNew = 0.05
)

// GenericDepreciation — формула третьего уровня. Тотальная функция: для любой
// комбинации марки/модели/года/пробега возвращает цену, ошибок не бывает.
// refYear — текущий год (инжектится для тестов).
func GenericDepreciation(brand, model string, year, km, refYear int) float64 {
	category := catalog.BrandCategoryOf(catalog.NormalizeBrand(brand))
	segment := catalog.InferSegment(brand, model)

	basePriceNew := segment.BasePriceEUR() * category.PriceMultiplier()

	yearsOld := refYear - year
	if yearsOld < 0 {
		yearsOld = 0
	}

	agedPrice := basePriceNew * math.Pow(1-category.DepreciationRate(), float64(yearsOld))

	expectedKm := expectedKmPerYear * yearsOld
	kmDiff := float64(km - expectedKm)

	var kmFactor float64
	if kmDiff > 0 {
		penalty := math.Min(kmDiff/10000*kmPenaltyPer10k, kmPenaltyCap)
		kmFactor = 1 - penalty
	} else {
		bonus := math.Min(-kmDiff/10000*kmBonusPer10k, kmBonusCap)
		kmFactor = 1 + bonus
	}

	finalPrice := agedPrice * kmFactor

	minPrice := basePriceNew * floorShareOfNew
	if finalPrice < minPrice {
		finalPrice = minPrice
	}

	return roundTo100(finalPrice)
}

func roundTo100(v float64) float64 {
	return math.Round(v/100) * 100
}
