package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"carprice/internal/domain/entity"
	"carprice/internal/domain/service/pricing"
)

// comparablesRepoStub диспетчеризует запросы по наличию Model в фильтре:
// точный уровень всегда запрашивает модель, широкий — только марку.
type comparablesRepoStub struct {
	exact      []entity.Listing
	similar    []entity.Listing
	err        error
	callsCount int
}

func (s *comparablesRepoStub) FindComparables(_ context.Context, query entity.ListingQuery) ([]entity.Listing, error) {
	s.callsCount++

	if s.err != nil {
		return nil, s.err
	}

	if query.Model != "" {
		return s.exact, nil
	}

	return s.similar, nil
}

func listingsWithPrices(prices ...float64) []entity.Listing {
	listings := make([]entity.Listing, 0, len(prices))
	for _, p := range prices {
		listings = append(listings, entity.Listing{PriceEUR: p, IsActive: true})
	}

	return listings
}

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
}

func TestEstimatePrice_ExactTier(t *testing.T) {
	rq := require.New(t)

	repo := &comparablesRepoStub{
		exact: listingsWithPrices(10000, 12000, 11000),
	}

	engine := pricing.NewEngine(repo).WithClock(fixedClock(2025))

	quote := engine.EstimatePrice(context.Background(), entity.Vehicle{
		Brand:       "Volkswagen",
		ModelSeries: "Golf",
		Year:        2019,
		MileageKm:   90000,
	})

	rq.Equal(entity.TierExactMatch, quote.Market.Source)
	rq.Equal(95, quote.Market.ConfidencePercent)
	rq.Equal(3, quote.Market.SampleSize)
	rq.InDelta(11000, quote.Optimal.Value, 0.5)
	rq.InDelta(11000*0.91, quote.Quick.Value, 1)
	rq.InDelta(11000*1.05, quote.Negotiation.Value, 1)
	rq.InDelta(11000*1.12, quote.Premium.Value, 1)
}

func TestEstimatePrice_SimilarTierWhenExactInsufficient(t *testing.T) {
	rq := require.New(t)

	repo := &comparablesRepoStub{
		exact:   listingsWithPrices(10000, 12000), // меньше трёх
		similar: listingsWithPrices(9000, 10000, 11000, 12000, 13000),
	}

	engine := pricing.NewEngine(repo).WithClock(fixedClock(2025))

	quote := engine.EstimatePrice(context.Background(), entity.Vehicle{
		Brand:       "Volkswagen",
		ModelSeries: "Golf",
		Year:        2019,
		MileageKm:   90000,
	})

	rq.Equal(entity.TierSimilarMatch, quote.Market.Source)
	rq.Equal(75, quote.Market.ConfidencePercent)
	rq.Equal(5, quote.Market.SampleSize)
	rq.InDelta(11000, quote.Optimal.Value, 0.5)
}

func TestEstimatePrice_ExactWinsOverSimilar(t *testing.T) {
	rq := require.New(t)

	repo := &comparablesRepoStub{
		exact:   listingsWithPrices(20000, 20000, 20000),
		similar: listingsWithPrices(5000, 5000, 5000, 5000, 5000),
	}

	engine := pricing.NewEngine(repo).WithClock(fixedClock(2025))

	quote := engine.EstimatePrice(context.Background(), entity.Vehicle{
		Brand:       "BMW",
		ModelSeries: "Seria 3",
		Year:        2020,
		MileageKm:   60000,
	})

	rq.Equal(entity.TierExactMatch, quote.Market.Source)
	rq.InDelta(20000, quote.Optimal.Value, 0.5)
}

func TestEstimatePrice_GenericFallbackOnRepoError(t *testing.T) {
	rq := require.New(t)

	repo := &comparablesRepoStub{err: errors.New("connection refused")}

	engine := pricing.NewEngine(repo).WithClock(fixedClock(2025))

	quote := engine.EstimatePrice(context.Background(), entity.Vehicle{
		Brand:       "Dacia",
		ModelSeries: "Logan",
		Year:        2020,
		MileageKm:   75000,
	})

	rq.Equal(entity.TierGenericFormula, quote.Market.Source)
	rq.Equal(60, quote.Market.ConfidencePercent)
	rq.Greater(quote.Optimal.Value, 0.0)
}

func TestEstimatePrice_NeverFails(t *testing.T) {
	rq := require.New(t)

	// Марка вне каталога, отрицательный пробег, год из будущего:
	// оценка обязана вернуться для любого входа.
	vehicles := []entity.Vehicle{
		{Brand: "Zzz Motors", ModelSeries: "Unknown", Year: 2018, MileageKm: 100000},
		{Brand: "", ModelSeries: "", Year: 0, MileageKm: 0},
		{Brand: "Dacia", ModelSeries: "Logan", Year: 2030, MileageKm: -5},
	}

	engine := pricing.NewEngine(&comparablesRepoStub{}).WithClock(fixedClock(2025))

	for _, v := range vehicles {
		quote := engine.EstimatePrice(context.Background(), v)

		rq.Greater(quote.Optimal.Value, 0.0)
		rq.GreaterOrEqual(quote.Premium.Value, quote.Optimal.Value)
		rq.LessOrEqual(quote.Quick.Value, quote.Optimal.Value)
	}
}

func TestEstimatePrice_QuoteCached(t *testing.T) {
	rq := require.New(t)

	repo := &comparablesRepoStub{
		exact: listingsWithPrices(10000, 11000, 12000),
	}

	engine := pricing.NewEngine(repo).WithClock(fixedClock(2025))

	vehicle := entity.Vehicle{Brand: "Audi", ModelSeries: "A4", Year: 2019, MileageKm: 80000}

	first := engine.EstimatePrice(context.Background(), vehicle)
	callsAfterFirst := repo.callsCount

	second := engine.EstimatePrice(context.Background(), vehicle)

	rq.Equal(first, second)
	rq.Equal(callsAfterFirst, repo.callsCount)
}

func TestEstimatePrice_EquipmentAdditive(t *testing.T) {
	rq := require.New(t)

	repo := &comparablesRepoStub{
		exact: listingsWithPrices(10000, 10000, 10000),
	}

	engine := pricing.NewEngine(repo).WithClock(fixedClock(2025))

	bare := engine.EstimatePrice(context.Background(), entity.Vehicle{
		Brand: "Skoda", ModelSeries: "Octavia", Year: 2020, MileageKm: 70000,
	})
	equipped := engine.EstimatePrice(context.Background(), entity.Vehicle{
		Brand: "Skoda", ModelSeries: "Octavia", Year: 2020, MileageKm: 70000,
		EquipmentTags: []string{"piele", "navigatie"},
	})

	rq.Zero(bare.EquipmentValue)
	rq.Greater(equipped.EquipmentValue, 0.0)
	rq.Greater(equipped.Optimal.Value, bare.Optimal.Value)
}

func TestEstimatePrice_CacheDistinguishesEquipment(t *testing.T) {
	rq := require.New(t)

	repo := &comparablesRepoStub{
		exact: listingsWithPrices(10000, 10000, 10000),
	}

	engine := pricing.NewEngine(repo).WithClock(fixedClock(2025))

	plain := entity.Vehicle{Brand: "Skoda", ModelSeries: "Octavia", Year: 2020, MileageKm: 70000}

	equipped := plain
	equipped.EquipmentTags = []string{"piele", "navigatie"}

	// Пустая комплектация попадает в кэш первой и не должна перекрывать
	// ту же машину с опциями.
	bareQuote := engine.EstimatePrice(context.Background(), plain)
	equippedQuote := engine.EstimatePrice(context.Background(), equipped)

	rq.Greater(equippedQuote.EquipmentValue, 0.0)
	rq.Greater(equippedQuote.Optimal.Value, bareQuote.Optimal.Value)

	// Порядок тегов не плодит записи кэша.
	reordered := plain
	reordered.EquipmentTags = []string{"navigatie", "piele"}

	callsBefore := repo.callsCount
	reorderedQuote := engine.EstimatePrice(context.Background(), reordered)

	rq.Equal(equippedQuote, reorderedQuote)
	rq.Equal(callsBefore, repo.callsCount)

	// И исходная запись без опций осталась нетронутой.
	rq.Equal(bareQuote, engine.EstimatePrice(context.Background(), plain))
}

func TestGenericDepreciation(t *testing.T) {
	rq := require.New(t)

	const refYear = 2025

	testCases := []struct {
		name     string
		brand    string
		model    string
		year     int
		km       int
		expected float64
	}{
		{
			// Budget: база 20000 * 0.8, 5 лет по 9%, пробег ровно ожидаемый.
			name:  "Dacia Logan 5 years expected mileage",
			brand: "Dacia", model: "Logan", year: 2020, km: 75000,
			expected: 10000,
		},
		{
			// Тот же Logan с перепробегом 75 тыс: штраф 3.75%.
			name:  "Dacia Logan 5 years high mileage",
			brand: "Dacia", model: "Logan", year: 2020, km: 150000,
			expected: 9600,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := pricing.GenericDepreciation(tc.brand, tc.model, tc.year, tc.km, refYear)
			require.Equal(t, tc.expected, got)
		})
	}

	t.Run("unknown brand still prices", func(t *testing.T) {
		got := pricing.GenericDepreciation("Zzz Motors", "Whatever", 2018, 100000, refYear)
		rq.Greater(got, 0.0)
	})

	t.Run("future year clamps to new", func(t *testing.T) {
		fresh := pricing.GenericDepreciation("Dacia", "Logan", refYear+3, 0, refYear)
		current := pricing.GenericDepreciation("Dacia", "Logan", refYear, 0, refYear)
		rq.Equal(current, fresh)
	})

	t.Run("older is cheaper", func(t *testing.T) {
		newer := pricing.GenericDepreciation("Volkswagen", "Golf", 2022, 45000, refYear)
		older := pricing.GenericDepreciation("Volkswagen", "Golf", 2015, 150000, refYear)
		rq.Greater(newer, older)
	})

	t.Run("more km is cheaper", func(t *testing.T) {
		low := pricing.GenericDepreciation("Volkswagen", "Golf", 2019, 60000, refYear)
		high := pricing.GenericDepreciation("Volkswagen", "Golf", 2019, 220000, refYear)
		rq.Greater(low, high)
	})

	t.Run("floor holds for very old cars", func(t *testing.T) {
		got := pricing.GenericDepreciation("Dacia", "Logan", 1995, 900000, refYear)
		rq.GreaterOrEqual(got, 800.0) // 5% от 16000
	})
}

func TestEquipmentValue(t *testing.T) {
	rq := require.New(t)

	rq.Zero(pricing.EquipmentValue(nil, 5))
	rq.Zero(pricing.EquipmentValue([]string{"inexistent"}, 5))

	// Новая машина: опции по номиналу.
	rq.InDelta(1500, pricing.EquipmentValue([]string{"piele"}, 0), 0.01)
	rq.InDelta(2700, pricing.EquipmentValue([]string{"piele", "navigatie"}, 0), 0.01)

	// С возрастом остаточная стоимость падает, но не уходит в минус.
	aged := pricing.EquipmentValue([]string{"piele"}, 10)
	rq.Greater(aged, 0.0)
	rq.Less(aged, 1500.0)

	// Отрицательный возраст трактуется как новый.
	rq.InDelta(1500, pricing.EquipmentValue([]string{"piele"}, -3), 0.01)
}

func TestEmpiricalQuote(t *testing.T) {
	rq := require.New(t)

	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	t.Run("too few listings", func(t *testing.T) {
		_, ok := pricing.EmpiricalQuote(listingsWithPrices(10000, 11000, 12000, 13000), now)
		rq.False(ok)
	})

	t.Run("zero prices excluded", func(t *testing.T) {
		_, ok := pricing.EmpiricalQuote(listingsWithPrices(10000, 11000, 12000, 13000, 0), now)
		rq.False(ok)
	})

	t.Run("percentile layout", func(t *testing.T) {
		listings := listingsWithPrices(8000, 9000, 10000, 11000, 12000, 13000, 14000, 15000)

		quote, ok := pricing.EmpiricalQuote(listings, now)
		rq.True(ok)

		rq.Equal(entity.TierFilteredDatabase, quote.Market.Source)
		rq.Equal(8, quote.Market.SampleSize)
		rq.Equal(60+2*8, quote.Market.ConfidencePercent)

		rq.LessOrEqual(quote.Quick.Value, quote.Optimal.Value)
		rq.LessOrEqual(quote.Optimal.Value, quote.Premium.Value)
		rq.Equal(quote.Market.PriceMedian, quote.Optimal.Value)
	})

	t.Run("confidence capped at 95", func(t *testing.T) {
		prices := make([]float64, 30)
		for i := range prices {
			prices[i] = 10000 + float64(i)*100
		}

		quote, ok := pricing.EmpiricalQuote(listingsWithPrices(prices...), now)
		rq.True(ok)
		rq.Equal(95, quote.Market.ConfidencePercent)
	})
}
