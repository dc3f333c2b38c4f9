package pricing

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"carprice/internal/domain/entity"
)

const (
	quoteCacheTTL = 5 * time.Minute

	minExactMatches   = 3
	minSimilarMatches = 5

	exactYearSpread = 1
	exactKmSpread   = 20000

	similarYearSpread = 3
	similarKmSpread   = 50000

	confidenceExact   = 95
	confidenceSimilar = 75
	confidenceGeneric = 60
)

type ComparablesRepository interface {
	FindComparables(ctx context.Context, query entity.ListingQuery) ([]entity.Listing, error)
}

// Engine — ядро оценки. Контракт: EstimatePrice никогда не возвращает ошибку
// и никогда не паникует наружу — третий уровень (формула) тотален, а
// recover-гард на входе переводит любой неожиданный сбой в формульный ответ.
type Engine struct {
	listings   ComparablesRepository
	now        func() time.Time
	quoteCache *cache.Cache
}

func NewEngine(listings ComparablesRepository) *Engine {
	return &Engine{
		listings:   listings,
		now:        time.Now,
		quoteCache: cache.New(quoteCacheTTL, quoteCacheTTL),
	}
}

// WithClock подменяет источник времени (для тестов).
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// tierResult — кандидат одного уровня: чем меньше level, тем выше доверие.
type tierResult struct {
	level       int
	source      entity.SourceTier
	price       float64
	confidence  int
	sampleSize  int
	description string
}

// EstimatePrice прогоняет лестницу уровней и собирает квоту.
func (e *Engine) EstimatePrice(ctx context.Context, vehicle entity.Vehicle) (quote entity.PriceQuote) {
	defer func() {
		if rec := recover(); rec != nil {
			logger(ctx).Error("pricing engine panic, falling back to generic formula", "panic", rec)
			quote = e.genericQuote(vehicle)
		}
	}()

	cacheKey := quoteCacheKey(vehicle)
	if cached, found := e.quoteCache.Get(cacheKey); found {
		return cached.(entity.PriceQuote)
	}

	// Все кандидаты считаются независимо; побеждает минимальный level.
	// Третий уровень присутствует всегда, поэтому выбор не бывает пустым.
	candidates := []tierResult{e.genericTier(vehicle)}

	if exact, ok := e.exactTier(ctx, vehicle); ok {
		candidates = append(candidates, exact)
	}

	if similar, ok := e.similarTier(ctx, vehicle); ok {
		candidates = append(candidates, similar)
	}

	best := lo.MinBy(candidates, func(a, b tierResult) bool {
		return a.level < b.level
	})

	quote = e.buildQuote(vehicle, best)

	e.quoteCache.Set(cacheKey, quote, cache.DefaultExpiration)

	return quote
}

// exactTier — уровень 1: та же марка и модель, год ±1, пробег ±20 тыс.
func (e *Engine) exactTier(ctx context.Context, vehicle entity.Vehicle) (tierResult, bool) {
	comparables, err := e.listings.FindComparables(ctx, entity.ListingQuery{
		Brand:      vehicle.Brand,
		Model:      vehicle.ModelSeries,
		YearMin:    vehicle.Year - exactYearSpread,
		YearMax:    vehicle.Year + exactYearSpread,
		KmMin:      max(0, vehicle.MileageKm-exactKmSpread),
		KmMax:      vehicle.MileageKm + exactKmSpread,
		ActiveOnly: true,
	})
	if err != nil {
		// Недоступность хранилища — не ошибка оценки, просто уровень выпал.
		logger(ctx).Warn("exact tier unavailable", "error", err)
		return tierResult{}, false
	}

	if len(comparables) < minExactMatches {
		return tierResult{}, false
	}

	return tierResult{
		level:       1,
		source:      entity.TierExactMatch,
		price:       meanPrice(comparables),
		confidence:  confidenceExact,
		sampleSize:  len(comparables),
		description: fmt.Sprintf("Date reale din %d anunțuri similare", len(comparables)),
	}, true
}

// similarTier — уровень 2: только марка, год ±3, пробег ±50 тыс.
func (e *Engine) similarTier(ctx context.Context, vehicle entity.Vehicle) (tierResult, bool) {
	comparables, err := e.listings.FindComparables(ctx, entity.ListingQuery{
		Brand:      vehicle.Brand,
		YearMin:    vehicle.Year - similarYearSpread,
		YearMax:    vehicle.Year + similarYearSpread,
		KmMin:      max(0, vehicle.MileageKm-similarKmSpread),
		KmMax:      vehicle.MileageKm + similarKmSpread,
		ActiveOnly: true,
	})
	if err != nil {
		logger(ctx).Warn("similar tier unavailable", "error", err)
		return tierResult{}, false
	}

	if len(comparables) < minSimilarMatches {
		return tierResult{}, false
	}

	return tierResult{
		level:       2,
		source:      entity.TierSimilarMatch,
		price:       meanPrice(comparables),
		confidence:  confidenceSimilar,
		sampleSize:  len(comparables),
		description: fmt.Sprintf("Date din %d mașini similare", len(comparables)),
	}, true
}

// genericTier — уровень 3, присутствует всегда.
func (e *Engine) genericTier(vehicle entity.Vehicle) tierResult {
	return tierResult{
		level:       3,
		source:      entity.TierGenericFormula,
		price:       GenericDepreciation(vehicle.Brand, vehicle.ModelSeries, vehicle.Year, vehicle.MileageKm, e.now().Year()),
		confidence:  confidenceGeneric,
		sampleSize:  0,
		description: "Calcul bazat pe formula standard de depreciere",
	}
}

func (e *Engine) buildQuote(vehicle entity.Vehicle, best tierResult) entity.PriceQuote {
	carAge := e.now().Year() - vehicle.Year
	equipmentValue := EquipmentValue(vehicle.EquipmentTags, carAge)

	finalPrice := best.price + equipmentValue

	quick, optimal, negotiation, premium := strategyFanOut(finalPrice, best.confidence)

	return entity.PriceQuote{
		Quick:          quick,
		Optimal:        optimal,
		Negotiation:    negotiation,
		Premium:        premium,
		EquipmentValue: math.Round(equipmentValue*100) / 100,
		Market: entity.MarketSummary{
			Source:            best.source,
			ConfidencePercent: best.confidence,
			Description:       best.description,
			SampleSize:        best.sampleSize,
		},
		GeneratedAt: e.now(),
	}
}

// genericQuote — аварийный путь recover-гарда, без обращения к хранилищу.
func (e *Engine) genericQuote(vehicle entity.Vehicle) entity.PriceQuote {
	return e.buildQuote(vehicle, e.genericTier(vehicle))
}

// quoteCacheKey включает опции: их стоимость входит в итоговую цену,
// поэтому машины с разной комплектацией — разные записи кэша.
func quoteCacheKey(vehicle entity.Vehicle) string {
	tags := slices.Clone(vehicle.EquipmentTags)
	slices.Sort(tags)

	return fmt.Sprintf("%s|%s|%d|%d|%s",
		vehicle.Brand, vehicle.ModelSeries, vehicle.Year, vehicle.MileageKm,
		strings.Join(tags, ","))
}

func meanPrice(comparables []entity.Listing) float64 {
	prices := make([]float64, 0, len(comparables))
	for _, l := range comparables {
		prices = append(prices, l.PriceEUR)
	}

	return meanOf(prices)
}
