package worker

import (
	"context"
	"time"

	"carprice/internal/domain/entity"
	"carprice/internal/domain/service/pricing"
	"carprice/internal/domain/value"
	"carprice/internal/infrastructure/olx"
)

const (
	defaultFreshness   = 24 * time.Hour
	defaultMinListings = 5

	// Пробег по умолчанию для формульного фолбэка, когда пользователь
	// не указал диапазон: типичная подержанная машина на площадке.
	fallbackMileageKm = 150000
)

// ListingStore — хранилище объявлений, нужное сборщику.
type ListingStore interface {
	FindComparables(ctx context.Context, query entity.ListingQuery) ([]entity.Listing, error)
	UpsertBatch(ctx context.Context, listings []entity.Listing) (saved, duplicates int, err error)
}

// Scraper собирает объявления с площадки.
type Scraper interface {
	SearchCars(ctx context.Context, brand string, filter olx.SearchFilter) ([]entity.Listing, error)
}

// AcquisitionRequest — параметры анализа с авто-сбором.
type AcquisitionRequest struct {
	Brand        string
	Model        string
	YearMin      int
	YearMax      int
	KmMin        int
	KmMax        int
	Fuel         value.FuelType
	Transmission value.Transmission
	Body         value.BodyType
	// EquipmentTags влияют только на формульный фолбэк: эмпирическая оценка
	// уже включает стоимость опций в рыночные цены.
	EquipmentTags []string
}

// Acquirer отвечает за свежесть рыночных данных: сначала база, при нехватке
// свежих объявлений — скрейпинг с фильтрами пользователя, затем пересчёт.
type Acquirer struct {
	store   ListingStore
	scraper Scraper
	engine  *pricing.Engine

	freshness   time.Duration
	minListings int
	now         func() time.Time
}

func NewAcquirer(store ListingStore, scraper Scraper, engine *pricing.Engine) *Acquirer {
	return &Acquirer{
		store:       store,
		scraper:     scraper,
		engine:      engine,
		freshness:   defaultFreshness,
		minListings: defaultMinListings,
		now:         time.Now,
	}
}

// WithFreshness задаёт срок, в течение которого собранные данные считаются
// актуальными.
func (a *Acquirer) WithFreshness(d time.Duration) *Acquirer {
	if d > 0 {
		a.freshness = d
	}
	return a
}

// WithMinListings задаёт минимальную выборку для эмпирической оценки.
func (a *Acquirer) WithMinListings(n int) *Acquirer {
	if n > 0 {
		a.minListings = n
	}
	return a
}

// WithClock подменяет источник времени (для тестов).
func (a *Acquirer) WithClock(now func() time.Time) *Acquirer {
	a.now = now
	return a
}

// AnalyzeWithAcquisition — анализ с авто-сбором. Никогда не возвращает ошибку:
// при любом сбое скрейпинга или базы остаётся формульная оценка.
func (a *Acquirer) AnalyzeWithAcquisition(ctx context.Context, req AcquisitionRequest) entity.PriceQuote {
	// Свежесть проверяется прямо в запросе к базе, без выборки устаревших строк.
	fresh := a.findComparables(ctx, req, a.now().Add(-a.freshness))

	logger(ctx).Info("analysis data check",
		"brand", req.Brand, "model", req.Model, "fresh", len(fresh))

	comparables := fresh
	if len(fresh) < a.minListings {
		if _, err := a.Acquire(ctx, req, nil); err != nil {
			logger(ctx).Warn("acquisition failed, continuing with stale data", "error", err)
		}

		// После дозаполнения считаем по всем активным объявлениям, включая
		// устаревшие: для цены лучше широкая выборка, чем пустая.
		comparables = a.findComparables(ctx, req, time.Time{})
	}

	if len(comparables) >= a.minListings {
		if quote, ok := pricing.EmpiricalQuote(comparables, a.now()); ok {
			return quote
		}
	}

	return a.engine.EstimatePrice(ctx, a.fallbackVehicle(req))
}

// Acquire выполняет один цикл сбора: скрейпинг с фильтрами и сохранение
// с дедупликацией. progress может быть nil.
func (a *Acquirer) Acquire(ctx context.Context, req AcquisitionRequest, progress func(int)) (entity.AcquisitionTask, error) {
	report := func(p int) {
		if progress != nil {
			progress(p)
		}
	}

	report(25)

	scraped, err := a.scraper.SearchCars(ctx, req.Brand, olx.SearchFilter{
		Model:        req.Model,
		YearFrom:     req.YearMin,
		YearTo:       req.YearMax,
		KmFrom:       req.KmMin,
		KmTo:         req.KmMax,
		Fuel:         req.Fuel,
		Body:         req.Body,
		Transmission: req.Transmission,
	})
	if err != nil {
		scrapesTotal.WithLabelValues("error").Inc()
		return entity.AcquisitionTask{}, err
	}

	report(75)

	saved, duplicates, err := a.store.UpsertBatch(ctx, scraped)
	if err != nil {
		scrapesTotal.WithLabelValues("error").Inc()
		return entity.AcquisitionTask{}, err
	}

	report(100)

	scrapesTotal.WithLabelValues("ok").Inc()
	listingsSavedTotal.Add(float64(saved))

	logger(ctx).Info("acquisition completed",
		"brand", req.Brand, "model", req.Model,
		"found", len(scraped), "saved", saved, "duplicates", duplicates)

	return entity.AcquisitionTask{
		TotalFound: len(scraped),
		TotalSaved: saved,
		Duplicates: duplicates,
	}, nil
}

func (a *Acquirer) findComparables(ctx context.Context, req AcquisitionRequest, freshSince time.Time) []entity.Listing {
	comparables, err := a.store.FindComparables(ctx, entity.ListingQuery{
		Brand:        req.Brand,
		Model:        req.Model,
		YearMin:      req.YearMin,
		YearMax:      req.YearMax,
		KmMin:        req.KmMin,
		KmMax:        req.KmMax,
		Fuel:         req.Fuel,
		Transmission: req.Transmission,
		Body:         req.Body,
		ActiveOnly:   true,
		FreshSince:   freshSince,
	})
	if err != nil {
		logger(ctx).Warn("failed to query comparables", "error", err)
		return nil
	}

	return comparables
}

// fallbackVehicle строит дескриптор для формульной оценки: середина
// диапазона лет и нижняя граница пробега.
func (a *Acquirer) fallbackVehicle(req AcquisitionRequest) entity.Vehicle {
	year := (req.YearMin + req.YearMax) / 2
	if year == 0 {
		year = a.now().Year() - 5
	}

	km := req.KmMin
	if km == 0 {
		km = fallbackMileageKm
	}

	return entity.Vehicle{
		Brand:         req.Brand,
		ModelSeries:   req.Model,
		Year:          year,
		MileageKm:     km,
		Fuel:          req.Fuel,
		Transmission:  req.Transmission,
		Body:          req.Body,
		EquipmentTags: req.EquipmentTags,
	}
}
