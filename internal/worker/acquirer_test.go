package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"carprice/internal/domain/entity"
	"carprice/internal/domain/service/pricing"
	"carprice/internal/infrastructure/olx"
	"carprice/internal/worker"
)

type storeStub struct {
	listings     []entity.Listing
	queries      []entity.ListingQuery
	findErr      error
	upsertCalled bool
}

func (s *storeStub) FindComparables(_ context.Context, query entity.ListingQuery) ([]entity.Listing, error) {
	s.queries = append(s.queries, query)
	if s.findErr != nil {
		return nil, s.findErr
	}
	if query.FreshSince.IsZero() {
		return s.listings, nil
	}

	fresh := make([]entity.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		if l.ScrapedAt.After(query.FreshSince) {
			fresh = append(fresh, l)
		}
	}
	return fresh, nil
}

func (s *storeStub) UpsertBatch(_ context.Context, listings []entity.Listing) (int, int, error) {
	s.upsertCalled = true
	s.listings = append(s.listings, listings...)
	return len(listings), 0, nil
}

type scraperStub struct {
	listings []entity.Listing
	err      error
	calls    int
}

func (s *scraperStub) SearchCars(_ context.Context, _ string, _ olx.SearchFilter) ([]entity.Listing, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.listings, nil
}

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func freshListings(n int, price float64) []entity.Listing {
	listings := make([]entity.Listing, 0, n)
	for i := 0; i < n; i++ {
		listings = append(listings, entity.Listing{
			PriceEUR:  price + float64(i)*100,
			ScrapedAt: testNow.Add(-time.Hour),
			IsActive:  true,
		})
	}
	return listings
}

func newAcquirer(store *storeStub, scraper *scraperStub) *worker.Acquirer {
	engine := pricing.NewEngine(store).WithClock(clock)
	return worker.NewAcquirer(store, scraper, engine).WithClock(clock)
}

func testRequest() worker.AcquisitionRequest {
	return worker.AcquisitionRequest{
		Brand:   "Volkswagen",
		Model:   "Golf",
		YearMin: 2017,
		YearMax: 2020,
	}
}

func TestAnalyzeWithAcquisition_FreshDataSkipsScraping(t *testing.T) {
	rq := require.New(t)

	store := &storeStub{listings: freshListings(6, 10000)}
	scraper := &scraperStub{}

	quote := newAcquirer(store, scraper).AnalyzeWithAcquisition(context.Background(), testRequest())

	rq.Zero(scraper.calls, "fresh data must not trigger scraping")
	rq.Equal(entity.TierFilteredDatabase, quote.Market.Source)
	rq.Equal(6, quote.Market.SampleSize)
}

func TestAnalyzeWithAcquisition_FreshnessCheckedInQuery(t *testing.T) {
	rq := require.New(t)

	store := &storeStub{listings: freshListings(6, 10000)}
	scraper := &scraperStub{}

	newAcquirer(store, scraper).AnalyzeWithAcquisition(context.Background(), testRequest())

	// Свежесть — предикат запроса, а не фильтр в памяти.
	rq.NotEmpty(store.queries)
	rq.Equal(testNow.Add(-24*time.Hour), store.queries[0].FreshSince)
	rq.True(store.queries[0].ActiveOnly)
	rq.Zero(scraper.calls)
}

func TestAnalyzeWithAcquisition_StaleDataTriggersScraping(t *testing.T) {
	rq := require.New(t)

	stale := freshListings(6, 10000)
	for i := range stale {
		stale[i].ScrapedAt = testNow.Add(-48 * time.Hour)
	}

	store := &storeStub{listings: stale}
	scraper := &scraperStub{listings: freshListings(3, 11000)}

	quote := newAcquirer(store, scraper).AnalyzeWithAcquisition(context.Background(), testRequest())

	rq.Equal(1, scraper.calls)
	rq.True(store.upsertCalled)
	// После дозаполнения данных хватает на эмпирический режим.
	rq.Equal(entity.TierFilteredDatabase, quote.Market.Source)
}

func TestAnalyzeWithAcquisition_ScraperFailureFallsBack(t *testing.T) {
	rq := require.New(t)

	store := &storeStub{}
	scraper := &scraperStub{err: errors.New("olx unavailable")}

	quote := newAcquirer(store, scraper).AnalyzeWithAcquisition(context.Background(), testRequest())

	rq.Equal(1, scraper.calls)
	// Сбой источника не мешает получить формульную оценку.
	rq.Equal(entity.TierGenericFormula, quote.Market.Source)
	rq.Greater(quote.Optimal.Value, 0.0)
}

func TestAnalyzeWithAcquisition_StoreFailureFallsBack(t *testing.T) {
	rq := require.New(t)

	store := &storeStub{findErr: errors.New("db down")}
	scraper := &scraperStub{}

	quote := newAcquirer(store, scraper).AnalyzeWithAcquisition(context.Background(), testRequest())

	rq.Equal(entity.TierGenericFormula, quote.Market.Source)
	rq.Greater(quote.Optimal.Value, 0.0)
}

func TestAcquire_ReportsProgressAndCounts(t *testing.T) {
	rq := require.New(t)

	store := &storeStub{}
	scraper := &scraperStub{listings: freshListings(4, 9000)}

	var progress []int

	result, err := newAcquirer(store, scraper).Acquire(
		context.Background(), testRequest(),
		func(p int) { progress = append(progress, p) },
	)
	rq.NoError(err)

	rq.Equal([]int{25, 75, 100}, progress)
	rq.Equal(4, result.TotalFound)
	rq.Equal(4, result.TotalSaved)
	rq.Zero(result.Duplicates)
}

func TestTaskRegistry(t *testing.T) {
	rq := require.New(t)

	registry := worker.NewTaskRegistry()

	id := registry.Create()
	rq.NotEmpty(id)

	task, err := registry.Get(id)
	rq.NoError(err)
	rq.Equal(entity.TaskPending, task.Status)

	registry.Update(id, func(t *entity.AcquisitionTask) {
		t.Status = entity.TaskRunning
		t.Progress = 50
	})

	task, err = registry.Get(id)
	rq.NoError(err)
	rq.Equal(entity.TaskRunning, task.Status)
	rq.Equal(50, task.Progress)

	_, err = registry.Get("missing")
	rq.Error(err)
}
