package olx

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"carprice/internal/domain"
	"carprice/internal/domain/entity"
	"carprice/pkg/errcodes"
	"carprice/pkg/httpx"
)

const (
	defaultDelay    = 10 * time.Second
	defaultTimeout  = 30 * time.Second
	defaultMaxPages = 2

	userAgent = "CarAnalyzer/2.0 (+https://github.com/MihaiDBR/CarAnalyzer) Research Bot"
)

// Client ходит в публичную поисковую выдачу OLX. Скрейпинг этичный:
// один запрос в десять секунд, прозрачный User-Agent, только публичные данные.
type Client struct {
	httpClient *http.Client
	extractor  *Extractor
	delay      time.Duration
	maxPages   int

	mu          sync.Mutex
	lastRequest time.Time
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: httpx.NewLoggingRoundTripper(http.DefaultTransport),
		},
		extractor: NewExtractor(),
		delay:     defaultDelay,
		maxPages:  defaultMaxPages,
	}
}

// WithDelay задаёт паузу между запросами к площадке.
func (c *Client) WithDelay(delay time.Duration) *Client {
	if delay > 0 {
		c.delay = delay
	}
	return c
}

// WithMaxPages ограничивает число страниц выдачи за один поиск.
func (c *Client) WithMaxPages(pages int) *Client {
	if pages > 0 {
		c.maxPages = pages
	}
	return c
}

// WithTimeout задаёт таймаут одного запроса.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// WithExtractor подменяет разборщик выдачи.
func (c *Client) WithExtractor(extractor *Extractor) *Client {
	c.extractor = extractor
	return c
}

// WithHTTPClient подменяет HTTP-клиент (для тестов).
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

// SearchCars собирает объявления по марке с нативными фильтрами OLX.
// Если каталожный сегмент марки пуст (экзотика вне классификатора площадки),
// выполняется запасной полнотекстовый поиск.
func (c *Client) SearchCars(ctx context.Context, brand string, filter SearchFilter) ([]entity.Listing, error) {
	searchURL := BuildSearchURL(brand, filter)

	logger(ctx).Info("searching olx", "brand", brand, "model", filter.Model, "url", searchURL)

	listings, err := c.crawl(ctx, searchURL, brand, filter.Model)
	if err != nil {
		return nil, err
	}

	if len(listings) == 0 {
		queryURL := BuildQueryURL(brand, filter.Model)

		logger(ctx).Info("category search empty, falling back to full-text search", "url", queryURL)

		listings, err = c.crawl(ctx, queryURL, brand, filter.Model)
		if err != nil {
			return nil, err
		}
	}

	logger(ctx).Info("search completed", "brand", brand, "total", len(listings))

	return listings, nil
}

// crawl обходит страницы выдачи последовательно с паузой; пустая страница
// останавливает обход.
func (c *Client) crawl(ctx context.Context, searchURL, brand, model string) ([]entity.Listing, error) {
	var listings []entity.Listing

	for page := 1; page <= c.maxPages; page++ {
		if err := c.waitForNextSlot(ctx); err != nil {
			return listings, err
		}

		pageListings, err := c.fetchPage(ctx, PageURL(searchURL, page), brand, model)
		if err != nil {
			// Первая страница обязана открыться; дальше отдаём что собрали.
			if page == 1 {
				return nil, err
			}

			logger(ctx).Warn("page fetch failed, stopping pagination", "page", page, "error", err)
			break
		}

		logger(ctx).Info("page scraped", "page", page, "listings", len(pageListings))

		if len(pageListings) == 0 {
			break
		}

		listings = append(listings, pageListings...)
	}

	return listings, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL, brand, model string) ([]entity.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to build request")
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ro-RO,ro;q=0.9,en;q=0.8")
	req.Header.Set("DNT", "1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		pagesFetchedTotal.WithLabelValues("error").Inc()
		return nil, domain.WrapError(err, errcodes.ScrapeSourceUnavailable, "failed to fetch search page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		pagesFetchedTotal.WithLabelValues("error").Inc()
		return nil, domain.NewError(errcodes.ScrapeSourceUnavailable,
			fmt.Sprintf("unexpected status %d from olx", resp.StatusCode))
	}

	pagesFetchedTotal.WithLabelValues("ok").Inc()

	return c.extractor.ExtractListings(resp.Body, brand, model, time.Now())
}

func (c *Client) waitForNextSlot(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastRequest.IsZero() {
		c.lastRequest = time.Now()
		return nil
	}

	elapsed := time.Since(c.lastRequest)
	if elapsed >= c.delay {
		c.lastRequest = time.Now()
		return nil
	}

	select {
	case <-time.After(c.delay - elapsed):
		c.lastRequest = time.Now()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
