package vehicledata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"

	"carprice/internal/domain"
	"carprice/internal/domain/service/catalog"
	"carprice/pkg/errcodes"
	"carprice/pkg/httpx"
	"carprice/pkg/lox"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	nhtsaBaseURL = "https://vpic.nhtsa.dot.gov/api/vehicles"

	// Справочник марок меняется редко, месяц кэша более чем достаточно.
	cacheTTL = 30 * 24 * time.Hour

	makesCacheKey      = "makes"
	modelsCacheKeyPart = "models:"
	requestTimeout     = 15 * time.Second
)

// Make — марка автомобиля из справочника NHTSA.
type Make struct {
	Name    string `json:"make"`
	Display string `json:"display"`
}

// Model — модель в рамках марки.
type Model struct {
	Name string `json:"model"`
}

type nhtsaMakeResult struct {
	MakeName string `json:"Make_Name"`
}

type nhtsaMakesResponse struct {
	Results []nhtsaMakeResult `json:"Results"`
}

type nhtsaModelResult struct {
	ModelName string `json:"Model_Name"`
}

type nhtsaModelsResponse struct {
	Results []nhtsaModelResult `json:"Results"`
}

// Client ходит в публичный справочник NHTSA (vPIC). Ответы кэшируются
// в памяти: справочник огромный и почти статичный.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *cache.Cache
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   requestTimeout,
			Transport: httpx.NewLoggingRoundTripper(http.DefaultTransport),
		},
		baseURL: nhtsaBaseURL,
		cache:   cache.New(cacheTTL, time.Hour),
	}
}

// WithBaseURL подменяет адрес API (для тестов).
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// GetMakes возвращает марки из справочника, отфильтрованные до известных
// производителей: NHTSA отдаёт более десяти тысяч записей, из которых
// абсолютное большинство — кастомные мастерские и прицепы.
func (c *Client) GetMakes(ctx context.Context) ([]Make, error) {
	if cached, found := c.cache.Get(makesCacheKey); found {
		return cached.([]Make), nil
	}

	var response nhtsaMakesResponse
	if err := c.getJSON(ctx, c.baseURL+"/GetAllMakes?format=json", &response); err != nil {
		return nil, err
	}

	unique := lox.FilterAssociate(response.Results, func(result nhtsaMakeResult) (string, bool) {
		name := strings.TrimSpace(result.MakeName)
		if name == "" || !catalog.IsMajorManufacturer(name) {
			return "", false
		}

		return catalog.NormalizeBrand(name), true
	})

	makes := lox.ReverseMap(unique, func(normalized string, result nhtsaMakeResult) Make {
		return Make{
			Name:    normalized,
			Display: displayName(strings.TrimSpace(result.MakeName)),
		}
	})

	sort.Slice(makes, func(i, j int) bool {
		return makes[i].Display < makes[j].Display
	})

	c.cache.Set(makesCacheKey, makes, cache.DefaultExpiration)

	logger(ctx).Info("fetched makes from nhtsa",
		"total", len(response.Results), "filtered", len(makes))

	return makes, nil
}

// GetModelsForMake возвращает модели марки, отсортированные по имени.
func (c *Client) GetModelsForMake(ctx context.Context, makeName string) ([]Model, error) {
	cacheKey := modelsCacheKeyPart + strings.ToLower(makeName)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]Model), nil
	}

	requestURL := fmt.Sprintf("%s/GetModelsForMake/%s?format=json",
		c.baseURL, url.PathEscape(makeName))

	var response nhtsaModelsResponse
	if err := c.getJSON(ctx, requestURL, &response); err != nil {
		return nil, err
	}

	// Дубликаты различаются только регистром, оставляем первое написание.
	seen := make(map[string]struct{})
	models := make([]Model, 0, len(response.Results))

	for _, result := range response.Results {
		name := strings.TrimSpace(result.ModelName)
		if name == "" {
			continue
		}

		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		models = append(models, Model{Name: name})
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].Name < models[j].Name
	})

	c.cache.Set(cacheKey, models, cache.DefaultExpiration)

	logger(ctx).Info("fetched models from nhtsa", "make", makeName, "count", len(models))

	return models, nil
}

func (c *Client) getJSON(ctx context.Context, requestURL string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(err, errcodes.ScrapeSourceUnavailable, "nhtsa request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.NewError(errcodes.ScrapeSourceUnavailable,
			fmt.Sprintf("unexpected status %d from nhtsa", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to decode nhtsa response")
	}

	return nil
}

// displayName приводит имя марки из КАПСА NHTSA к человеческому виду,
// сохраняя короткие аббревиатуры (BMW, KIA).
func displayName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if len(w) <= 3 {
			words[i] = strings.ToUpper(w)
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
