package olx

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"carprice/internal/domain/value"
)

const (
	baseURL        = "https://www.olx.ro"
	searchBaseURL  = "https://www.olx.ro/auto-masini-moto-ambarcatiuni/autoturisme/"
	querySearchURL = "https://www.olx.ro/d/oferte/q-%s/"
)

// Маппинг наших значений на фильтры OLX.
var (
	olxFuelValues = map[value.FuelType]string{
		value.FuelBenzina:  "petrol",
		value.FuelDiesel:   "diesel",
		value.FuelElectric: "electric",
		value.FuelHybrid:   "hybrid",
		value.FuelGPL:      "lpg",
	}

	olxBodyValues = map[value.BodyType]string{
		value.BodySedan:     "sedan",
		value.BodyHatchback: "small",
		value.BodyBreak:     "kombi",
		value.BodyCoupe:     "coupe",
		value.BodySUV:       "suv",
		value.BodyCabrio:    "cabrio",
	}

	olxTransmissionValues = map[value.Transmission]string{
		value.TransmissionManuala:  "manual",
		value.TransmissionAutomata: "automatic",
	}

	// У BMW сегмент в URL не совпадает с привычным названием серии.
	bmwModelSlugs = map[string]string{
		"Seria 1": "1-as-sorozat",
		"Seria 2": "2-as-sorozat",
		"Seria 3": "3-as-sorozat",
		"Seria 4": "4-as-sorozat",
		"Seria 5": "5-as-sorozat",
		"Seria 6": "6-as-sorozat",
		"Seria 7": "7-as-sorozat",
		"Seria 8": "8-as-sorozat",
		"X1":      "x1",
		"X2":      "x2",
		"X3":      "x3",
		"X4":      "x4",
		"X5":      "x5",
		"X6":      "x6",
		"X7":      "x7",
	}
)

// SearchFilter — нативные фильтры поиска OLX.
// Нулевые значения означают отсутствие фильтра.
type SearchFilter struct {
	Model        string
	YearFrom     int
	YearTo       int
	KmFrom       int
	KmTo         int
	PriceFrom    int
	PriceTo      int
	Fuel         value.FuelType
	Body         value.BodyType
	Transmission value.Transmission
}

// BuildSearchURL собирает URL каталога автомобилей с нативными фильтрами OLX.
// Фильтры на стороне площадки точнее, чем разбор текста объявлений.
func BuildSearchURL(brand string, filter SearchFilter) string {
	brandSlug := strings.ReplaceAll(strings.ToLower(brand), " ", "-")
	brandSlug = strings.ReplaceAll(brandSlug, "mercedes-benz", "mercedes")

	params := url.Values{}
	params.Set("currency", "EUR")
	params.Set("search[order]", "relevance:desc")

	if filter.Model != "" {
		modelValue := filter.Model
		if strings.EqualFold(brand, "bmw") {
			if slug, ok := bmwModelSlugs[filter.Model]; ok {
				modelValue = slug
			}
		}
		params.Set("search[filter_enum_model][0]", modelValue)
	}

	setRange := func(key string, from, to int) {
		if from > 0 {
			params.Set(fmt.Sprintf("search[%s:from]", key), strconv.Itoa(from))
		}
		if to > 0 {
			params.Set(fmt.Sprintf("search[%s:to]", key), strconv.Itoa(to))
		}
	}

	setRange("filter_float_year", filter.YearFrom, filter.YearTo)
	setRange("filter_float_price", filter.PriceFrom, filter.PriceTo)
	setRange("filter_float_rulaj_pana", filter.KmFrom, filter.KmTo)

	if filter.Fuel != "" {
		if v, ok := olxFuelValues[filter.Fuel]; ok {
			params.Set("search[filter_enum_petrol][0]", v)
		}
	}
	if filter.Body != "" {
		if v, ok := olxBodyValues[filter.Body]; ok {
			params.Set("search[filter_enum_car_body][0]", v)
		}
	}
	if filter.Transmission != "" {
		if v, ok := olxTransmissionValues[filter.Transmission]; ok {
			params.Set("search[filter_enum_gearbox][0]", v)
		}
	}

	return searchBaseURL + brandSlug + "/?" + params.Encode()
}

// BuildQueryURL — запасной полнотекстовый поиск, когда марки нет в каталоге.
func BuildQueryURL(brand, model string) string {
	query := brand
	if model != "" {
		query += " " + model
	}

	slug := url.PathEscape(strings.ReplaceAll(strings.ToLower(query), " ", "-"))

	return fmt.Sprintf(querySearchURL, slug)
}

// PageURL добавляет номер страницы к поисковому URL.
func PageURL(searchURL string, page int) string {
	if page <= 1 {
		return searchURL
	}

	sep := "?"
	if strings.Contains(searchURL, "?") {
		sep = "&"
	}

	return fmt.Sprintf("%s%spage=%d", searchURL, sep, page)
}
