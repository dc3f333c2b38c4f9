package olx

import (
	"io"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"carprice/internal/domain"
	"carprice/internal/domain/entity"
	"carprice/internal/domain/value"
	"carprice/pkg/errcodes"
)

const (
	leiPerEUR = 4.97

	// Цены вне этого коридора считаем запчастями или опечатками.
	minPriceEUR = 3000
	maxPriceEUR = 500000

	minYear       = 1990
	minYearStrict = 2000
	maxYear       = 2025

	maxMileageKm = 1000000

	minPowerHP = 50
	maxPowerHP = 1000
)

var (
	priceDigitsRe = regexp.MustCompile(`\d+`)
	yearRe        = regexp.MustCompile(`\b(19\d{2}|20[0-2]\d)\b`)
	kmRe          = regexp.MustCompile(`(?i)(\d+)[.\s]?(\d+)?\s*(mii\s*km|km)`)
	bmwSeriesRe   = regexp.MustCompile(`\b([1-8])(\d{2})`)
	mercClassRe   = regexp.MustCompile(`(?i)\b([ABCEGLSV])\s*(\d{2,3})`)
	audiSeriesRe  = regexp.MustCompile(`(?i)\b([AQ]\d|TT|R8)`)
	powerRe       = regexp.MustCompile(`(?i)(\d{2,3})\s*(?:cp|cai|hp)`)
	litersRe      = regexp.MustCompile(`(?i)(\d\.\d)\s*(?:l|tdi|tsi)`)
	ccRe          = regexp.MustCompile(`(?i)(\d{3,4})\s*cm`)
	titleYearRe   = regexp.MustCompile(`\b20\d{2}\b`)
	titleKmRe     = regexp.MustCompile(`(?i)\d+\s*km`)
)

// Лексика запчастей: объявление с таким словом в заголовке почти наверняка
// продаёт деталь, а не машину.
var partsKeywords = []string{
	"jante", "janta", "roata", "roti", "anvelope",
	"stopuri", "stop", "faruri", "far", "oglinda",
	"bara", "portiera", "capota", "haion",
	"volant", "scaune", "bord",
	"motor", "cutie viteze", "turbo", "alternator",
	"carcasa", "deflector", "senzori",
	"perna", "amortizor", "suspensie",
	"radiator", "intercooler", "toba",
	"filtru", "curea", "ulei",
}

var fullCarIndicators = []string{"vand ", "schimb", "urgent", "full"}

// Перформанс-модификации по маркам: GTI, AMG, RS и прочие.
var performanceVariants = map[string][]string{
	"bmw":        {"m3", "m4", "m5", "m6", "m2", "x3m", "x4m", "x5m", "x6m", "m sport", "competition"},
	"mercedes":   {"amg", "c63", "e63", "s63", "g63", "a45", "cla45", "gla45", "glc63"},
	"audi":       {"rs3", "rs4", "rs5", "rs6", "rs7", "rsq3", "rsq8", "s3", "s4", "s5", "s6", "s7", "s8", "sq5", "sq7"},
	"volkswagen": {"gti", "gtd", "r-line", "r line"},
	"golf":       {"gti", "gtd", "r32"},
	"ford":       {"st", "raptor"},
	"honda":      {"type r", "type-r"},
	"renault":    {"sport"},
	"seat":       {"cupra", "fr"},
	"skoda":      {"vrs"},
	"volvo":      {"polestar", "r-design"},
	"porsche":    {"turbo", "gt3", "gt2", "gts", "carrera"},
}

var suvModelNames = []string{
	"x1", "x2", "x3", "x4", "x5", "x6", "x7",
	"q3", "q5", "q7", "q8",
	"gle", "glc", "gla",
	"tiguan", "touareg", "cayenne", "macan",
}

// Extractor разбирает HTML поисковой выдачи OLX в нормализованные объявления.
type Extractor struct {
	strictYears bool
}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// WithStrictYears сужает допустимый диапазон года до 2000+. Нужен для
// выдач с нативными фильтрами, где старые машины заведомо отфильтрованы
// и четырёхзначное число до 2000 — это почти наверняка не год.
func (e *Extractor) WithStrictYears() *Extractor {
	e.strictYears = true
	return e
}

// ExtractListings разбирает страницу выдачи. Карточки, которые не похожи на
// продажу целого автомобиля, молча пропускаются.
func (e *Extractor) ExtractListings(body io.Reader, brand, model string, scrapedAt time.Time) ([]entity.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to parse search page")
	}

	var listings []entity.Listing

	doc.Find(`div[data-cy="l-card"]`).Each(func(_ int, card *goquery.Selection) {
		listing, ok := e.extractCard(card, brand, model, scrapedAt)
		if ok {
			listings = append(listings, listing)
		}
	})

	return listings, nil
}

func (e *Extractor) extractCard(card *goquery.Selection, brand, model string, scrapedAt time.Time) (entity.Listing, bool) {
	href, ok := card.Find("a[href]").First().Attr("href")
	if !ok {
		return entity.Listing{}, false
	}

	title := strings.TrimSpace(card.Find("h6").First().Text())
	if title == "" {
		title = strings.TrimSpace(card.Find("h4").First().Text())
	}
	if title == "" {
		return entity.Listing{}, false
	}

	if IsCarPart(title) {
		return entity.Listing{}, false
	}

	fullText := card.Text()

	price, ok := e.extractPrice(card)
	if !ok {
		return entity.Listing{}, false
	}

	year, ok := e.extractYear(title, fullText)
	if !ok {
		// Без года нельзя посчитать депрециацию.
		return entity.Listing{}, false
	}

	series, variant := ExtractModelDetails(title, brand, model)

	listingModel := model
	if listingModel == "" {
		listingModel = series
	}

	return entity.Listing{
		Source:        "olx",
		URL:           resolveURL(href),
		Brand:         titleCase(brand),
		Model:         titleCase(listingModel),
		ModelSeries:   series,
		ModelVariant:  variant,
		Year:          year,
		Mileage:       ExtractKm(title + " " + fullText),
		PriceEUR:      price,
		Fuel:          ExtractFuelType(title + " " + fullText),
		PowerHP:       ExtractPower(fullText),
		EngineCC:      ExtractEngineCapacity(fullText),
		Transmission:  ExtractTransmission(fullText),
		Drivetrain:    ExtractDrivetrain(fullText),
		Body:          ExtractBodyType(fullText, series),
		Location:      extractLocation(card),
		Description:   truncate(title, 500),
		PublishedAt:   scrapedAt,
		ScrapedAt:     scrapedAt,
		IsActive:      true,
	}, true
}

func (e *Extractor) extractPrice(card *goquery.Selection) (float64, bool) {
	priceText := strings.TrimSpace(card.Find(`p[data-testid="ad-price"]`).First().Text())
	if priceText == "" {
		// Запасной путь: любой текст карточки, похожий на цену.
		card.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			text := p.Text()
			if priceDigitsRe.MatchString(text) && containsCurrency(text) {
				priceText = strings.TrimSpace(text)
				return false
			}
			return true
		})
	}

	if priceText == "" {
		return 0, false
	}

	return ParsePrice(priceText)
}

func (e *Extractor) extractYear(title, text string) (int, bool) {
	for _, source := range []string{title, text} {
		year, ok := ExtractYear(source, e.strictYears)
		if ok {
			return year, true
		}
	}

	return 0, false
}

// IsCarPart эвристически отличает объявление о запчасти от продажи машины.
// Слово из лексики запчастей прощается, только если заголовок длинный и в нём
// есть и год, и пробег (или явные маркеры продажи целой машины).
func IsCarPart(title string) bool {
	titleLower := strings.ToLower(title)

	for _, keyword := range partsKeywords {
		if !strings.Contains(titleLower, keyword) {
			continue
		}

		for _, indicator := range fullCarIndicators {
			if strings.Contains(titleLower, indicator) {
				hasYear := titleYearRe.MatchString(title)
				hasKm := titleKmRe.MatchString(titleLower)
				if hasYear && hasKm && len(strings.Fields(title)) > 6 {
					return false
				}
			}
		}

		return true
	}

	return false
}

// ParsePrice разбирает текст цены и приводит её к EUR. Цена в леях
// конвертируется по фиксированному курсу. false — цена вне коридора
// или не распознана.
func ParsePrice(priceText string) (float64, bool) {
	textLower := strings.ToLower(priceText)

	isLei := strings.Contains(textLower, "lei")
	isEUR := strings.Contains(textLower, "eur") || strings.Contains(textLower, "euro") ||
		strings.Contains(priceText, "€")

	cleaned := strings.NewReplacer(
		"EUR", "", "euro", "", "lei", "", "€", "",
		" ", "", ".", "", ",", "", " ", "",
	).Replace(priceText)

	digits := priceDigitsRe.FindString(cleaned)
	if digits == "" {
		return 0, false
	}

	price, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}

	if isLei && !isEUR {
		price /= leiPerEUR
	}

	if price < minPriceEUR || price > maxPriceEUR {
		return 0, false
	}

	return math.Round(price*100) / 100, true
}

// ExtractYear ищет год выпуска в тексте. strict поднимает нижнюю границу
// до 2000 года.
func ExtractYear(text string, strict bool) (int, bool) {
	match := yearRe.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	year, _ := strconv.Atoi(match[1])

	lower := minYear
	if strict {
		lower = minYearStrict
	}

	if year < lower || year > maxYear {
		return 0, false
	}

	return year, true
}

// ExtractKm ищет пробег. "mii km" трактуется как тысячи.
// Не найден или неправдоподобен — ноль.
func ExtractKm(text string) int {
	match := kmRe.FindStringSubmatch(text)
	if match == nil {
		return 0
	}

	km, err := strconv.Atoi(match[1] + match[2])
	if err != nil {
		return 0
	}

	if strings.Contains(strings.ToLower(match[3]), "mii") {
		km *= 1000
	}

	if km < 0 || km > maxMileageKm {
		return 0
	}

	return km
}

func ExtractFuelType(text string) value.FuelType {
	textLower := strings.ToLower(text)

	switch {
	case strings.Contains(textLower, "diesel") || strings.Contains(textLower, "motorina"):
		return value.FuelDiesel
	case strings.Contains(textLower, "benzina") || strings.Contains(textLower, "petrol"):
		return value.FuelBenzina
	case strings.Contains(textLower, "electric"):
		return value.FuelElectric
	case strings.Contains(textLower, "hybrid") || strings.Contains(textLower, "hibrid"):
		return value.FuelHybrid
	case strings.Contains(textLower, "gpl") || strings.Contains(textLower, "lpg"):
		return value.FuelGPL
	default:
		return value.FuelBenzina
	}
}

func ExtractTransmission(text string) value.Transmission {
	textLower := strings.ToLower(text)

	for _, kw := range []string{"automat", "dsg", "cvt", "tiptronic", "steptronic", "s-tronic"} {
		if strings.Contains(textLower, kw) {
			return value.TransmissionAutomata
		}
	}

	if strings.Contains(textLower, "manual") {
		return value.TransmissionManuala
	}

	return value.TransmissionUnknown
}

func ExtractDrivetrain(text string) value.Drivetrain {
	textLower := strings.ToLower(text)

	for _, kw := range []string{"4x4", "4wd", "awd", "quattro", "xdrive", "4motion", "4matic"} {
		if strings.Contains(textLower, kw) {
			return value.Drivetrain4x4
		}
	}

	for _, kw := range []string{"rwd", "propulsie", "spate"} {
		if strings.Contains(textLower, kw) {
			return value.DrivetrainSpate
		}
	}

	return value.DrivetrainFata
}

func ExtractBodyType(text, modelSeries string) value.BodyType {
	textLower := strings.ToLower(text)

	for _, kw := range []string{"suv", "crossover", "off-road", "offroad"} {
		if strings.Contains(textLower, kw) {
			return value.BodySUV
		}
	}

	seriesLower := strings.ToLower(modelSeries)
	for _, name := range suvModelNames {
		if seriesLower != "" && strings.Contains(seriesLower, name) {
			return value.BodySUV
		}
	}

	switch {
	case strings.Contains(textLower, "coupe") || strings.Contains(textLower, "coupé"):
		return value.BodyCoupe
	case containsAny(textLower, "cabrio", "convertible", "descapotabil"):
		return value.BodyCabrio
	case containsAny(textLower, "break", "combi", "touring", "avant", "estate", "wagon"):
		return value.BodyBreak
	case containsAny(textLower, "sedan", "limuzina", "berlina"):
		return value.BodySedan
	default:
		return value.BodyHatchback
	}
}

// ExtractModelDetails достаёт серию модели и перформанс-вариант из заголовка.
// "BMW 320d M Sport" даёт ("Seria 3", "M Sport"), "Golf 7 GTI" — ("Golf", "GTI").
func ExtractModelDetails(title, brand, model string) (series, variant string) {
	titleLower := strings.ToLower(title)
	brandLower := strings.ToLower(brand)

	variantsToCheck := performanceVariants[brandLower]
	if model != "" {
		variantsToCheck = append(variantsToCheck, performanceVariants[strings.ToLower(model)]...)
	}

	for _, pv := range variantsToCheck {
		if strings.Contains(titleLower, pv) {
			if len(pv) <= 3 {
				variant = strings.ToUpper(pv)
			} else {
				variant = titleCase(pv)
			}
			break
		}
	}

	series = model
	if series == "" {
		series = guessModelFromTitle(title, brand)
	}

	switch {
	case brandLower == "bmw":
		if m := bmwSeriesRe.FindStringSubmatch(title); m != nil {
			series = "Seria " + m[1]
		}
	case strings.Contains(brandLower, "mercedes"):
		if m := mercClassRe.FindStringSubmatch(title); m != nil {
			series = strings.ToUpper(m[1]) + "-Class"
		}
	case brandLower == "audi":
		if m := audiSeriesRe.FindString(title); m != "" {
			series = strings.ToUpper(m)
		}
	}

	return series, variant
}

// ExtractPower ищет мощность в CP/cai/hp.
func ExtractPower(text string) int {
	match := powerRe.FindStringSubmatch(text)
	if match == nil {
		return 0
	}

	power, _ := strconv.Atoi(match[1])
	if power < minPowerHP || power > maxPowerHP {
		return 0
	}

	return power
}

// ExtractEngineCapacity ищет объём двигателя в cm3 ("2.0 TDI" даёт 2000).
func ExtractEngineCapacity(text string) int {
	if match := litersRe.FindStringSubmatch(text); match != nil {
		liters, _ := strconv.ParseFloat(match[1], 64)
		return int(liters * 1000)
	}

	if match := ccRe.FindStringSubmatch(text); match != nil {
		cc, _ := strconv.Atoi(match[1])
		return cc
	}

	return 0
}

func extractLocation(card *goquery.Selection) string {
	locationText := strings.TrimSpace(card.Find(`p[data-testid="location-date"]`).First().Text())
	if locationText == "" {
		return "Romania"
	}

	city := strings.Split(locationText, ",")[0]
	city = strings.Split(city, "-")[0]

	return strings.TrimSpace(city)
}

func guessModelFromTitle(title, brand string) string {
	cleaned := strings.NewReplacer(
		brand, "", strings.ToUpper(brand), "", strings.ToLower(brand), "",
	).Replace(title)

	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return "Unknown"
	}

	return words[0]
}

func resolveURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}

	resolved, err := url.JoinPath(baseURL, href)
	if err != nil {
		return baseURL + href
	}

	return resolved
}

func containsCurrency(text string) bool {
	textLower := strings.ToLower(text)
	return strings.Contains(textLower, "eur") || strings.Contains(textLower, "lei") ||
		strings.Contains(text, "€")
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
