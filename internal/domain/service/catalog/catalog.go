package catalog

import (
	"sort"
	"strings"

	"carprice/internal/domain/value"
)

// Статические таблицы классификации марок. Загружаются один раз при старте
// процесса и дальше только читаются.

var brandCategories = map[value.BrandCategory][]string{
	value.CategoryLuxury: {
		"bmw", "mercedes-benz", "mercedes", "audi", "porsche", "jaguar",
		"maserati", "bentley", "rolls-royce", "aston martin",
	},
	value.CategoryPremium: {
		"volvo", "lexus", "infiniti", "acura", "land rover", "cadillac",
		"lincoln", "alfa romeo", "genesis",
	},
	value.CategoryMassMarket: {
		"volkswagen", "vw", "toyota", "honda", "mazda", "nissan",
		"ford", "chevrolet", "hyundai", "kia", "peugeot", "renault",
		"citroen", "seat", "opel", "fiat", "mitsubishi", "suzuki",
	},
	value.CategoryBudget: {
		"dacia", "skoda", "lada",
	},
}

var brandAliases = map[string]string{
	"vw":          "volkswagen",
	"mercedes":    "mercedes-benz",
	"alfa":        "alfa romeo",
	"range rover": "land rover",
}

// majorManufacturers — whitelist известных производителей (только легковые).
var majorManufacturers = map[string]struct{}{
	// German
	"audi": {}, "bmw": {}, "mercedes-benz": {}, "mercedes": {}, "volkswagen": {},
	"vw": {}, "porsche": {}, "opel": {}, "smart": {},
	// French
	"peugeot": {}, "renault": {}, "citroen": {}, "dacia": {}, "ds": {},
	// Italian
	"fiat": {}, "alfa romeo": {}, "lancia": {}, "maserati": {}, "ferrari": {},
	"lamborghini": {},
	// Japanese
	"toyota": {}, "honda": {}, "nissan": {}, "mazda": {}, "suzuki": {},
	"mitsubishi": {}, "subaru": {}, "lexus": {}, "infiniti": {}, "acura": {},
	// Korean
	"hyundai": {}, "kia": {}, "genesis": {},
	// American
	"ford": {}, "chevrolet": {}, "dodge": {}, "jeep": {}, "chrysler": {},
	"cadillac": {}, "lincoln": {}, "tesla": {}, "buick": {}, "gmc": {},
	// British
	"land rover": {}, "range rover": {}, "jaguar": {}, "mini": {}, "bentley": {},
	"rolls-royce": {}, "aston martin": {}, "lotus": {}, "mclaren": {},
	// Other European
	"volvo": {}, "saab": {}, "skoda": {}, "seat": {}, "cupra": {},
	// Chinese
	"byd": {}, "mg": {}, "lynk & co": {},
}

// blacklistKeywords отсекает компании, содержащие имя марки, но не являющиеся
// автопроизводителями (прицепы, запчасти, грузовики).
var blacklistKeywords = []string{
	"trailer", "trailers", "steel", "industries", "fuso", "motorcycles",
	"truck", "trucks", "manufacturing", "solutions", "transport", "big",
	" rv", "supreme", "monsoon", "motor company of", "santana",
}

// NormalizeBrand приводит марку к каноническому нижнему регистру с учётом
// алиасов ("vw" → "volkswagen").
func NormalizeBrand(brand string) string {
	b := strings.ToLower(strings.TrimSpace(brand))
	if canonical, ok := brandAliases[b]; ok {
		return canonical
	}

	return b
}

// BrandCategoryOf возвращает категорию марки; неизвестная марка — mass_market.
func BrandCategoryOf(brand string) value.BrandCategory {
	b := strings.ToLower(strings.TrimSpace(brand))

	for category, brands := range brandCategories {
		for _, known := range brands {
			if b == known {
				return category
			}
		}
	}

	return value.CategoryMassMarket
}

// IsMajorManufacturer — строгая проверка против whitelist.
// Сначала blacklist, потом точное совпадение/алиас/префикс со словом.
func IsMajorManufacturer(makeName string) bool {
	if makeName == "" {
		return false
	}

	m := strings.ToLower(strings.TrimSpace(makeName))

	for _, keyword := range blacklistKeywords {
		if strings.Contains(m, keyword) {
			return false
		}
	}

	if _, ok := majorManufacturers[m]; ok {
		return true
	}

	if _, ok := brandAliases[m]; ok {
		return true
	}

	// "BMW Motorrad" → BMW, но не "Affordable Alfa".
	for brand := range majorManufacturers {
		if m == brand || strings.HasPrefix(m, brand+" ") {
			return true
		}
	}

	return false
}

// Majors возвращает отсортированный список производителей для выдачи наружу.
func Majors() []string {
	result := make([]string, 0, len(majorManufacturers))
	for m := range majorManufacturers {
		result = append(result, strings.Title(m)) //nolint:staticcheck // названия марок, не юникод
	}

	sort.Strings(result)

	return result
}
