package catalog

import (
	"strings"

	"carprice/internal/domain/value"
)

// segmentRule — одно упорядоченное правило "ключевые слова → сегмент".
// Первое сработавшее правило выигрывает, порядок важен: SUV-коды проверяются
// раньше общих типов кузова, кузова — раньше седанов по номеру серии.
type segmentRule struct {
	keywords []string
	segment  value.Segment
}

var segmentRules = []segmentRule{
	{[]string{"x1", "x2", "q2", "q3", "gla", "glb", "xt", "qx30"}, value.SegmentSUVSmall},
	{[]string{"x3", "x4", "q5", "glc", "tiguan", "rav4", "cr-v", "sportage", "tucson"}, value.SegmentSUVMedium},
	{[]string{"x5", "x6", "q7", "q8", "gle", "gls", "cayenne", "touareg", "defender", "range rover"}, value.SegmentSUVLarge},
	{[]string{"bentayga", "cullinan", "urus", "dbx"}, value.SegmentSUVLuxury},
	{[]string{"911", "cayman", "boxster", "corvette", "mustang", "camaro"}, value.SegmentSport},
	{[]string{"ferrari", "lamborghini", "mclaren", "huracan", "aventador"}, value.SegmentSupercar},
	{[]string{"coupe", "coup"}, value.SegmentCoupe},
	{[]string{"cabrio", "convertible", "roadster"}, value.SegmentConvertible},
	{[]string{"wagon", "estate", "touring", "avant", "kombi"}, value.SegmentWagon},
	{[]string{"golf", "polo", "fiesta", "corsa", "punto", "yaris", "jazz"}, value.SegmentHatchback},
	{[]string{"1 series", "seria 1", "a1", "a-class", "clasa a"}, value.SegmentSedanSmall},
	{[]string{"2 series", "3 series", "seria 2", "seria 3", "a3", "a4", "c-class", "clasa c"}, value.SegmentSedanMedium},
	{[]string{"5 series", "seria 5", "a6", "e-class", "clasa e"}, value.SegmentSedanLarge},
	{[]string{"7 series", "seria 7", "a8", "s-class", "clasa s"}, value.SegmentSedanLuxury},
}

// люксовые марки, у которых любой седан считается люксовым
var luxurySedanBrands = map[string]struct{}{
	"bentley": {}, "rolls-royce": {}, "maserati": {},
}

// InferSegment определяет сегмент по свободному тексту модели.
// Всегда возвращает валидный сегмент: при промахе — дефолт по категории марки.
func InferSegment(brand, model string) value.Segment {
	modelLower := strings.ToLower(model)
	brandLower := strings.ToLower(strings.TrimSpace(brand))

	if _, ok := luxurySedanBrands[brandLower]; ok {
		return value.SegmentSedanLuxury
	}

	for _, rule := range segmentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(modelLower, kw) {
				return rule.segment
			}
		}
	}

	switch BrandCategoryOf(brandLower) {
	case value.CategoryLuxury:
		return value.SegmentSedanLarge
	case value.CategoryBudget:
		return value.SegmentSedanSmall
	default:
		return value.SegmentSedanMedium
	}
}
