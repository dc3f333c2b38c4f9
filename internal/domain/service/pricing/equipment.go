package pricing

import (
	"math"
	"strings"
)

// equipmentKind — позиция каталога дотаций: базовая стоимость и собственный
// темп депрециации. Порядок фиксирован: тег матчится с первой подходящей
// позицией и дальше не проверяется.
type equipmentKind struct {
	key   string
	value float64
	depr  float64
}

var equipmentCatalog = []equipmentKind{
	{key: "piele", value: 1500, depr: 0.10},     // кожа
	{key: "navigatie", value: 1200, depr: 0.20}, // навигация
	{key: "xenon", value: 800, depr: 0.12},
	{key: "senzori", value: 400, depr: 0.10}, // парктроники
	{key: "camera", value: 600, depr: 0.15},
	{key: "scaune", value: 500, depr: 0.12}, // подогрев сидений
	{key: "clima", value: 800, depr: 0.15},
	{key: "jante", value: 1000, depr: 0.12}, // литые диски
	{key: "cruise", value: 300, depr: 0.15},
	{key: "keyless", value: 400, depr: 0.15},
	{key: "trapa", value: 1500, depr: 0.15}, // люк
	{key: "sport", value: 3000, depr: 0.12},
}

// EquipmentValue суммирует остаточную стоимость опций с учётом возраста.
// Нераспознанный тег даёт 0, отрицательного вклада не бывает.
func EquipmentValue(tags []string, carAge int) float64 {
	if carAge < 0 {
		carAge = 0
	}

	var total float64

	for _, tag := range tags {
		tagLower := strings.ToLower(tag)

		for _, kind := range equipmentCatalog {
			if strings.Contains(tagLower, kind.key) {
				total += kind.value * math.Pow(1-kind.depr, float64(carAge))
				break
			}
		}
	}

	return total
}
