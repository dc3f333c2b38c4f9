package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"carprice/internal/domain/service/catalog"
	"carprice/internal/domain/value"
)

func TestBrandCategoryOf(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		brand    string
		category value.BrandCategory
	}{
		{"BMW", value.CategoryLuxury},
		{"mercedes-benz", value.CategoryLuxury},
		{"Volvo", value.CategoryPremium},
		{"volkswagen", value.CategoryMassMarket},
		{"Dacia", value.CategoryBudget},
		{"skoda", value.CategoryBudget},
		{"Zzz Motors", value.CategoryMassMarket}, // неизвестная марка
		{"", value.CategoryMassMarket},
	}

	for _, tc := range testCases {
		rq.Equal(tc.category, catalog.BrandCategoryOf(tc.brand), "brand %q", tc.brand)
	}
}

func TestNormalizeBrand(t *testing.T) {
	rq := require.New(t)

	rq.Equal("volkswagen", catalog.NormalizeBrand("VW"))
	rq.Equal("mercedes-benz", catalog.NormalizeBrand(" Mercedes "))
	rq.Equal("land rover", catalog.NormalizeBrand("Range Rover"))
	rq.Equal("dacia", catalog.NormalizeBrand("Dacia"))
}

func TestIsMajorManufacturer(t *testing.T) {
	rq := require.New(t)

	rq.True(catalog.IsMajorManufacturer("BMW"))
	rq.True(catalog.IsMajorManufacturer("bmw motorrad"))
	rq.True(catalog.IsMajorManufacturer("VW"))
	rq.False(catalog.IsMajorManufacturer(""))
	rq.False(catalog.IsMajorManufacturer("Fords Trailer"))
	rq.False(catalog.IsMajorManufacturer("Affordable Cars SRL"))
	rq.False(catalog.IsMajorManufacturer("Mitsubishi Fuso"))
}

func TestInferSegment(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		brand   string
		model   string
		segment value.Segment
	}{
		{"BMW", "X5 xDrive", value.SegmentSUVLarge},
		{"BMW", "Seria 3", value.SegmentSedanMedium},
		{"Audi", "Q3 Sportback", value.SegmentSUVSmall},
		{"Porsche", "911 Carrera", value.SegmentSport},
		{"Volkswagen", "Golf 7", value.SegmentHatchback},
		{"Audi", "A6 Avant", value.SegmentWagon}, // avant раньше номера серии
		{"Mercedes-Benz", "S-Class", value.SegmentSedanLuxury},
		{"Bentley", "Continental", value.SegmentSedanLuxury},
		{"Lamborghini", "Urus", value.SegmentSUVLuxury},
		// дефолты по категории марки
		{"Dacia", "Logan", value.SegmentSedanSmall},
		{"BMW", "необычная модель", value.SegmentSedanLarge},
		{"Toyota", "Unknown Model", value.SegmentSedanMedium},
	}

	for _, tc := range testCases {
		rq.Equal(tc.segment, catalog.InferSegment(tc.brand, tc.model), "%s %s", tc.brand, tc.model)
	}
}
