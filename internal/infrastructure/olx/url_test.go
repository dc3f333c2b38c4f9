package olx_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"carprice/internal/domain/value"
	"carprice/internal/infrastructure/olx"
)

func TestBuildSearchURL(t *testing.T) {
	rq := require.New(t)

	searchURL := olx.BuildSearchURL("BMW", olx.SearchFilter{
		Model:    "Seria 3",
		YearFrom: 2015,
		YearTo:   2019,
		KmTo:     150000,
		Fuel:     value.FuelDiesel,
	})

	rq.True(strings.HasPrefix(searchURL,
		"https://www.olx.ro/auto-masini-moto-ambarcatiuni/autoturisme/bmw/?"))

	parsed, err := url.Parse(searchURL)
	rq.NoError(err)

	params := parsed.Query()
	rq.Equal("EUR", params.Get("currency"))
	// Серии BMW в каталоге OLX живут под собственными слагами.
	rq.Equal("3-as-sorozat", params.Get("search[filter_enum_model][0]"))
	rq.Equal("2015", params.Get("search[filter_float_year:from]"))
	rq.Equal("2019", params.Get("search[filter_float_year:to]"))
	rq.Equal("150000", params.Get("search[filter_float_rulaj_pana:to]"))
	rq.Equal("diesel", params.Get("search[filter_enum_petrol][0]"))
	rq.Empty(params.Get("search[filter_float_rulaj_pana:from]"))
}

func TestBuildSearchURL_MercedesSlug(t *testing.T) {
	searchURL := olx.BuildSearchURL("Mercedes-Benz", olx.SearchFilter{})

	require.True(t, strings.HasPrefix(searchURL,
		"https://www.olx.ro/auto-masini-moto-ambarcatiuni/autoturisme/mercedes/?"))
}

func TestPageURL(t *testing.T) {
	rq := require.New(t)

	base := "https://www.olx.ro/autoturisme/bmw/?currency=EUR"

	rq.Equal(base, olx.PageURL(base, 1))
	rq.Equal(base+"&page=2", olx.PageURL(base, 2))
	rq.Equal("https://example.com/x?page=3", olx.PageURL("https://example.com/x", 3))
}
