package olx_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"carprice/internal/infrastructure/olx"
)

const emptyResultsHTML = `<html><body><div data-testid="listing-grid"></div></body></html>`

const singleCardHTML = `
<html><body>
<div data-cy="l-card">
	<a href="/d/oferta/bmw-320d-2018-IDabc.html"></a>
	<h6>BMW 320d 2018 xDrive 190 CP</h6>
	<p data-testid="ad-price">14 500 EUR</p>
	<span>150.000 km, diesel, automat</span>
</div>
</body></html>`

// transportStub отдаёт разные страницы для каталожного и полнотекстового
// поиска и запоминает запрошенные URL.
type transportStub struct {
	categoryHTML string
	queryHTML    string
	requests     []string
}

func (t *transportStub) RoundTrip(req *http.Request) (*http.Response, error) {
	t.requests = append(t.requests, req.URL.String())

	body := t.categoryHTML
	if strings.HasPrefix(req.URL.Path, "/d/oferte/q-") {
		body = t.queryHTML
	}

	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func newTestClient(transport *transportStub) *olx.Client {
	return olx.NewClient().
		WithHTTPClient(&http.Client{Transport: transport}).
		WithDelay(time.Millisecond).
		WithMaxPages(1)
}

func TestSearchCars_FallsBackToFullTextSearch(t *testing.T) {
	rq := require.New(t)

	transport := &transportStub{
		categoryHTML: emptyResultsHTML,
		queryHTML:    singleCardHTML,
	}

	listings, err := newTestClient(transport).SearchCars(
		context.Background(), "bmw", olx.SearchFilter{Model: "Seria 3"})
	rq.NoError(err)

	rq.Len(listings, 1)
	rq.Equal("Seria 3", listings[0].ModelSeries)

	rq.Len(transport.requests, 2)
	rq.Contains(transport.requests[0], "/auto-masini-moto-ambarcatiuni/autoturisme/bmw/")
	rq.Contains(transport.requests[1], "/d/oferte/q-bmw-seria-3/")
}

func TestSearchCars_CategoryResultsSkipFallback(t *testing.T) {
	rq := require.New(t)

	transport := &transportStub{
		categoryHTML: singleCardHTML,
		queryHTML:    singleCardHTML,
	}

	listings, err := newTestClient(transport).SearchCars(
		context.Background(), "bmw", olx.SearchFilter{Model: "Seria 3"})
	rq.NoError(err)

	rq.Len(listings, 1)
	rq.Len(transport.requests, 1, "non-empty category search must not trigger full-text search")
}
