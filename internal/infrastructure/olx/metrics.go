package olx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "carprice_scrape_pages_total",
	Help: "Search result pages fetched, by result.",
}, []string{"result"})
