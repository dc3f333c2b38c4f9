package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	scrapesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carprice_scrapes_total",
		Help: "Total acquisition runs by result.",
	}, []string{"result"})

	listingsSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carprice_listings_saved_total",
		Help: "Total listings persisted after deduplication.",
	})
)
