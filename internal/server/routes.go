package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"carprice/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			// unauthorized zone
			r.Post("/analysis", handler(s.postV1Analysis))

			r.Route("/scrape", func(r chi.Router) {
				r.Post("/", handler(s.postV1Scrape))
				r.Get("/{taskID}", handler(s.getV1ScrapeTask))
			})

			r.Route("/listings", func(r chi.Router) {
				r.Get("/", handler(s.getV1Listings))
				r.Get("/{listingID}", handler(s.getV1Listing))
				r.Post("/cleanup", handler(s.postV1ListingsCleanup))
			})

			r.Route("/catalog", func(r chi.Router) {
				r.Get("/brands", handler(s.getV1CatalogBrands))
				r.Get("/makes", handler(s.getV1CatalogMakes))
				r.Get("/makes/{make}/models", handler(s.getV1CatalogModels))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
