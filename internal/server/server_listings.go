package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"git.appkode.ru/pub/go/failure"

	"carprice/internal/domain"
	"carprice/internal/domain/entity"
	"carprice/pkg/errcodes"
	"carprice/pkg/httpx/reply"
	"carprice/pkg/httpx/req"
	"carprice/pkg/rest"
)

const (
	defaultListingsLimit = 100
	maxListingsLimit     = 500

	defaultCleanupDays = 30
)

type listingStore interface {
	FindComparables(ctx context.Context, query entity.ListingQuery) ([]entity.Listing, error)
	GetByID(ctx context.Context, id int64) (entity.Listing, error)
	MarkInactiveOlderThan(ctx context.Context, olderThan time.Duration) (int64, error)
}

type ListingServer struct {
	store listingStore
}

func NewListingServer(store listingStore) ListingServer {
	return ListingServer{
		store: store,
	}
}

// listingsResponse — обёртка списка, чтобы клиент получал общее количество
// без отдельного запроса.
type listingsResponse struct {
	Total    int              `json:"total"`
	Listings []entity.Listing `json:"listings"`
}

func (s ListingServer) getV1Listings(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	query, err := newListingQuery(r)
	if err != nil {
		return fmt.Errorf("newListingQuery: %w", err)
	}

	listings, err := s.store.FindComparables(ctx, query)
	if err != nil {
		return fmt.Errorf("store.FindComparables: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, listingsResponse{
		Total:    len(listings),
		Listings: listings,
	})

	return nil
}

func (s ListingServer) getV1Listing(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("listingID"), 10, 64)
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("invalid listing id: %w", err),
			failure.WithCode(errcodes.InvalidPaging),
		)
	}

	listing, err := s.store.GetByID(ctx, id)
	if err != nil {
		// Доменная "не найдено" транслируется в 404 на границе API.
		if code, ok := domain.GetCode(err); ok && code == errcodes.ListingNotFound {
			return failure.NewNotFoundErrorFromError(
				fmt.Errorf("store.GetByID: %w", err),
				failure.WithCode(errcodes.ListingNotFound),
			)
		}

		return fmt.Errorf("store.GetByID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, listing)

	return nil
}

func (s ListingServer) postV1ListingsCleanup(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CleanupRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	days := request.OlderThanDays
	if days == 0 {
		days = defaultCleanupDays
	}

	deactivated, err := s.store.MarkInactiveOlderThan(ctx, time.Duration(days)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("store.MarkInactiveOlderThan: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.CleanupResult{Deactivated: deactivated})

	return nil
}

func newListingQuery(r *http.Request) (entity.ListingQuery, error) {
	params := r.URL.Query()

	yearMin, err := queryInt(params.Get("an_min"))
	if err != nil {
		return entity.ListingQuery{}, invalidPagingError("an_min", err)
	}

	yearMax, err := queryInt(params.Get("an_max"))
	if err != nil {
		return entity.ListingQuery{}, invalidPagingError("an_max", err)
	}

	limit, err := queryInt(params.Get("limit"))
	if err != nil {
		return entity.ListingQuery{}, invalidPagingError("limit", err)
	}

	if limit <= 0 || limit > maxListingsLimit {
		limit = defaultListingsLimit
	}

	fuel, err := parseOptionalFuel(params.Get("combustibil"))
	if err != nil {
		return entity.ListingQuery{}, err
	}

	return entity.ListingQuery{
		Brand:      params.Get("marca"),
		Model:      params.Get("model"),
		YearMin:    yearMin,
		YearMax:    yearMax,
		Fuel:       fuel,
		ActiveOnly: params.Get("inactive") != "true",
		Limit:      limit,
	}, nil
}

func queryInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	return strconv.Atoi(s)
}

func invalidPagingError(param string, err error) error {
	return failure.NewInvalidArgumentErrorFromError(
		fmt.Errorf("invalid query parameter %s: %w", param, err),
		failure.WithCode(errcodes.InvalidPaging),
	)
}
