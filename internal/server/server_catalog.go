package server

import (
	"context"
	"fmt"
	"net/http"

	"carprice/internal/domain/service/catalog"
	"carprice/internal/infrastructure/vehicledata"
	"carprice/pkg/httpx/reply"
	"carprice/pkg/rest"
)

type makesCatalog interface {
	GetMakes(ctx context.Context) ([]vehicledata.Make, error)
	GetModelsForMake(ctx context.Context, makeName string) ([]vehicledata.Model, error)
}

type CatalogServer struct {
	makes makesCatalog
}

func NewCatalogServer(makes makesCatalog) CatalogServer {
	return CatalogServer{
		makes: makes,
	}
}

// getV1CatalogBrands отдаёт статический список марок: он не требует похода
// во внешний каталог и работает даже при его недоступности.
func (s CatalogServer) getV1CatalogBrands(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, rest.Brands{Brands: catalog.Majors()})

	return nil
}

func (s CatalogServer) getV1CatalogMakes(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	makes, err := s.makes.GetMakes(ctx)
	if err != nil {
		return fmt.Errorf("makes.GetMakes: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, makes)

	return nil
}

func (s CatalogServer) getV1CatalogModels(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	models, err := s.makes.GetModelsForMake(ctx, r.PathValue("make"))
	if err != nil {
		return fmt.Errorf("makes.GetModelsForMake: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, models)

	return nil
}
