package vehicledata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"carprice/internal/infrastructure/vehicledata"
)

const makesResponse = `{
	"Count": 5,
	"Results": [
		{"Make_ID": 440, "Make_Name": "BMW"},
		{"Make_ID": 441, "Make_Name": "VOLKSWAGEN"},
		{"Make_ID": 442, "Make_Name": "BOB'S CUSTOM TRAILERS"},
		{"Make_ID": 443, "Make_Name": "DACIA"},
		{"Make_ID": 444, "Make_Name": "MITSUBISHI FUSO"}
	]
}`

const modelsResponse = `{
	"Count": 3,
	"Results": [
		{"Model_Name": "Golf"},
		{"Model_Name": "Passat"},
		{"Model_Name": "golf"}
	]
}`

func TestGetMakesFiltersAndCaches(t *testing.T) {
	rq := require.New(t)

	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(makesResponse))
	}))
	defer server.Close()

	client := vehicledata.NewClient().WithBaseURL(server.URL)

	makes, err := client.GetMakes(context.Background())
	rq.NoError(err)

	// Кастомная мастерская и грузовой Fuso отфильтрованы.
	rq.Len(makes, 3)

	names := make([]string, 0, len(makes))
	for _, m := range makes {
		names = append(names, m.Display)
	}
	rq.Equal([]string{"BMW", "Dacia", "Volkswagen"}, names)

	// Повторный вызов идёт из кэша.
	_, err = client.GetMakes(context.Background())
	rq.NoError(err)
	rq.EqualValues(1, requests.Load())
}

func TestGetModelsForMake(t *testing.T) {
	rq := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rq.Contains(r.URL.Path, "/GetModelsForMake/volkswagen")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(modelsResponse))
	}))
	defer server.Close()

	client := vehicledata.NewClient().WithBaseURL(server.URL)

	models, err := client.GetModelsForMake(context.Background(), "volkswagen")
	rq.NoError(err)

	// Дубликат с другим регистром схлопнут.
	rq.Len(models, 2)
	rq.Equal("Golf", models[0].Name)
	rq.Equal("Passat", models[1].Name)
}

func TestGetMakesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := vehicledata.NewClient().WithBaseURL(server.URL)

	_, err := client.GetMakes(context.Background())
	require.Error(t, err)
}
