package server

import (
	"fmt"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"carprice/internal/domain/value"
	"carprice/internal/worker"
	"carprice/pkg/errcodes"
	"carprice/pkg/rest"
)

const (
	minCatalogYear = 1990
	maxCatalogYear = 2025

	// Верхняя граница пробега, когда пользователь его не указал.
	openKmCeiling = 500000
)

// newAnalysisAcquisitionRequest конвертирует запрос оценки в параметры
// поиска сопоставимых: точечные год и пробег расширяются в окна.
func newAnalysisAcquisitionRequest(request rest.AnalysisRequest) (worker.AcquisitionRequest, error) {
	fuel, err := value.ParseFuelType(request.Combustibil)
	if err != nil {
		return worker.AcquisitionRequest{}, err
	}

	transmission, err := parseOptionalTransmission(request.Transmisie)
	if err != nil {
		return worker.AcquisitionRequest{}, err
	}

	body, err := parseOptionalBody(request.Caroserie)
	if err != nil {
		return worker.AcquisitionRequest{}, err
	}

	// Tractiune валидируется, но в поиск не попадает: на площадке этот
	// фильтр слишком разрежен и срезает почти всю выборку.
	if _, err := parseOptionalDrivetrain(request.Tractiune); err != nil {
		return worker.AcquisitionRequest{}, err
	}

	yearMin, yearMax := yearWindow(request.An)
	kmMin, kmMax := kmWindow(request.Km)

	return worker.AcquisitionRequest{
		Brand:         normalizeName(request.Marca),
		Model:         normalizeName(request.Model),
		YearMin:       yearMin,
		YearMax:       yearMax,
		KmMin:         kmMin,
		KmMax:         kmMax,
		Fuel:          fuel,
		Transmission:  transmission,
		Body:          body,
		EquipmentTags: request.Dotari,
	}, nil
}

// newScrapeAcquisitionRequest конвертирует ручной запрос сбора: диапазоны
// здесь задаёт сам пользователь, расширение не применяется.
func newScrapeAcquisitionRequest(request rest.ScrapeRequest) (worker.AcquisitionRequest, error) {
	if request.AnMin > 0 && request.AnMax > 0 && request.AnMin > request.AnMax {
		return worker.AcquisitionRequest{}, failure.NewInvalidArgumentError(
			"an_min is greater than an_max",
			failure.WithCode(errcodes.InvalidYear),
		)
	}

	if request.KmMin > 0 && request.KmMax > 0 && request.KmMin > request.KmMax {
		return worker.AcquisitionRequest{}, failure.NewInvalidArgumentError(
			"km_min is greater than km_max",
			failure.WithCode(errcodes.InvalidMileage),
		)
	}

	fuel, err := parseOptionalFuel(request.Combustibil)
	if err != nil {
		return worker.AcquisitionRequest{}, err
	}

	transmission, err := parseOptionalTransmission(request.Transmisie)
	if err != nil {
		return worker.AcquisitionRequest{}, err
	}

	body, err := parseOptionalBody(request.Caroserie)
	if err != nil {
		return worker.AcquisitionRequest{}, err
	}

	return worker.AcquisitionRequest{
		Brand:        normalizeName(request.Marca),
		Model:        normalizeName(request.Model),
		YearMin:      request.AnMin,
		YearMax:      request.AnMax,
		KmMin:        request.KmMin,
		KmMax:        request.KmMax,
		Fuel:         fuel,
		Transmission: transmission,
		Body:         body,
	}, nil
}

// yearWindow расширяет точечный год в окно поиска: для свежих машин рынок
// плотный и хватает ±1 года, для старых берём ±2.
func yearWindow(year int) (int, int) {
	spread := 2
	if year >= 2015 {
		spread = 1
	}

	return max(minCatalogYear, year-spread), min(maxCatalogYear, year+spread)
}

// kmWindow расширяет пробег в окно: чем больше пробег, тем шире допуск.
// Нулевой пробег означает "не указан" и даёт открытый диапазон.
func kmWindow(km int) (int, int) {
	if km <= 0 {
		return 0, openKmCeiling
	}

	var spread int

	switch {
	case km <= 50000:
		spread = 5000
	case km <= 100000:
		spread = 10000
	case km <= 150000:
		spread = 15000
	default:
		spread = 20000
	}

	return max(0, km-spread), km + spread
}

func parseOptionalFuel(s string) (value.FuelType, error) {
	if s == "" {
		return "", nil
	}

	fuel, err := value.ParseFuelType(s)
	if err != nil {
		return "", fmt.Errorf("value.ParseFuelType: %w", err)
	}

	return fuel, nil
}

func parseOptionalTransmission(s string) (value.Transmission, error) {
	if s == "" {
		return "", nil
	}

	transmission, err := value.ParseTransmission(s)
	if err != nil {
		return "", fmt.Errorf("value.ParseTransmission: %w", err)
	}

	return transmission, nil
}

func parseOptionalDrivetrain(s string) (value.Drivetrain, error) {
	if s == "" {
		return "", nil
	}

	drivetrain, err := value.ParseDrivetrain(s)
	if err != nil {
		return "", fmt.Errorf("value.ParseDrivetrain: %w", err)
	}

	return drivetrain, nil
}

func parseOptionalBody(s string) (value.BodyType, error) {
	if s == "" {
		return "", nil
	}

	body, err := value.ParseBodyType(s)
	if err != nil {
		return "", fmt.Errorf("value.ParseBodyType: %w", err)
	}

	return body, nil
}

// normalizeName чистит пользовательский ввод марки/модели: обрезка пробелов
// и Title Case, как вводят на площадке.
func normalizeName(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	return strings.Join(words, " ")
}
