package value

import (
	"fmt"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"carprice/pkg/errcodes"
)

// Значения совпадают со значениями фильтров OLX, поэтому enum-ы на румынском.
type FuelType string

const (
	FuelBenzina  FuelType = "benzina"
	FuelDiesel   FuelType = "diesel"
	FuelElectric FuelType = "electric"
	FuelHybrid   FuelType = "hybrid"
	FuelGPL      FuelType = "gpl"
)

func (f FuelType) String() string {
	return string(f)
}

func ParseFuelType(s string) (FuelType, error) {
	switch FuelType(strings.ToLower(strings.TrimSpace(s))) {
	case FuelBenzina, FuelDiesel, FuelElectric, FuelHybrid, FuelGPL:
		return FuelType(strings.ToLower(strings.TrimSpace(s))), nil
	}

	return "", failure.NewInvalidArgumentError(
		fmt.Sprintf("unknown fuel type %q", s),
		failure.WithCode(errcodes.InvalidFuelType),
	)
}

type Transmission string

const (
	TransmissionManuala  Transmission = "manuala"
	TransmissionAutomata Transmission = "automata"
	TransmissionUnknown  Transmission = "unknown"
)

func (t Transmission) String() string {
	return string(t)
}

func ParseTransmission(s string) (Transmission, error) {
	switch Transmission(strings.ToLower(strings.TrimSpace(s))) {
	case TransmissionManuala, TransmissionAutomata:
		return Transmission(strings.ToLower(strings.TrimSpace(s))), nil
	}

	return "", failure.NewInvalidArgumentError(
		fmt.Sprintf("unknown transmission %q", s),
		failure.WithCode(errcodes.InvalidTransmission),
	)
}

type Drivetrain string

const (
	DrivetrainFata  Drivetrain = "fata"
	DrivetrainSpate Drivetrain = "spate"
	Drivetrain4x4   Drivetrain = "4x4"
)

func (d Drivetrain) String() string {
	return string(d)
}

func ParseDrivetrain(s string) (Drivetrain, error) {
	switch Drivetrain(strings.ToLower(strings.TrimSpace(s))) {
	case DrivetrainFata, DrivetrainSpate, Drivetrain4x4:
		return Drivetrain(strings.ToLower(strings.TrimSpace(s))), nil
	}

	return "", failure.NewInvalidArgumentError(
		fmt.Sprintf("unknown drivetrain %q", s),
		failure.WithCode(errcodes.InvalidDrivetrain),
	)
}

type BodyType string

const (
	BodySedan     BodyType = "sedan"
	BodyHatchback BodyType = "hatchback"
	BodyBreak     BodyType = "break"
	BodyCoupe     BodyType = "coupe"
	BodySUV       BodyType = "suv"
	BodyCabrio    BodyType = "cabrio"
)

func (b BodyType) String() string {
	return string(b)
}

func ParseBodyType(s string) (BodyType, error) {
	switch BodyType(strings.ToLower(strings.TrimSpace(s))) {
	case BodySedan, BodyHatchback, BodyBreak, BodyCoupe, BodySUV, BodyCabrio:
		return BodyType(strings.ToLower(strings.TrimSpace(s))), nil
	}

	return "", failure.NewInvalidArgumentError(
		fmt.Sprintf("unknown body type %q", s),
		failure.WithCode(errcodes.InvalidBodyType),
	)
}
