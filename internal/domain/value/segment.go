package value

// Segment — класс кузова/размера, задаёт базовую цену нового автомобиля.
type Segment string

const (
	SegmentSedanSmall  Segment = "sedan_small"
	SegmentSedanMedium Segment = "sedan_medium"
	SegmentSedanLarge  Segment = "sedan_large"
	SegmentSedanLuxury Segment = "sedan_luxury"
	SegmentSUVSmall    Segment = "suv_small"
	SegmentSUVMedium   Segment = "suv_medium"
	SegmentSUVLarge    Segment = "suv_large"
	SegmentSUVLuxury   Segment = "suv_luxury"
	SegmentSport       Segment = "sport"
	SegmentSupercar    Segment = "supercar"
	SegmentHatchback   Segment = "hatchback"
	SegmentWagon       Segment = "wagon"
	SegmentCoupe       Segment = "coupe"
	SegmentConvertible Segment = "convertible"
)

func (s Segment) String() string {
	return string(s)
}

var segmentBasePrices = map[Segment]float64{
	SegmentSedanSmall:  20000,
	SegmentSedanMedium: 30000,
	SegmentSedanLarge:  45000,
	SegmentSedanLuxury: 80000,
	SegmentSUVSmall:    25000,
	SegmentSUVMedium:   40000,
	SegmentSUVLarge:    60000,
	SegmentSUVLuxury:   100000,
	SegmentSport:       60000,
	SegmentSupercar:    200000,
	SegmentHatchback:   18000,
	SegmentWagon:       28000,
	SegmentCoupe:       40000,
	SegmentConvertible: 50000,
}

// BasePriceEUR — средняя цена нового автомобиля сегмента.
func (s Segment) BasePriceEUR() float64 {
	return segmentBasePrices[s]
}
