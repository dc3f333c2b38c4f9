package value

// BrandCategory задаёт темп годовой депрециации и ценовой множитель марки.
type BrandCategory string

const (
	CategoryLuxury     BrandCategory = "luxury"
	CategoryPremium    BrandCategory = "premium"
	CategoryMassMarket BrandCategory = "mass_market"
	CategoryBudget     BrandCategory = "budget"
)

func (c BrandCategory) String() string {
	return string(c)
}

type categoryProfile struct {
	depreciation float64
	multiplier   float64
}

var categoryProfiles = map[BrandCategory]categoryProfile{
	CategoryLuxury:     {depreciation: 0.18, multiplier: 1.5},
	CategoryPremium:    {depreciation: 0.13, multiplier: 1.3},
	CategoryMassMarket: {depreciation: 0.11, multiplier: 1.0},
	CategoryBudget:     {depreciation: 0.09, multiplier: 0.8},
}

// DepreciationRate — годовой темп потери стоимости.
func (c BrandCategory) DepreciationRate() float64 {
	return categoryProfiles[c].depreciation
}

// PriceMultiplier — множитель к базовой цене сегмента.
func (c BrandCategory) PriceMultiplier() float64 {
	return categoryProfiles[c].multiplier
}
