package models

// PropertyType identifies which transaction feed and regional index a unit
// type is priced against.
type PropertyType int

const (
	PropertyTypeApartment PropertyType = iota
	PropertyTypeOfficetel
)

// String returns the string representation of a PropertyType
func (p PropertyType) String() string {
	switch p {
	case PropertyTypeApartment:
		return "apartment"
	case PropertyTypeOfficetel:
		return "officetel"
	default:
		return "unknown"
	}
}

// TransactionRecord is a single historical sale, immutable once fetched.
// Prices are in won, areas in m².
type TransactionRecord struct {
	Price         int64   `json:"price"`
	ExclusiveArea float64 `json:"exclusive_area"`
	Subdistrict   string  `json:"subdistrict"`
	ComplexName   string  `json:"complex_name"`
	BuildYear     int     `json:"build_year"`
}

// RegionalIndexEntry is an aggregate price level for one region, loaded once
// at startup and read-only thereafter.
type RegionalIndexEntry struct {
	PricePerArea      float64 `json:"price_per_area"`
	LeaseToPriceRatio float64 `json:"lease_to_price_ratio"`
}
