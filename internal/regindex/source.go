package regindex

import (
	"aptscope/internal/models"
)

// DefaultLeaseRatio applies when the index carries no lease series for a
// region.
const DefaultLeaseRatio = 0.6

// Entry is one regional index data point as delivered by the loader. An
// empty Subdistrict marks a province-level entry.
type Entry struct {
	PropertyType models.PropertyType `json:"property_type"`
	Region       string              `json:"region"`
	Subdistrict  string              `json:"subdistrict"`
	PricePerArea float64             `json:"price_per_area"`
	LeaseRatio   float64             `json:"lease_to_price_ratio"`
}

type key struct {
	propertyType models.PropertyType
	region       string
	subdistrict  string
}

// Source is the read-only regional index. It is built once at startup and
// shared by reference; entries never change afterwards, so concurrent reads
// need no locking.
type Source struct {
	entries map[key]models.RegionalIndexEntry
}

// NewSource builds a Source from loaded entries.
func NewSource(entries []Entry) *Source {
	m := make(map[key]models.RegionalIndexEntry, len(entries))
	for _, e := range entries {
		m[key{e.PropertyType, e.Region, e.Subdistrict}] = models.RegionalIndexEntry{
			PricePerArea:      e.PricePerArea,
			LeaseToPriceRatio: e.LeaseRatio,
		}
	}
	return &Source{entries: m}
}

// Find returns the most granular entry available for the property type:
// the subdistrict series when one exists, else the province series.
func (s *Source) Find(propertyType models.PropertyType, region, subdistrict string) (models.RegionalIndexEntry, models.IndexGranularity, bool) {
	if subdistrict != "" {
		if e, ok := s.entries[key{propertyType, region, subdistrict}]; ok {
			return e, models.GranularitySubdistrict, true
		}
	}
	if e, ok := s.entries[key{propertyType, region, ""}]; ok {
		return e, models.GranularityProvince, true
	}
	return models.RegionalIndexEntry{}, models.GranularityProvince, false
}

// LeaseRatio returns the region's lease-to-price ratio from the apartment
// province series, or the default when the index has none.
func (s *Source) LeaseRatio(region string) float64 {
	if e, ok := s.entries[key{models.PropertyTypeApartment, region, ""}]; ok && e.LeaseToPriceRatio > 0 {
		return e.LeaseToPriceRatio
	}
	return DefaultLeaseRatio
}

// Len returns the number of loaded entries.
func (s *Source) Len() int {
	return len(s.entries)
}
