package pricing

import (
	"math"

	"aptscope/config"
	"aptscope/internal/models"
)

// IndexSource answers regional index lookups at the most granular level it
// holds data for.
type IndexSource interface {
	Find(propertyType models.PropertyType, region, subdistrict string) (models.RegionalIndexEntry, models.IndexGranularity, bool)
}

// FallbackPrice estimates a market price from the regional index when trade
// evidence ran out. Officetels have no dedicated index series, so their
// lookups reuse the apartment series scaled by a region-specific conversion
// ratio; the substitution is recorded in the returned provenance. A zero
// price with NoData provenance means the index had nothing either.
func FallbackPrice(index IndexSource, propertyType models.PropertyType, region, subdistrict string, targetArea float64) (int64, models.Provenance) {
	entry, granularity, ok := index.Find(propertyType, region, subdistrict)

	substituted := false
	ratio := 1.0
	if !ok && propertyType == models.PropertyTypeOfficetel {
		entry, granularity, ok = index.Find(models.PropertyTypeApartment, region, subdistrict)
		if ok {
			substituted = true
			ratio = config.OfficetelConversionRatio(region)
		}
	}

	if !ok || entry.PricePerArea <= 0 {
		return 0, models.Provenance{Kind: models.ProvenanceNoData}
	}

	price := int64(math.Round(entry.PricePerArea * ratio * targetArea))
	prov := models.Provenance{
		Kind:        models.ProvenanceRegionalIndex,
		Granularity: granularity,
		Substituted: substituted,
	}
	if substituted {
		prov.ConversionRatio = ratio
	}
	return price, prov
}
