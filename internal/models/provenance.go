package models

import "fmt"

// ProvenanceKind identifies which method produced a market price estimate.
type ProvenanceKind int

const (
	ProvenanceNoData ProvenanceKind = iota
	ProvenanceDirectTransaction
	ProvenanceCrossEstimated
	ProvenanceRegionalIndex
)

// String returns the string representation of a ProvenanceKind
func (k ProvenanceKind) String() string {
	switch k {
	case ProvenanceDirectTransaction:
		return "direct_transaction"
	case ProvenanceCrossEstimated:
		return "cross_estimated"
	case ProvenanceRegionalIndex:
		return "regional_index"
	default:
		return "no_data"
	}
}

// IndexGranularity records which level of the regional index answered a
// fallback lookup.
type IndexGranularity int

const (
	GranularitySubdistrict IndexGranularity = iota
	GranularityProvince
)

// String returns the string representation of an IndexGranularity
func (g IndexGranularity) String() string {
	if g == GranularitySubdistrict {
		return "subdistrict"
	}
	return "province"
}

// Provenance annotates a price estimate with the method that produced it and
// its confidence basis. Only the fields belonging to Kind are meaningful.
type Provenance struct {
	Kind ProvenanceKind `json:"kind"`

	// DirectTransaction
	SampleSize         int  `json:"sample_size,omitempty"`
	SubdistrictMatched bool `json:"subdistrict_matched,omitempty"`

	// CrossEstimated
	RatePerArea float64 `json:"rate_per_area,omitempty"`

	// RegionalIndex
	Granularity     IndexGranularity `json:"granularity,omitempty"`
	Substituted     bool             `json:"substituted,omitempty"`
	ConversionRatio float64          `json:"conversion_ratio,omitempty"`
}

// Label renders the provenance for presentation and persistence.
func (p Provenance) Label() string {
	switch p.Kind {
	case ProvenanceDirectTransaction:
		if p.SubdistrictMatched {
			return fmt.Sprintf("median of %d trades (subdistrict)", p.SampleSize)
		}
		return fmt.Sprintf("median of %d trades", p.SampleSize)
	case ProvenanceCrossEstimated:
		return fmt.Sprintf("cross-estimated at %.0f/m²", p.RatePerArea)
	case ProvenanceRegionalIndex:
		if p.Substituted {
			return fmt.Sprintf("regional index (%s, substituted ×%.2f)", p.Granularity, p.ConversionRatio)
		}
		return fmt.Sprintf("regional index (%s)", p.Granularity)
	default:
		return "no data"
	}
}
