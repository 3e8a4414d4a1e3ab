package pricing

import (
	"math"
	"sort"

	"aptscope/internal/models"
)

// tier is one rung of the resolution waterfall: a candidate filter paired
// with the sample size it needs before its median is trusted.
type tier struct {
	recencyFiltered bool
	sameSubdistrict bool
	areaTolerance   float64
	minCandidates   int // 0 accepts unconditionally
}

// tiers are evaluated strictly in order; the first tier whose candidate set
// meets its threshold wins.
var tiers = []tier{
	{recencyFiltered: true, sameSubdistrict: true, areaTolerance: 5, minCandidates: 5},
	{recencyFiltered: true, areaTolerance: 5, minCandidates: 10},
	{recencyFiltered: true, areaTolerance: 10, minCandidates: 10},
	{areaTolerance: 5, minCandidates: 10},
	{areaTolerance: 10},
}

// largeUnitArea is the m² boundary above which a bigger evidentiary floor
// applies; large units trade rarely and small samples skew the median.
const largeUnitArea = 120

// Resolution is the outcome of a price resolution attempt. Resolved false
// means no tier produced evidence and the caller should fall back to the
// regional index.
type Resolution struct {
	Resolved           bool
	Price              int64
	SampleSize         int
	SubdistrictMatched bool
}

// ResolvePrice walks the tier waterfall over the given trade records and
// returns the first accepted tier's median price-per-area scaled to
// targetArea. Records are matched on |area − targetArea| within the tier's
// tolerance; recency-filtered tiers additionally require
// buildYear ≥ recencyFloorYear, and the subdistrict tier requires an exact
// subdistrict match.
func ResolvePrice(records []models.TransactionRecord, targetArea float64, targetSubdistrict string, recencyFloorYear int) Resolution {
	minSample := 5
	if targetArea > largeUnitArea {
		minSample = 20
	}

	for _, t := range tiers {
		if t.sameSubdistrict && targetSubdistrict == "" {
			continue
		}

		var candidates []models.TransactionRecord
		for _, r := range records {
			if math.Abs(r.ExclusiveArea-targetArea) > t.areaTolerance {
				continue
			}
			if t.recencyFiltered && r.BuildYear < recencyFloorYear {
				continue
			}
			if t.sameSubdistrict && r.Subdistrict != targetSubdistrict {
				continue
			}
			candidates = append(candidates, r)
		}

		if t.minCandidates == 0 {
			// Last tier: accept whatever matched, or give up.
			if len(candidates) == 0 {
				return Resolution{}
			}
			return accept(candidates, targetArea, t)
		}

		floor := t.minCandidates
		if minSample > floor {
			floor = minSample
		}
		if len(candidates) >= floor {
			return accept(candidates, targetArea, t)
		}
	}

	return Resolution{}
}

func accept(candidates []models.TransactionRecord, targetArea float64, t tier) Resolution {
	return Resolution{
		Resolved:           true,
		Price:              int64(math.Round(medianPricePerArea(candidates) * targetArea)),
		SampleSize:         len(candidates),
		SubdistrictMatched: t.sameSubdistrict,
	}
}

// medianPricePerArea computes the median of price/area over the candidates.
// Pricing on the per-area rate rather than the absolute price keeps size
// differences inside the tolerance band from biasing the result.
func medianPricePerArea(records []models.TransactionRecord) float64 {
	rates := make([]float64, 0, len(records))
	for _, r := range records {
		if r.ExclusiveArea <= 0 {
			continue
		}
		rates = append(rates, float64(r.Price)/r.ExclusiveArea)
	}
	if len(rates) == 0 {
		return 0
	}

	sort.Float64s(rates)
	mid := len(rates) / 2
	if len(rates)%2 == 0 {
		return (rates[mid-1] + rates[mid]) / 2
	}
	return rates[mid]
}
