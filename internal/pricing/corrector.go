package pricing

import (
	"math"

	"aptscope/internal/models"
)

// FundingRecompute rebuilds an estimate's funding plan after its market
// price changed.
type FundingRecompute func(est *models.UnitTypeEstimate)

// Correct propagates direct-transaction evidence across the unit types of
// one development. Unit types in the same building share a price level, so
// the mean price-per-area of the transaction-backed estimates replaces the
// weaker index- or no-data-based prices of the rest. Transaction-backed
// estimates are never modified, and with no transaction-backed evidence the
// whole call is a no-op.
func Correct(estimates []*models.UnitTypeEstimate, recompute FundingRecompute) {
	var sum float64
	var n int
	for _, e := range estimates {
		if e.Provenance.Kind != models.ProvenanceDirectTransaction || e.ExclusiveArea <= 0 {
			continue
		}
		sum += float64(e.EstimatedMarketPrice) / e.ExclusiveArea
		n++
	}
	if n == 0 {
		return
	}
	mean := sum / float64(n)

	for _, e := range estimates {
		if e.Provenance.Kind == models.ProvenanceDirectTransaction {
			continue
		}
		if e.ExclusiveArea <= 0 {
			continue
		}
		e.EstimatedMarketPrice = int64(math.Round(mean * e.ExclusiveArea))
		e.Profit = e.EstimatedMarketPrice - e.SubscriptionPrice
		e.Provenance = models.Provenance{
			Kind:        models.ProvenanceCrossEstimated,
			RatePerArea: mean,
		}
		if recompute != nil {
			recompute(e)
		}
	}
}
