package analysis

import (
	"context"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"aptscope/config"
	"aptscope/internal/funding"
	"aptscope/internal/models"
	"aptscope/internal/pricing"
	"aptscope/internal/regulation"
)

// pyeongInSquareMeters converts m² to the traditional unit quoted alongside
// subscription prices.
const pyeongInSquareMeters = 3.3058

// TradeSource serves cached trade records for a district.
type TradeSource interface {
	Transactions(ctx context.Context, regionCode string, propertyType models.PropertyType) []models.TransactionRecord
}

// IndexSource is the regional index consumed by fallback pricing and lease
// ratio lookups.
type IndexSource interface {
	pricing.IndexSource
	LeaseRatio(region string) float64
}

// Analyzer turns raw developments into analyzed records: per-unit-type
// market price estimates, cross-unit-type correction, funding plans and a
// development-level maximum profit.
type Analyzer struct {
	trades TradeSource
	index  IndexSource
	cfg    *config.Config
	logger *logrus.Logger
}

// NewAnalyzer creates an analyzer over the given trade and index sources.
func NewAnalyzer(trades TradeSource, index IndexSource, cfg *config.Config, logger *logrus.Logger) *Analyzer {
	return &Analyzer{
		trades: trades,
		index:  index,
		cfg:    cfg,
		logger: logger,
	}
}

// AnalyzeAll analyzes every development and returns the kept records sorted
// by maximum profit, highest first. Only fully closed listings must clear
// the profit threshold; anything still in its receipt lifecycle (upcoming,
// open, or awaiting the winner announcement) is always kept. One development
// failing to price never blocks the others.
func (a *Analyzer) AnalyzeAll(ctx context.Context, developments []models.Development) []*models.Analysis {
	results := make([]*models.Analysis, 0, len(developments))

	for i, dev := range developments {
		a.logger.Infof("Analyzing %d/%d: %s", i+1, len(developments), dev.Name)

		analysis := a.analyzeDevelopment(ctx, dev)

		if dev.Status == models.StatusClosed && !dev.Upcoming &&
			analysis.MaxProfit < a.cfg.Pricing.MinProfitThreshold {
			a.logger.WithFields(logrus.Fields{
				"name":       dev.Name,
				"max_profit": analysis.MaxProfit,
			}).Info("Closed listing below profit threshold, dropped")
			continue
		}
		results = append(results, analysis)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MaxProfit > results[j].MaxProfit
	})

	a.logger.Infof("Analysis complete: %d of %d listings kept", len(results), len(developments))
	return results
}

func (a *Analyzer) analyzeDevelopment(ctx context.Context, dev models.Development) *models.Analysis {
	region := config.IndexRegionName(dev.Region)
	regionCode := config.LawdCodeForAddress(dev.Address)
	subdistrict := config.SubdistrictFromAddress(dev.Address)
	leaseRatio := a.index.LeaseRatio(region)

	var estimates []*models.UnitTypeEstimate
	for _, unit := range dev.UnitTypes {
		est := a.analyzeUnitType(ctx, dev, unit, region, regionCode, subdistrict, leaseRatio)
		if est == nil {
			continue
		}
		estimates = append(estimates, est)
	}

	// Propagate the development's own trade evidence to unit types that had
	// to fall back to weaker sources, then refresh their funding.
	pricing.Correct(estimates, func(e *models.UnitTypeEstimate) {
		e.Funding = a.computeFunding(dev.Flags, e, leaseRatio)
	})

	var maxProfit int64
	for _, e := range estimates {
		if e.Profit > maxProfit {
			maxProfit = e.Profit
		}
	}

	return &models.Analysis{
		ManageNo:        dev.ManageNo,
		Name:            dev.Name,
		Region:          dev.Region,
		Address:         dev.Address,
		Constructor:     dev.Constructor,
		Homepage:        dev.Homepage,
		TotalHouseholds: dev.TotalHouseholds,
		PropertyType:    dev.PropertyType,
		Status:          dev.Status,
		Upcoming:        dev.Upcoming,
		Qualification:   dev.Qualification,
		Schedule:        dev.Schedule,
		Regulations:     regulation.Classify(dev.Flags),
		MaxProfit:       maxProfit,
		Estimates:       estimates,
	}
}

// analyzeUnitType prices one unit type. Missing subscription price or area
// skips the unit type; missing market evidence does not — the estimate is
// emitted with a zero price and no-data provenance so the caller can decide.
func (a *Analyzer) analyzeUnitType(ctx context.Context, dev models.Development, unit models.UnitType, region, regionCode, subdistrict string, leaseRatio float64) *models.UnitTypeEstimate {
	if unit.SubscriptionPrice <= 0 {
		return nil
	}
	area := ExclusiveArea(unit)
	if area <= 0 {
		return nil
	}

	var price int64
	var prov models.Provenance

	if regionCode != "" {
		records := a.trades.Transactions(ctx, regionCode, dev.PropertyType)
		res := pricing.ResolvePrice(records, area, subdistrict, a.cfg.Pricing.RecencyFloorYear)
		if res.Resolved {
			price = res.Price
			prov = models.Provenance{
				Kind:               models.ProvenanceDirectTransaction,
				SampleSize:         res.SampleSize,
				SubdistrictMatched: res.SubdistrictMatched,
			}
		}
	}

	if price <= 0 {
		price, prov = pricing.FallbackPrice(a.index, dev.PropertyType, region, subdistrict, area)
	}

	est := &models.UnitTypeEstimate{
		TypeCode:             unit.TypeCode,
		SupplyArea:           unit.SupplyArea,
		ExclusiveArea:        area,
		SubscriptionPrice:    unit.SubscriptionPrice,
		EstimatedMarketPrice: price,
		Profit:               price - unit.SubscriptionPrice,
		HouseholdCount:       unit.HouseholdCount,
		Provenance:           prov,
	}

	if unit.SupplyArea > 0 {
		est.PricePerPyeong = int64(math.Round(float64(unit.SubscriptionPrice) / (unit.SupplyArea / pyeongInSquareMeters)))
	}

	est.Funding = a.computeFunding(dev.Flags, est, leaseRatio)
	return est
}

func (a *Analyzer) computeFunding(flags models.RegulatoryFlags, est *models.UnitTypeEstimate, leaseRatio float64) models.FundingPlan {
	f := a.cfg.Funding
	return funding.Compute(funding.Input{
		SubscriptionPrice:  est.SubscriptionPrice,
		MarketPrice:        est.EstimatedMarketPrice,
		LeaseRatio:         leaseRatio,
		Flags:              flags,
		HouseholdIncome:    f.HouseholdIncome,
		ExistingAnnualDebt: f.ExistingAnnualDebt,
		InterimRate:        f.InterestRate,
		MortgageRate:       f.MortgageRate,
		MortgageYears:      f.MortgageYears,
		DebtServiceRatio:   f.DebtServiceRatio,
		FirstHome:          f.FirstHome,
	})
}
