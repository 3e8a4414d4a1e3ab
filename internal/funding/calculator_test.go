package funding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aptscope/internal/models"
)

// richInput yields a debt-service limit far above any LTV limit so LTV tests
// exercise the LTV branch alone.
func richInput(price int64, flags models.RegulatoryFlags, firstHome bool) Input {
	return Input{
		SubscriptionPrice: price,
		MarketPrice:       price,
		LeaseRatio:        0.6,
		Flags:             flags,
		HouseholdIncome:   10_000_000_000,
		InterimRate:       0.035,
		MortgageRate:      0.045,
		MortgageYears:     30,
		DebtServiceRatio:  0.4,
		FirstHome:         firstHome,
	}
}

func TestCompute_PaymentSchedule(t *testing.T) {
	plan := Compute(richInput(1_000_000_000, models.RegulatoryFlags{}, true))

	assert.Equal(t, int64(100_000_000), plan.DownPayment)
	assert.Equal(t, int64(600_000_000), plan.InterimPayment)
	assert.Equal(t, int64(300_000_000), plan.FinalPayment)
	assert.Equal(t, plan.DownPayment+plan.InterimPayment+plan.FinalPayment, int64(1_000_000_000))
}

func TestLoanToValue_Tiers(t *testing.T) {
	speculation := models.RegulatoryFlags{SpeculationZone: true}
	adjusted := models.RegulatoryFlags{AdjustedZone: true}

	tests := []struct {
		name       string
		price      int64
		flags      models.RegulatoryFlags
		firstHome  bool
		wantRate   float64
		wantCapped bool
	}{
		{"speculation below threshold", 800_000_000, speculation, true, 0.8, true},
		{"speculation above threshold", 1_000_000_000, speculation, true, 0.5, false},
		{"adjusted below threshold", 800_000_000, adjusted, true, 0.8, true},
		{"adjusted above threshold", 1_000_000_000, adjusted, true, 0.7, false},
		{"unregulated first home", 2_000_000_000, models.RegulatoryFlags{}, true, 0.8, false},
		{"non-first-home regulated", 800_000_000, speculation, false, 0.7, false},
		{"non-first-home unregulated", 800_000_000, models.RegulatoryFlags{}, false, 0.8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, capped := loanToValue(tt.price, tt.flags, tt.firstHome)
			assert.Equal(t, tt.wantRate, rate)
			assert.Equal(t, tt.wantCapped, capped)
		})
	}
}

func TestCompute_FirstHomeCapApplies(t *testing.T) {
	// 80% of 800M is 640M, over the 600M cap.
	plan := Compute(richInput(800_000_000, models.RegulatoryFlags{SpeculationZone: true}, true))

	assert.Equal(t, 0.8, plan.LoanToValueRate)
	assert.Equal(t, int64(600_000_000), plan.LoanToValueLimit)
}

func TestCompute_CapSkippedAboveThreshold(t *testing.T) {
	// 50% of 1B stays uncapped at 500M.
	plan := Compute(richInput(1_000_000_000, models.RegulatoryFlags{SpeculationZone: true}, true))

	assert.Equal(t, 0.5, plan.LoanToValueRate)
	assert.Equal(t, int64(500_000_000), plan.LoanToValueLimit)
}

func TestCompute_NonFirstHomeUncapped(t *testing.T) {
	// 70% of 800M is 560M; the 600M cap never applies without first-home.
	plan := Compute(richInput(800_000_000, models.RegulatoryFlags{AdjustedZone: true}, false))

	assert.Equal(t, int64(560_000_000), plan.LoanToValueLimit)
}

func TestDebtServiceLimit_ZeroRate(t *testing.T) {
	// At zero interest the annuity factor collapses to 12/n, so the limit is
	// capacity × years exactly: 40M × 10 = 400M.
	limit := debtServiceLimit(Input{
		HouseholdIncome:  100_000_000,
		DebtServiceRatio: 0.4,
		MortgageRate:     0,
		MortgageYears:    10,
	})

	assert.Equal(t, int64(400_000_000), limit)
}

func TestDebtServiceLimit_ExistingDebtReducesCapacity(t *testing.T) {
	base := debtServiceLimit(Input{
		HouseholdIncome:  100_000_000,
		DebtServiceRatio: 0.4,
		MortgageRate:     0.045,
		MortgageYears:    30,
	})
	reduced := debtServiceLimit(Input{
		HouseholdIncome:    100_000_000,
		DebtServiceRatio:   0.4,
		ExistingAnnualDebt: 20_000_000,
		MortgageRate:       0.045,
		MortgageYears:      30,
	})

	require.Greater(t, base, int64(0))
	assert.Less(t, reduced, base)
	// Halving the capacity halves the principal ceiling, modulo truncation.
	assert.InDelta(t, float64(base)/2, float64(reduced), 1)
}

func TestDebtServiceLimit_ExhaustedCapacity(t *testing.T) {
	limit := debtServiceLimit(Input{
		HouseholdIncome:    50_000_000,
		DebtServiceRatio:   0.4,
		ExistingAnnualDebt: 30_000_000,
		MortgageRate:       0.045,
		MortgageYears:      30,
	})

	assert.Equal(t, int64(0), limit)
}

func TestCompute_MaxLoanIsBindingConstraint(t *testing.T) {
	in := richInput(1_000_000_000, models.RegulatoryFlags{}, true)
	in.HouseholdIncome = 50_000_000 // debt service now binds

	plan := Compute(in)

	require.Less(t, plan.DebtServiceLimit, plan.LoanToValueLimit)
	assert.Equal(t, plan.DebtServiceLimit, plan.MaxLoanAmount)
	assert.Equal(t, in.SubscriptionPrice-plan.MaxLoanAmount, plan.LoanBackedInvestment)
}

func TestCompute_LeaseBackedScenario(t *testing.T) {
	in := richInput(500_000_000, models.RegulatoryFlags{}, true)
	in.MarketPrice = 1_000_000_000

	plan := Compute(in)

	assert.Equal(t, int64(600_000_000), plan.LeaseValue)
	// The deposit exceeds the subscription price: negative cash need.
	assert.Equal(t, int64(-100_000_000), plan.LeaseBackedInvestment)
}

func TestCompute_InterimInterestCost(t *testing.T) {
	plan := Compute(richInput(1_000_000_000, models.RegulatoryFlags{}, true))

	// 600M interim × 3.5% × 2 years.
	assert.Equal(t, int64(42_000_000), plan.InterimInterestCost)
}
