package funding

import (
	"math"

	"aptscope/internal/models"
)

// Domain-standard installment ratios on the subscription price.
const (
	downPaymentRatio    = 0.1
	interimPaymentRatio = 0.6
	finalPaymentRatio   = 0.3
)

// Regulated-zone LTV parameters. The 80% first-home rate only applies below
// the price threshold and is additionally capped in won.
const (
	ltvPriceThreshold = int64(900_000_000)
	ltvFirstHomeCap   = int64(600_000_000)
)

// interimHoldingYears approximates how long interim payments accrue interest
// before the final payment clears them.
const interimHoldingYears = 2

// Input carries everything Compute needs. All amounts in won; rates as
// fractions. Inputs are assumed numerically valid; validation happens
// upstream.
type Input struct {
	SubscriptionPrice  int64
	MarketPrice        int64
	LeaseRatio         float64
	Flags              models.RegulatoryFlags
	HouseholdIncome    int64
	ExistingAnnualDebt int64
	InterimRate        float64
	MortgageRate       float64
	MortgageYears      int
	DebtServiceRatio   float64
	FirstHome          bool
}

// Compute derives the full funding plan: the fixed payment schedule, the
// lease-backed scenario, and the loan-backed scenario bounded by the tiered
// LTV limit and the amortized debt-service limit.
func Compute(in Input) models.FundingPlan {
	plan := models.FundingPlan{
		DownPayment:    int64(float64(in.SubscriptionPrice) * downPaymentRatio),
		InterimPayment: int64(float64(in.SubscriptionPrice) * interimPaymentRatio),
		FinalPayment:   int64(float64(in.SubscriptionPrice) * finalPaymentRatio),
		LeaseRatio:     in.LeaseRatio,
	}

	// Lease-backed: the lease deposit offsets the purchase price. A negative
	// investment means the deposit alone covers it.
	plan.LeaseValue = int64(float64(in.MarketPrice) * in.LeaseRatio)
	plan.LeaseBackedInvestment = in.SubscriptionPrice - plan.LeaseValue

	rate, capped := loanToValue(in.SubscriptionPrice, in.Flags, in.FirstHome)
	plan.LoanToValueRate = rate
	plan.LoanToValueLimit = int64(float64(in.SubscriptionPrice) * rate)
	if capped && plan.LoanToValueLimit > ltvFirstHomeCap {
		plan.LoanToValueLimit = ltvFirstHomeCap
	}

	plan.DebtServiceLimit = debtServiceLimit(in)

	plan.MaxLoanAmount = plan.LoanToValueLimit
	if plan.DebtServiceLimit < plan.MaxLoanAmount {
		plan.MaxLoanAmount = plan.DebtServiceLimit
	}
	plan.LoanBackedInvestment = in.SubscriptionPrice - plan.MaxLoanAmount

	plan.InterimInterestCost = int64(float64(plan.InterimPayment) * in.InterimRate * interimHoldingYears)

	return plan
}

// loanToValue returns the applicable LTV rate and whether the won cap
// applies. The non-first-home branch deliberately skips the threshold/cap
// logic; regulation only prescribes the flat rates there.
func loanToValue(subscriptionPrice int64, flags models.RegulatoryFlags, firstHome bool) (rate float64, capped bool) {
	if !firstHome {
		if flags.Regulated() {
			return 0.7, false
		}
		return 0.8, false
	}

	switch {
	case flags.SpeculationZone:
		if subscriptionPrice > ltvPriceThreshold {
			return 0.5, false
		}
		return 0.8, true
	case flags.AdjustedZone:
		if subscriptionPrice > ltvPriceThreshold {
			return 0.7, false
		}
		return 0.8, true
	default:
		return 0.8, false
	}
}

// debtServiceLimit converts the household's spare annual repayment capacity
// into a principal ceiling using the standard annuity factor
// 12·r·(1+r)^n / ((1+r)^n − 1) with monthly rate r over n months.
func debtServiceLimit(in Input) int64 {
	capacity := float64(in.HouseholdIncome)*in.DebtServiceRatio - float64(in.ExistingAnnualDebt)
	if capacity <= 0 || in.MortgageYears <= 0 {
		return 0
	}

	n := float64(in.MortgageYears * 12)
	r := in.MortgageRate / 12

	var annualRepaymentFactor float64
	if r == 0 {
		// Zero-rate degenerate case: straight-line principal repayment.
		annualRepaymentFactor = 12 / n
	} else {
		growth := math.Pow(1+r, n)
		annualRepaymentFactor = 12 * r * growth / (growth - 1)
	}

	limit := capacity / annualRepaymentFactor
	if limit < 0 {
		return 0
	}
	return int64(limit)
}
