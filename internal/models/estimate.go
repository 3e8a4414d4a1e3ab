package models

// FundingPlan is the derived financing breakdown for one unit type. All
// amounts are in won. It is recomputed whenever the owning estimate's market
// price changes.
type FundingPlan struct {
	DownPayment           int64   `json:"down_payment"`
	InterimPayment        int64   `json:"interim_payment"`
	FinalPayment          int64   `json:"final_payment"`
	LeaseValue            int64   `json:"lease_value"`
	LeaseRatio            float64 `json:"lease_ratio"`
	LeaseBackedInvestment int64   `json:"lease_backed_investment"`
	LoanToValueRate       float64 `json:"loan_to_value_rate"`
	LoanToValueLimit      int64   `json:"loan_to_value_limit"`
	DebtServiceLimit      int64   `json:"debt_service_limit"`
	MaxLoanAmount         int64   `json:"max_loan_amount"`
	LoanBackedInvestment  int64   `json:"loan_backed_investment"`
	InterimInterestCost   int64   `json:"interim_interest_cost"`
}

// UnitTypeEstimate is the analyzed form of one unit type: the subscription
// price set against the estimated market price, with provenance and funding.
type UnitTypeEstimate struct {
	TypeCode             string      `json:"type_code"`
	SupplyArea           float64     `json:"supply_area"`
	ExclusiveArea        float64     `json:"exclusive_area"`
	SubscriptionPrice    int64       `json:"subscription_price"`
	PricePerPyeong       int64       `json:"price_per_pyeong"`
	EstimatedMarketPrice int64       `json:"estimated_market_price"`
	Profit               int64       `json:"profit"`
	HouseholdCount       int         `json:"household_count"`
	Provenance           Provenance  `json:"provenance"`
	Funding              FundingPlan `json:"funding"`
}

// RegulationSummary is the static regulatory classification attached to an
// analysis for presentation.
type RegulationSummary struct {
	Flags             RegulatoryFlags `json:"flags"`
	ResalePeriod      string          `json:"resale_period"`
	ResaleDetail      string          `json:"resale_detail"`
	ResaleSeverity    string          `json:"resale_severity"`
	RewinPeriod       string          `json:"rewin_period"`
	RewinDetail       string          `json:"rewin_detail"`
	ResidencyPeriod   string          `json:"residency_period"`
	ResidencyDetail   string          `json:"residency_detail"`
	ResidencyRequired bool            `json:"residency_required"`
}

// Analysis is the analyzed record for one development, handed to the
// persistence and presentation layers.
type Analysis struct {
	ManageNo        string              `json:"manage_no"`
	Name            string              `json:"name"`
	Region          string              `json:"region"`
	Address         string              `json:"address"`
	Constructor     string              `json:"constructor"`
	Homepage        string              `json:"homepage"`
	TotalHouseholds int                 `json:"total_households"`
	PropertyType    PropertyType        `json:"property_type"`
	Status          SubscriptionStatus  `json:"status"`
	Upcoming        bool                `json:"upcoming"`
	Qualification   Qualification       `json:"qualification"`
	Schedule        Schedule            `json:"schedule"`
	Regulations     RegulationSummary   `json:"regulations"`
	MaxProfit       int64               `json:"max_profit"`
	Estimates       []*UnitTypeEstimate `json:"estimates"`
}
