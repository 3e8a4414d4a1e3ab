package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Server configuration
	Server struct {
		Port   string `env:"PORT" envDefault:"5250"`
		DBPath string `env:"DB_PATH" envDefault:"database/aptscope.db"`
	}

	// Upstream data sources
	Sources struct {
		// API key shared by the trade and subscription endpoints
		DataAPIKey string `env:"DATA_GO_KR_API_KEY"`

		// Apartment trade records endpoint
		TradeAPIBase string `env:"TRADE_API_BASE" envDefault:"https://apis.data.go.kr/1613000/RTMSDataSvcAptTrade"`

		// Officetel trade records endpoint; empty means no dedicated feed
		// and officetel lookups reuse the apartment feed
		OfficetelTradeAPIBase string `env:"OFFICETEL_TRADE_API_BASE" envDefault:""`

		// Subscription listings endpoint
		SubscriptionAPIBase string `env:"SUBSCRIPTION_API_BASE" envDefault:"https://api.odcloud.kr/api/ApplyhomeInfoDetailSvc/v1"`

		// Regional index endpoint (price per m² and lease ratios)
		RegionalIndexURL string `env:"REGIONAL_INDEX_URL" envDefault:""`

		// HTTP timeout for upstream calls in seconds
		HTTPTimeout int `env:"HTTP_TIMEOUT" envDefault:"30"`
	}

	// Pricing configuration
	Pricing struct {
		// Trailing window of trade months to fetch
		TradeWindowMonths int `env:"TRADE_WINDOW_MONTHS" envDefault:"6"`

		// Oldest acceptable build year for the recency-filtered tiers
		RecencyFloorYear int `env:"RECENCY_FLOOR_YEAR" envDefault:"2015"`

		// Minimum profit in won for closed listings to be kept
		MinProfitThreshold int64 `env:"MIN_PROFIT_THRESHOLD" envDefault:"100000000"`
	}

	// Funding configuration
	Funding struct {
		// Interim payment loan interest rate
		InterestRate float64 `env:"INTEREST_RATE" envDefault:"0.035"`

		// Mortgage terms used for the debt-service limit
		MortgageRate  float64 `env:"MORTGAGE_RATE" envDefault:"0.045"`
		MortgageYears int     `env:"MORTGAGE_YEARS" envDefault:"30"`

		// Debt-service ratio ceiling on household income
		DebtServiceRatio float64 `env:"DEBT_SERVICE_RATIO" envDefault:"0.4"`

		// Assumed household income and existing debt per year, in won
		HouseholdIncome    int64 `env:"HOUSEHOLD_INCOME" envDefault:"80000000"`
		ExistingAnnualDebt int64 `env:"EXISTING_ANNUAL_DEBT" envDefault:"0"`

		// Whether scenarios assume a first-time buyer
		FirstHome bool `env:"FIRST_HOME" envDefault:"true"`
	}

	// BatchProcessing configuration
	BatchProcessing struct {
		// Maximum number of analysis batches queued before pushes are rejected
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"100"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}

	// Scheduler configuration
	Scheduler struct {
		// Hours between pipeline runs
		IntervalHours int `env:"SCHEDULER_INTERVAL_HOURS" envDefault:"12"`

		// Run the pipeline once at startup
		RunOnStartup bool `env:"SCHEDULER_RUN_ON_STARTUP" envDefault:"true"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
