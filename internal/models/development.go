package models

// RegulatoryFlags are the four boolean zone designations carried by a
// subscription listing.
type RegulatoryFlags struct {
	SpeculationZone   bool `json:"speculation_zone"`
	AdjustedZone      bool `json:"adjusted_zone"`
	PriceCapped       bool `json:"price_capped"`
	PublicHousingZone bool `json:"public_housing_zone"`
}

// Regulated reports whether either price-regulating zone flag is set.
func (f RegulatoryFlags) Regulated() bool {
	return f.SpeculationZone || f.AdjustedZone
}

// SubscriptionStatus tracks where a listing is in its receipt lifecycle.
type SubscriptionStatus int

const (
	StatusUpcoming SubscriptionStatus = iota
	StatusOpen
	StatusPendingResult
	StatusClosed
)

// String returns the string representation of a SubscriptionStatus
func (s SubscriptionStatus) String() string {
	switch s {
	case StatusUpcoming:
		return "upcoming"
	case StatusOpen:
		return "open"
	case StatusPendingResult:
		return "pending_result"
	default:
		return "closed"
	}
}

// Schedule holds the listing's published dates, all as YYYY-MM-DD strings
// (the upstream API format); empty when not announced.
type Schedule struct {
	AnnouncementDate   string `json:"announcement_date"`
	ReceiptStart       string `json:"receipt_start"`
	ReceiptEnd         string `json:"receipt_end"`
	WinnerAnnounceDate string `json:"winner_announce_date"`
	ContractStart      string `json:"contract_start"`
	ContractEnd        string `json:"contract_end"`
	MoveInYearMonth    string `json:"move_in_date"`
}

// Qualification carries the listing's published application terms: how
// applications are received, the housing and rent categories, and where to
// apply. All free-text as the upstream API publishes them.
type Qualification struct {
	ReceiptType string `json:"receipt_type"`
	HouseType   string `json:"house_type"`
	RentType    string `json:"rent_type"`
	ApplyURL    string `json:"apply_url"`
}

// UnitType is one floor-plan variant of a development as delivered by the
// fetch layer, before analysis. SubscriptionPrice is in won; a zero
// ExclusiveArea means the area must be parsed from TypeCode.
type UnitType struct {
	TypeCode          string  `json:"type_code"`
	SupplyArea        float64 `json:"supply_area"`
	ExclusiveArea     float64 `json:"exclusive_area"`
	SubscriptionPrice int64   `json:"subscription_price"`
	HouseholdCount    int     `json:"household_count"`
}

// Development is one subscription listing with its unit types, as delivered
// by the fetch layer.
type Development struct {
	ManageNo        string             `json:"manage_no"`
	Name            string             `json:"name"`
	Region          string             `json:"region"`
	Address         string             `json:"address"`
	Constructor     string             `json:"constructor"`
	Homepage        string             `json:"homepage"`
	TotalHouseholds int                `json:"total_households"`
	PropertyType    PropertyType       `json:"property_type"`
	Status          SubscriptionStatus `json:"status"`
	Upcoming        bool               `json:"upcoming"`
	Qualification   Qualification      `json:"qualification"`
	Flags           RegulatoryFlags    `json:"flags"`
	Schedule        Schedule           `json:"schedule"`
	UnitTypes       []UnitType         `json:"unit_types"`
}
