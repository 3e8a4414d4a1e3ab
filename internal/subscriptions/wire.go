package subscriptions

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"aptscope/internal/models"
)

// flexString tolerates upstream fields that arrive as either JSON strings or
// numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

func (f flexString) float() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(f)), 64)
	if err != nil {
		return 0
	}
	return v
}

func (f flexString) int() int {
	return int(f.float())
}

// priceWon parses an amount quoted in units of 10,000 won with optional
// thousands separators into won.
func (f flexString) priceWon() int64 {
	s := strings.TrimSpace(strings.ReplaceAll(string(f), ",", ""))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(v) * 10000
}

func (f flexString) yes() bool {
	return string(f) == "Y"
}

const dateLayout = "2006-01-02"

// listingDetail is the wire shape of a listing from the detail endpoints.
type listingDetail struct {
	ManageNo        flexString `json:"HOUSE_MANAGE_NO"`
	Name            flexString `json:"HOUSE_NM"`
	Region          flexString `json:"SUBSCRPT_AREA_CODE_NM"`
	Address         flexString `json:"HSSPLY_ADRES"`
	Constructor     flexString `json:"BSNS_MBY_NM"`
	Homepage        flexString `json:"HMPG_ADRES"`
	TotalHouseholds flexString `json:"TOT_SUPLY_HSHLDCO"`

	ReceiptType flexString `json:"SUBSCRPT_RCEPT_TY_NM"`
	HouseType   flexString `json:"HOUSE_SECD_NM"`
	RentType    flexString `json:"RENT_SECD_NM"`
	ApplyURL    flexString `json:"PBLANC_URL"`

	AnnouncementDate   flexString `json:"RCRIT_PBLANC_DE"`
	SpecialReceiptDate flexString `json:"SPSPLY_RCEPT_BGNDE"`
	ReceiptStart       flexString `json:"RCEPT_BGNDE"`
	ReceiptEnd         flexString `json:"RCEPT_ENDDE"`
	AltReceiptEnd      flexString `json:"SUBSCRPT_RCEPT_ENDDE"`
	WinnerAnnounceDate flexString `json:"PRZWNER_PRESNATN_DE"`
	ContractStart      flexString `json:"CNTRCT_CNCLS_BGNDE"`
	ContractEnd        flexString `json:"CNTRCT_CNCLS_ENDDE"`
	MoveInYearMonth    flexString `json:"MVN_PREARNGE_YM"`

	SpeculationZone   flexString `json:"SPECLT_RDN_EARTH_AT"`
	AdjustedZone      flexString `json:"MDAT_TRGET_AREA_SECD"`
	PriceCapped       flexString `json:"PARCPRC_ULS_AT"`
	PublicHousingZone flexString `json:"PUBLIC_HOUSE_EARTH_AT"`
}

// recent reports whether the listing's receipt opened within the recency
// window. Listings without a parseable receipt date are kept.
func (d listingDetail) recent(now time.Time) bool {
	if d.ReceiptStart == "" {
		return true
	}
	start, err := time.Parse(dateLayout, string(d.ReceiptStart))
	if err != nil {
		return true
	}
	return !start.Before(now.Add(-recencyWindow))
}

// closed reports whether the listing is fully done: past the winner
// announcement when one is published, else past the receipt end.
func (d listingDetail) closed(now time.Time) bool {
	if d.WinnerAnnounceDate != "" {
		if winner, err := time.Parse(dateLayout, string(d.WinnerAnnounceDate)); err == nil {
			return now.After(winner)
		}
	}

	receiptEnd := d.ReceiptEnd
	if receiptEnd == "" {
		receiptEnd = d.AltReceiptEnd
	}
	if receiptEnd != "" {
		if end, err := time.Parse(dateLayout, string(receiptEnd)); err == nil {
			return now.After(end)
		}
	}
	return false
}

// status places the listing in its receipt lifecycle as of now.
func (d listingDetail) status(now time.Time) models.SubscriptionStatus {
	if d.ReceiptStart != "" {
		if start, err := time.Parse(dateLayout, string(d.ReceiptStart)); err == nil && now.Before(start) {
			return models.StatusUpcoming
		}
	}
	if d.ReceiptEnd != "" {
		if end, err := time.Parse(dateLayout, string(d.ReceiptEnd)); err == nil && !now.After(end) {
			return models.StatusOpen
		}
	}
	if d.WinnerAnnounceDate != "" {
		if winner, err := time.Parse(dateLayout, string(d.WinnerAnnounceDate)); err == nil && !now.After(winner) {
			return models.StatusPendingResult
		}
	}
	return models.StatusClosed
}

func (d listingDetail) toDevelopment(region string, propertyType models.PropertyType, units []models.UnitType, now time.Time) models.Development {
	devRegion := string(d.Region)
	if devRegion == "" {
		devRegion = region
	}

	return models.Development{
		ManageNo:        string(d.ManageNo),
		Name:            string(d.Name),
		Region:          devRegion,
		Address:         string(d.Address),
		Constructor:     string(d.Constructor),
		Homepage:        string(d.Homepage),
		TotalHouseholds: d.TotalHouseholds.int(),
		PropertyType:    propertyType,
		Status:          d.status(now),
		Qualification: models.Qualification{
			ReceiptType: string(d.ReceiptType),
			HouseType:   string(d.HouseType),
			RentType:    string(d.RentType),
			ApplyURL:    string(d.ApplyURL),
		},
		Flags: models.RegulatoryFlags{
			SpeculationZone:   d.SpeculationZone.yes(),
			AdjustedZone:      d.AdjustedZone.yes(),
			PriceCapped:       d.PriceCapped.yes(),
			PublicHousingZone: d.PublicHousingZone.yes(),
		},
		Schedule: models.Schedule{
			AnnouncementDate:   string(d.AnnouncementDate),
			ReceiptStart:       string(d.ReceiptStart),
			ReceiptEnd:         string(d.ReceiptEnd),
			WinnerAnnounceDate: string(d.WinnerAnnounceDate),
			ContractStart:      string(d.ContractStart),
			ContractEnd:        string(d.ContractEnd),
			MoveInYearMonth:    string(d.MoveInYearMonth),
		},
		UnitTypes: units,
	}
}

// unitTypeDetail is the wire shape of one unit type from the model
// endpoints.
type unitTypeDetail struct {
	TypeCode       flexString `json:"HOUSE_TY"`
	SupplyArea     flexString `json:"SUPLY_AR"`
	ExclusiveArea  flexString `json:"EXCLUSE_AR"`
	TopAmount      flexString `json:"LTTOT_TOP_AMOUNT"`
	HouseholdCount flexString `json:"SUPLY_HSHLDCO"`
}

func (u unitTypeDetail) toUnitType() models.UnitType {
	return models.UnitType{
		TypeCode:          string(u.TypeCode),
		SupplyArea:        u.SupplyArea.float(),
		ExclusiveArea:     u.ExclusiveArea.float(),
		SubscriptionPrice: u.TopAmount.priceWon(),
		HouseholdCount:    u.HouseholdCount.int(),
	}
}
