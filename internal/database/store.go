package database

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aptscope/internal/models"
)

// AnalysisRow is the gorm mapping of one analyzed development.
type AnalysisRow struct {
	ManageNo        string    `gorm:"column:manage_no;primaryKey"`
	Name            string    `gorm:"column:name"`
	Region          string    `gorm:"column:region"`
	Address         string    `gorm:"column:address"`
	Constructor     string    `gorm:"column:constructor"`
	Homepage        string    `gorm:"column:homepage"`
	TotalHouseholds int       `gorm:"column:total_households"`
	PropertyType    string    `gorm:"column:property_type"`
	Status          string    `gorm:"column:status"`
	Upcoming        bool      `gorm:"column:upcoming"`
	MaxProfit       int64     `gorm:"column:max_profit"`
	Schedule        string    `gorm:"column:schedule"`
	Regulations     string    `gorm:"column:regulations"`
	Qualification   string    `gorm:"column:qualification"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (AnalysisRow) TableName() string { return "analyses" }

// EstimateRow is the gorm mapping of one unit-type estimate.
type EstimateRow struct {
	ManageNo          string  `gorm:"column:manage_no;primaryKey"`
	TypeCode          string  `gorm:"column:type_code;primaryKey"`
	SupplyArea        float64 `gorm:"column:supply_area"`
	ExclusiveArea     float64 `gorm:"column:exclusive_area"`
	SubscriptionPrice int64   `gorm:"column:subscription_price"`
	PricePerPyeong    int64   `gorm:"column:price_per_pyeong"`
	MarketPrice       int64   `gorm:"column:market_price"`
	Profit            int64   `gorm:"column:profit"`
	HouseholdCount    int     `gorm:"column:household_count"`
	ProvenanceLabel   string  `gorm:"column:provenance_label"`
	Provenance        string  `gorm:"column:provenance"`
	Funding           string  `gorm:"column:funding"`
}

func (EstimateRow) TableName() string { return "estimates" }

// UpsertAnalyses writes a batch of analyses inside the given transaction,
// replacing each development's estimates wholesale so dropped unit types do
// not linger.
func UpsertAnalyses(tx *gorm.DB, batch []*models.Analysis) error {
	for _, a := range batch {
		row, estimateRows, err := toRows(a)
		if err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to upsert analysis %s: %w", a.ManageNo, err)
		}

		if err := tx.Where("manage_no = ?", a.ManageNo).Delete(&EstimateRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear estimates for %s: %w", a.ManageNo, err)
		}
		if len(estimateRows) > 0 {
			if err := tx.Create(&estimateRows).Error; err != nil {
				return fmt.Errorf("failed to insert estimates for %s: %w", a.ManageNo, err)
			}
		}
	}
	return nil
}

func toRows(a *models.Analysis) (AnalysisRow, []EstimateRow, error) {
	scheduleJSON, err := json.Marshal(a.Schedule)
	if err != nil {
		return AnalysisRow{}, nil, fmt.Errorf("failed to marshal schedule: %w", err)
	}
	regulationsJSON, err := json.Marshal(a.Regulations)
	if err != nil {
		return AnalysisRow{}, nil, fmt.Errorf("failed to marshal regulations: %w", err)
	}
	qualificationJSON, err := json.Marshal(a.Qualification)
	if err != nil {
		return AnalysisRow{}, nil, fmt.Errorf("failed to marshal qualification: %w", err)
	}

	row := AnalysisRow{
		ManageNo:        a.ManageNo,
		Name:            a.Name,
		Region:          a.Region,
		Address:         a.Address,
		Constructor:     a.Constructor,
		Homepage:        a.Homepage,
		TotalHouseholds: a.TotalHouseholds,
		PropertyType:    a.PropertyType.String(),
		Status:          a.Status.String(),
		Upcoming:        a.Upcoming,
		MaxProfit:       a.MaxProfit,
		Schedule:        string(scheduleJSON),
		Regulations:     string(regulationsJSON),
		Qualification:   string(qualificationJSON),
		UpdatedAt:       time.Now(),
	}

	estimateRows := make([]EstimateRow, 0, len(a.Estimates))
	for _, e := range a.Estimates {
		provenanceJSON, err := json.Marshal(e.Provenance)
		if err != nil {
			return AnalysisRow{}, nil, fmt.Errorf("failed to marshal provenance: %w", err)
		}
		fundingJSON, err := json.Marshal(e.Funding)
		if err != nil {
			return AnalysisRow{}, nil, fmt.Errorf("failed to marshal funding: %w", err)
		}

		estimateRows = append(estimateRows, EstimateRow{
			ManageNo:          a.ManageNo,
			TypeCode:          e.TypeCode,
			SupplyArea:        e.SupplyArea,
			ExclusiveArea:     e.ExclusiveArea,
			SubscriptionPrice: e.SubscriptionPrice,
			PricePerPyeong:    e.PricePerPyeong,
			MarketPrice:       e.EstimatedMarketPrice,
			Profit:            e.Profit,
			HouseholdCount:    e.HouseholdCount,
			ProvenanceLabel:   e.Provenance.Label(),
			Provenance:        string(provenanceJSON),
			Funding:           string(fundingJSON),
		})
	}

	return row, estimateRows, nil
}
