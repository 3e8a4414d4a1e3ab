package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"aptscope/internal/models"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (d *Database) RunMigrations() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS analyses (
			manage_no TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			region TEXT,
			address TEXT,
			constructor TEXT,
			homepage TEXT,
			total_households INTEGER,
			property_type TEXT,
			status TEXT,
			upcoming BOOLEAN,
			max_profit INTEGER,
			schedule TEXT,
			regulations TEXT,
			qualification TEXT,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create analyses table: %w", err)
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS estimates (
			manage_no TEXT NOT NULL,
			type_code TEXT NOT NULL,
			supply_area REAL,
			exclusive_area REAL,
			subscription_price INTEGER,
			price_per_pyeong INTEGER,
			market_price INTEGER,
			profit INTEGER,
			household_count INTEGER,
			provenance_label TEXT,
			provenance TEXT,
			funding TEXT,
			PRIMARY KEY (manage_no, type_code)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create estimates table: %w", err)
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_analyses_max_profit
		ON analyses(max_profit);
	`)
	if err != nil {
		return err
	}

	return nil
}

// GetAnalyses returns analyses matching the filters, highest profit first.
// Empty region/status and a zero minProfit disable the respective filter.
func (d *Database) GetAnalyses(region, status string, minProfit int64) ([]models.Analysis, error) {
	query := `
		SELECT manage_no, name, region, address, constructor, homepage,
		       total_households, property_type, status, upcoming, max_profit,
		       schedule, regulations, qualification
		FROM analyses
		WHERE (? = '' OR region = ?)
		AND (? = '' OR status = ?)
		AND max_profit >= ?
		ORDER BY max_profit DESC
	`
	rows, err := d.db.Query(query, region, region, status, status, minProfit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []models.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range analyses {
		estimates, err := d.getEstimates(analyses[i].ManageNo)
		if err != nil {
			return nil, err
		}
		analyses[i].Estimates = estimates
	}
	return analyses, nil
}

// GetTopAnalyses returns the limit highest-profit analyses.
func (d *Database) GetTopAnalyses(limit int) ([]models.Analysis, error) {
	query := `
		SELECT manage_no, name, region, address, constructor, homepage,
		       total_households, property_type, status, upcoming, max_profit,
		       schedule, regulations, qualification
		FROM analyses
		ORDER BY max_profit DESC
		LIMIT ?
	`
	rows, err := d.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []models.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range analyses {
		estimates, err := d.getEstimates(analyses[i].ManageNo)
		if err != nil {
			return nil, err
		}
		analyses[i].Estimates = estimates
	}
	return analyses, nil
}

// GetRegions returns the distinct regions present in the analyses table.
func (d *Database) GetRegions() ([]string, error) {
	rows, err := d.db.Query(`SELECT DISTINCT region FROM analyses ORDER BY region`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

func scanAnalysis(rows *sql.Rows) (models.Analysis, error) {
	var a models.Analysis
	var propertyType, status string
	var scheduleJSON, regulationsJSON, qualificationJSON sql.NullString

	err := rows.Scan(
		&a.ManageNo,
		&a.Name,
		&a.Region,
		&a.Address,
		&a.Constructor,
		&a.Homepage,
		&a.TotalHouseholds,
		&propertyType,
		&status,
		&a.Upcoming,
		&a.MaxProfit,
		&scheduleJSON,
		&regulationsJSON,
		&qualificationJSON,
	)
	if err != nil {
		return a, err
	}

	a.PropertyType = parsePropertyType(propertyType)
	a.Status = parseStatus(status)
	if scheduleJSON.Valid && scheduleJSON.String != "" {
		_ = json.Unmarshal([]byte(scheduleJSON.String), &a.Schedule)
	}
	if regulationsJSON.Valid && regulationsJSON.String != "" {
		_ = json.Unmarshal([]byte(regulationsJSON.String), &a.Regulations)
	}
	if qualificationJSON.Valid && qualificationJSON.String != "" {
		_ = json.Unmarshal([]byte(qualificationJSON.String), &a.Qualification)
	}
	return a, nil
}

func (d *Database) getEstimates(manageNo string) ([]*models.UnitTypeEstimate, error) {
	rows, err := d.db.Query(`
		SELECT type_code, supply_area, exclusive_area, subscription_price,
		       price_per_pyeong, market_price, profit, household_count,
		       provenance, funding
		FROM estimates
		WHERE manage_no = ?
		ORDER BY exclusive_area
	`, manageNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var estimates []*models.UnitTypeEstimate
	for rows.Next() {
		var e models.UnitTypeEstimate
		var provenanceJSON, fundingJSON sql.NullString

		err := rows.Scan(
			&e.TypeCode,
			&e.SupplyArea,
			&e.ExclusiveArea,
			&e.SubscriptionPrice,
			&e.PricePerPyeong,
			&e.EstimatedMarketPrice,
			&e.Profit,
			&e.HouseholdCount,
			&provenanceJSON,
			&fundingJSON,
		)
		if err != nil {
			return nil, err
		}

		if provenanceJSON.Valid && provenanceJSON.String != "" {
			_ = json.Unmarshal([]byte(provenanceJSON.String), &e.Provenance)
		}
		if fundingJSON.Valid && fundingJSON.String != "" {
			_ = json.Unmarshal([]byte(fundingJSON.String), &e.Funding)
		}
		estimates = append(estimates, &e)
	}
	return estimates, rows.Err()
}

func parsePropertyType(s string) models.PropertyType {
	if s == "officetel" {
		return models.PropertyTypeOfficetel
	}
	return models.PropertyTypeApartment
}

func parseStatus(s string) models.SubscriptionStatus {
	switch s {
	case "upcoming":
		return models.StatusUpcoming
	case "open":
		return models.StatusOpen
	case "pending_result":
		return models.StatusPendingResult
	default:
		return models.StatusClosed
	}
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

func (d *Database) Close() error {
	return d.db.Close()
}
