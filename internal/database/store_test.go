package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"aptscope/internal/models"
)

func openTestDatabase(t *testing.T) (*Database, *gorm.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, gormDB
}

func sampleAnalysis(manageNo, region string, maxProfit int64) *models.Analysis {
	return &models.Analysis{
		ManageNo:        manageNo,
		Name:            "청운 프리미어",
		Region:          region,
		Address:         "서울특별시 종로구 청운동 10",
		Constructor:     "대한건설",
		TotalHouseholds: 120,
		PropertyType:    models.PropertyTypeApartment,
		Status:          models.StatusOpen,
		Upcoming:        true,
		Qualification: models.Qualification{
			ReceiptType: "인터넷",
			HouseType:   "민영",
			RentType:    "분양주택",
			ApplyURL:    "https://www.applyhome.co.kr/ai/aia/selectAPTLttotPblancDetail.do",
		},
		Schedule: models.Schedule{
			ReceiptStart: "2026-03-10",
			ReceiptEnd:   "2026-03-20",
		},
		Regulations: models.RegulationSummary{
			Flags:        models.RegulatoryFlags{AdjustedZone: true},
			ResalePeriod: "3 years",
		},
		MaxProfit: maxProfit,
		Estimates: []*models.UnitTypeEstimate{
			{
				TypeCode:             "084.9900A",
				ExclusiveArea:        84.99,
				SubscriptionPrice:    700_000_000,
				EstimatedMarketPrice: 700_000_000 + maxProfit,
				Profit:               maxProfit,
				HouseholdCount:       36,
				Provenance: models.Provenance{
					Kind:               models.ProvenanceDirectTransaction,
					SampleSize:         12,
					SubdistrictMatched: true,
				},
				Funding: models.FundingPlan{
					DownPayment:      70_000_000,
					LoanToValueRate:  0.8,
					LoanToValueLimit: 560_000_000,
					MaxLoanAmount:    560_000_000,
				},
			},
		},
	}
}

func TestUpsertAndGetAnalyses(t *testing.T) {
	db, gormDB := openTestDatabase(t)

	analysis := sampleAnalysis("2026000001", "서울", 150_000_000)
	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return UpsertAnalyses(tx, []*models.Analysis{analysis})
	})
	require.NoError(t, err)

	got, err := db.GetAnalyses("", "", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)

	a := got[0]
	assert.Equal(t, "2026000001", a.ManageNo)
	assert.Equal(t, models.PropertyTypeApartment, a.PropertyType)
	assert.Equal(t, models.StatusOpen, a.Status)
	assert.True(t, a.Upcoming)
	assert.Equal(t, analysis.Qualification, a.Qualification)
	assert.Equal(t, "2026-03-10", a.Schedule.ReceiptStart)
	assert.Equal(t, "3 years", a.Regulations.ResalePeriod)
	assert.True(t, a.Regulations.Flags.AdjustedZone)

	require.Len(t, a.Estimates, 1)
	e := a.Estimates[0]
	assert.Equal(t, "084.9900A", e.TypeCode)
	assert.Equal(t, int64(850_000_000), e.EstimatedMarketPrice)
	assert.Equal(t, analysis.Estimates[0].Provenance, e.Provenance)
	assert.Equal(t, analysis.Estimates[0].Funding, e.Funding)
}

func TestUpsertReplacesEstimates(t *testing.T) {
	db, gormDB := openTestDatabase(t)

	first := sampleAnalysis("2026000001", "서울", 150_000_000)
	first.Estimates = append(first.Estimates, &models.UnitTypeEstimate{
		TypeCode:      "059.9800B",
		ExclusiveArea: 59.98,
	})
	require.NoError(t, gormDB.Transaction(func(tx *gorm.DB) error {
		return UpsertAnalyses(tx, []*models.Analysis{first})
	}))

	// Second run drops the 59 type and changes the profit.
	second := sampleAnalysis("2026000001", "서울", 200_000_000)
	require.NoError(t, gormDB.Transaction(func(tx *gorm.DB) error {
		return UpsertAnalyses(tx, []*models.Analysis{second})
	}))

	got, err := db.GetAnalyses("", "", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(200_000_000), got[0].MaxProfit)
	require.Len(t, got[0].Estimates, 1, "stale unit types must not linger")
	assert.Equal(t, "084.9900A", got[0].Estimates[0].TypeCode)
}

func TestGetAnalyses_Filters(t *testing.T) {
	db, gormDB := openTestDatabase(t)

	batch := []*models.Analysis{
		sampleAnalysis("2026000001", "서울", 150_000_000),
		sampleAnalysis("2026000002", "경기", 80_000_000),
		sampleAnalysis("2026000003", "서울", 30_000_000),
	}
	require.NoError(t, gormDB.Transaction(func(tx *gorm.DB) error {
		return UpsertAnalyses(tx, batch)
	}))

	got, err := db.GetAnalyses("서울", "", 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = db.GetAnalyses("", "", 100_000_000)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2026000001", got[0].ManageNo)

	got, err = db.GetAnalyses("", "closed", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetTopAnalyses_OrderAndLimit(t *testing.T) {
	db, gormDB := openTestDatabase(t)

	batch := []*models.Analysis{
		sampleAnalysis("2026000001", "서울", 30_000_000),
		sampleAnalysis("2026000002", "경기", 200_000_000),
		sampleAnalysis("2026000003", "인천", 80_000_000),
	}
	require.NoError(t, gormDB.Transaction(func(tx *gorm.DB) error {
		return UpsertAnalyses(tx, batch)
	}))

	got, err := db.GetTopAnalyses(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026000002", got[0].ManageNo)
	assert.Equal(t, "2026000003", got[1].ManageNo)
}

func TestGetRegions(t *testing.T) {
	db, gormDB := openTestDatabase(t)

	batch := []*models.Analysis{
		sampleAnalysis("2026000001", "서울", 0),
		sampleAnalysis("2026000002", "서울", 0),
		sampleAnalysis("2026000003", "경기", 0),
	}
	require.NoError(t, gormDB.Transaction(func(tx *gorm.DB) error {
		return UpsertAnalyses(tx, batch)
	}))

	regions, err := db.GetRegions()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"서울", "경기"}, regions)
}
