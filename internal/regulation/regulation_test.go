package regulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aptscope/internal/models"
)

func TestClassify_ResaleTiers(t *testing.T) {
	tests := []struct {
		name         string
		flags        models.RegulatoryFlags
		wantPeriod   string
		wantSeverity string
	}{
		{
			"speculation with price cap",
			models.RegulatoryFlags{SpeculationZone: true, PriceCapped: true},
			"until title transfer (up to 10 years)", "very strong",
		},
		{
			"speculation only",
			models.RegulatoryFlags{SpeculationZone: true},
			"until title transfer", "strong",
		},
		{
			"adjusted with price cap",
			models.RegulatoryFlags{AdjustedZone: true, PriceCapped: true},
			"5 years", "strong",
		},
		{
			"adjusted only",
			models.RegulatoryFlags{AdjustedZone: true},
			"3 years", "moderate",
		},
		{
			"price cap only",
			models.RegulatoryFlags{PriceCapped: true},
			"3-5 years", "moderate",
		},
		{
			"public housing zone",
			models.RegulatoryFlags{PublicHousingZone: true},
			"3 years", "moderate",
		},
		{
			"unregulated",
			models.RegulatoryFlags{},
			"6 months to 1 year", "weak",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Classify(tt.flags)
			assert.Equal(t, tt.wantPeriod, s.ResalePeriod)
			assert.Equal(t, tt.wantSeverity, s.ResaleSeverity)
			assert.NotEmpty(t, s.ResaleDetail)
		})
	}
}

func TestClassify_RewinTiers(t *testing.T) {
	assert.Equal(t, "10 years", Classify(models.RegulatoryFlags{SpeculationZone: true}).RewinPeriod)
	assert.Equal(t, "7 years", Classify(models.RegulatoryFlags{AdjustedZone: true}).RewinPeriod)
	assert.Equal(t, "none", Classify(models.RegulatoryFlags{PriceCapped: true}).RewinPeriod)

	// Speculation dominates when both zone flags are set.
	both := models.RegulatoryFlags{SpeculationZone: true, AdjustedZone: true}
	assert.Equal(t, "10 years", Classify(both).RewinPeriod)
}

func TestClassify_ResidencyObligation(t *testing.T) {
	s := Classify(models.RegulatoryFlags{PriceCapped: true, SpeculationZone: true})
	assert.Equal(t, "5 years", s.ResidencyPeriod)
	assert.True(t, s.ResidencyRequired)

	s = Classify(models.RegulatoryFlags{PriceCapped: true})
	assert.Equal(t, "2-3 years", s.ResidencyPeriod)
	assert.True(t, s.ResidencyRequired)

	s = Classify(models.RegulatoryFlags{SpeculationZone: true})
	assert.Equal(t, "none", s.ResidencyPeriod)
	assert.False(t, s.ResidencyRequired)
}

func TestClassify_CarriesFlags(t *testing.T) {
	flags := models.RegulatoryFlags{AdjustedZone: true, PriceCapped: true}
	assert.Equal(t, flags, Classify(flags).Flags)
}
