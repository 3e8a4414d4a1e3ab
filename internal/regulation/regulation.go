// Package regulation classifies a listing's regulatory obligations from its
// zone designation flags. The tiers are static lookup tables; no judgement
// happens here.
package regulation

import "aptscope/internal/models"

// Classify derives the resale restriction, re-winning restriction and
// residency obligation tiers for the given flags.
func Classify(flags models.RegulatoryFlags) models.RegulationSummary {
	s := models.RegulationSummary{Flags: flags}
	s.ResalePeriod, s.ResaleDetail, s.ResaleSeverity = resaleRestriction(flags)
	s.RewinPeriod, s.RewinDetail = rewinRestriction(flags)
	s.ResidencyPeriod, s.ResidencyDetail, s.ResidencyRequired = residencyObligation(flags)
	return s
}

func resaleRestriction(f models.RegulatoryFlags) (period, detail, severity string) {
	switch {
	case f.SpeculationZone && f.PriceCapped:
		return "until title transfer (up to 10 years)",
			"Speculation zone with price cap. Strongest resale restriction.",
			"very strong"
	case f.SpeculationZone:
		return "until title transfer",
			"Resale banned inside a speculation zone until the title transfer completes.",
			"strong"
	case f.AdjustedZone && f.PriceCapped:
		return "5 years",
			"Adjusted zone with price cap applied.",
			"strong"
	case f.AdjustedZone:
		return "3 years",
			"Resale restricted for 3 years inside an adjusted zone.",
			"moderate"
	case f.PriceCapped:
		return "3-5 years",
			"Price-capped development; 3 to 5 years depending on the market gap.",
			"moderate"
	case f.PublicHousingZone:
		return "3 years",
			"Resale restricted inside a public housing zone.",
			"moderate"
	default:
		return "6 months to 1 year",
			"Unregulated zone; minimum resale restriction applies.",
			"weak"
	}
}

func rewinRestriction(f models.RegulatoryFlags) (period, detail string) {
	switch {
	case f.SpeculationZone:
		return "10 years", "Winning in a speculation zone blocks re-winning for 10 years."
	case f.AdjustedZone:
		return "7 years", "Winning in an adjusted zone blocks re-winning for 7 years."
	default:
		return "none", "No re-winning restriction outside regulated zones."
	}
}

func residencyObligation(f models.RegulatoryFlags) (period, detail string, required bool) {
	switch {
	case f.PriceCapped && f.SpeculationZone:
		return "5 years",
			"Price-capped development in a speculation zone; 5 years of owner residency.",
			true
	case f.PriceCapped:
		return "2-3 years",
			"Price-capped development; 2 to 3 years of owner residency depending on the market gap.",
			true
	default:
		return "none", "No residency obligation.", false
	}
}
