package analysis

import (
	"regexp"
	"strconv"

	"aptscope/internal/models"
)

// Unit type codes encode the exclusive area as a leading decimal,
// e.g. "084.9900A" is 84.99 m².
var leadingAreaPattern = regexp.MustCompile(`^(\d+\.?\d*)`)

// ExclusiveArea returns the unit type's exclusive area in m²: the explicit
// field when positive, else the leading decimal parsed from the type code.
// Returns 0 when neither yields an area.
func ExclusiveArea(unit models.UnitType) float64 {
	if unit.ExclusiveArea > 0 {
		return unit.ExclusiveArea
	}

	m := leadingAreaPattern.FindStringSubmatch(unit.TypeCode)
	if m == nil {
		return 0
	}
	area, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return area
}
