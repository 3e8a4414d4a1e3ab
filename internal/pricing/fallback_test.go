package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aptscope/config"
	"aptscope/internal/models"
	"aptscope/internal/regindex"
)

func TestFallbackPrice_ProvinceEntry(t *testing.T) {
	index := regindex.NewSource([]regindex.Entry{
		{PropertyType: models.PropertyTypeApartment, Region: "서울", PricePerArea: 12_000_000},
	})

	price, prov := FallbackPrice(index, models.PropertyTypeApartment, "서울", "", 84.9)

	assert.Equal(t, int64(12_000_000*84.9), price)
	assert.Equal(t, models.ProvenanceRegionalIndex, prov.Kind)
	assert.Equal(t, models.GranularityProvince, prov.Granularity)
	assert.False(t, prov.Substituted)
}

func TestFallbackPrice_SubdistrictBeatsProvince(t *testing.T) {
	index := regindex.NewSource([]regindex.Entry{
		{PropertyType: models.PropertyTypeApartment, Region: "서울", PricePerArea: 12_000_000},
		{PropertyType: models.PropertyTypeApartment, Region: "서울", Subdistrict: "역삼동", PricePerArea: 20_000_000},
	})

	price, prov := FallbackPrice(index, models.PropertyTypeApartment, "서울", "역삼동", 50)

	assert.Equal(t, int64(20_000_000*50), price)
	assert.Equal(t, models.GranularitySubdistrict, prov.Granularity)
}

func TestFallbackPrice_OfficetelSubstitution(t *testing.T) {
	index := regindex.NewSource([]regindex.Entry{
		{PropertyType: models.PropertyTypeApartment, Region: "서울", PricePerArea: 10_000_000},
	})

	price, prov := FallbackPrice(index, models.PropertyTypeOfficetel, "서울", "", 40)

	ratio := config.OfficetelConversionRatio("서울")
	require.Equal(t, models.ProvenanceRegionalIndex, prov.Kind)
	assert.True(t, prov.Substituted)
	assert.Equal(t, ratio, prov.ConversionRatio)
	assert.Equal(t, int64(10_000_000*ratio*40), price)
}

func TestFallbackPrice_NoData(t *testing.T) {
	index := regindex.NewSource(nil)

	price, prov := FallbackPrice(index, models.PropertyTypeApartment, "서울", "", 84.9)

	assert.Zero(t, price)
	assert.Equal(t, models.ProvenanceNoData, prov.Kind)
	assert.Equal(t, "no data", prov.Label())
}
