package config

import (
	"regexp"
	"strings"
)

// Region is a subscription area supported by the application.
type Region struct {
	Name     string
	AreaCode string
}

// SupportedRegions is the list of subscription areas the pipeline collects.
var SupportedRegions = []Region{
	{Name: "서울", AreaCode: "100"},
	{Name: "인천", AreaCode: "200"},
	{Name: "경기", AreaCode: "400"},
}

// GetRegionNames returns the names of all supported regions
func GetRegionNames() []string {
	names := make([]string, len(SupportedRegions))
	for i, r := range SupportedRegions {
		names[i] = r.Name
	}
	return names
}

// GetRegionByName returns a region configuration by name
func GetRegionByName(name string) *Region {
	for _, r := range SupportedRegions {
		if r.Name == name {
			return &r
		}
	}
	return nil
}

// lawdBySido maps each province to its district (sigungu) legal-dong codes,
// the 5-digit LAWD_CD prefixes the trade API is keyed on.
var lawdBySido = map[string]map[string]string{
	"서울": {
		"11110": "종로구", "11140": "중구", "11170": "용산구", "11200": "성동구",
		"11215": "광진구", "11230": "동대문구", "11260": "중랑구", "11290": "성북구",
		"11305": "강북구", "11320": "도봉구", "11350": "노원구", "11380": "은평구",
		"11410": "서대문구", "11440": "마포구", "11470": "양천구", "11500": "강서구",
		"11530": "구로구", "11545": "금천구", "11560": "영등포구", "11590": "동작구",
		"11620": "관악구", "11650": "서초구", "11680": "강남구", "11710": "송파구",
		"11740": "강동구",
	},
	"인천": {
		"28110": "중구", "28140": "동구", "28177": "미추홀구", "28185": "연수구",
		"28200": "남동구", "28237": "부평구", "28245": "계양구", "28260": "서구",
		"28710": "강화군", "28720": "옹진군",
	},
	"경기": {
		"41111": "수원시 장안구", "41113": "수원시 권선구", "41115": "수원시 팔달구",
		"41117": "수원시 영통구", "41131": "성남시 수정구", "41133": "성남시 중원구",
		"41135": "성남시 분당구", "41150": "의정부시", "41171": "안양시 만안구",
		"41173": "안양시 동안구", "41190": "부천시", "41210": "광명시",
		"41220": "평택시", "41250": "동두천시", "41271": "안산시 상록구",
		"41273": "안산시 단원구", "41281": "고양시 덕양구", "41285": "고양시 일산동구",
		"41287": "고양시 일산서구", "41290": "과천시", "41310": "구리시",
		"41360": "남양주시", "41370": "오산시", "41390": "시흥시",
		"41410": "군포시", "41430": "의왕시", "41450": "하남시",
		"41461": "용인시 처인구", "41463": "용인시 기흥구", "41465": "용인시 수지구",
		"41480": "파주시", "41500": "이천시", "41550": "안성시",
		"41570": "김포시", "41590": "화성시", "41610": "광주시",
		"41630": "양주시", "41650": "포천시", "41670": "여주시",
	},
}

// LawdCodeForAddress resolves the 5-digit district code from a street
// address. The province is matched first so same-named districts in
// different provinces do not collide. Returns "" when no district matches.
func LawdCodeForAddress(address string) string {
	if address == "" {
		return ""
	}

	var sido string
	switch {
	case strings.Contains(address, "서울"):
		sido = "서울"
	case strings.Contains(address, "인천"):
		sido = "인천"
	case strings.Contains(address, "경기"):
		sido = "경기"
	}

	if sido != "" {
		if code := matchLawd(lawdBySido[sido], address); code != "" {
			return code
		}
		return ""
	}

	// Province not spelled out; search everything.
	for _, table := range lawdBySido {
		if code := matchLawd(table, address); code != "" {
			return code
		}
	}
	return ""
}

func matchLawd(table map[string]string, address string) string {
	for code, name := range table {
		if strings.Contains(address, name) {
			return code
		}
	}
	// Compound names like "수원시 장안구" may appear as just the district.
	for code, name := range table {
		if !strings.Contains(name, "구") {
			continue
		}
		parts := strings.Fields(name)
		gu := parts[len(parts)-1]
		if strings.Contains(address, gu) {
			return code
		}
	}
	return ""
}

var subdistrictPattern = regexp.MustCompile(`(\S+[동리읍면])\s+\d`)

// SubdistrictFromAddress extracts the legal subdistrict (dong/ri/eup/myeon)
// preceding a lot number, or "" when the address carries none.
func SubdistrictFromAddress(address string) string {
	if address == "" {
		return ""
	}
	if m := subdistrictPattern.FindStringSubmatch(address); m != nil {
		return m[1]
	}
	return ""
}

// indexRegionAliases maps full province names to the short names the
// regional index publishes under.
var indexRegionAliases = map[string]string{
	"서울특별시": "서울",
	"인천광역시": "인천",
	"경기도":   "경기",
}

// IndexRegionName normalizes a province name to the regional index's naming.
func IndexRegionName(sido string) string {
	for long, short := range indexRegionAliases {
		if strings.Contains(sido, long) || strings.Contains(sido, short) {
			return short
		}
	}
	return sido
}

// officetelConversionRatios scale the apartment index down to officetel
// price levels when the index has no officetel series for a region.
var officetelConversionRatios = map[string]float64{
	"서울": 0.85,
	"인천": 0.78,
	"경기": 0.80,
}

// DefaultOfficetelConversionRatio applies when a region has no entry.
const DefaultOfficetelConversionRatio = 0.75

// OfficetelConversionRatio returns the apartment-to-officetel index
// conversion ratio for a region.
func OfficetelConversionRatio(region string) float64 {
	if r, ok := officetelConversionRatios[region]; ok {
		return r
	}
	return DefaultOfficetelConversionRatio
}
