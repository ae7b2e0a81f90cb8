package grade

import "strings"

// StandardKind classifies the origin of a standard/designation text.
type StandardKind string

const (
	KindNationalStandard StandardKind = "standard"
	KindManufacturer     StandardKind = "manufacturer"
	KindUnknown          StandardKind = "unknown"
)

// standardPrefixes is the enumerated vocabulary of national/industry
// standard designators found across the catalog's sources.  Prefix matching
// against a finite table keeps the classification testable in isolation,
// rather than burying string-contains chains inside the resolver.
var standardPrefixes = []string{
	"GOST", "ГОСТ", "TU", "ТУ",
	"DIN", "EN", "ISO", "W-NR",
	"AISI", "ASTM", "SAE", "UNS",
	"JIS", "BS", "AFNOR", "NF",
	"UNE", "UNI", "PN", "CSN", "STAS",
}

// knownManufacturers is the enumerated vocabulary of tool-steel makers whose
// proprietary grade sheets feed the catalog.
var knownManufacturers = []string{
	"BOHLER", "BÖHLER", "UDDEHOLM", "CRUCIBLE", "CARPENTER",
	"LATROBE", "HITACHI", "DAIDO", "NACHI", "ERASTEEL",
	"ZAPP", "DORRENBERG", "DÖRRENBERG", "THYSSEN", "SCHMOLZ",
}

// ClassifyStandard decides whether a free-text standard cell names a
// national standard or a manufacturer.  Pure function over the enumerated
// vocabulary above; anything unrecognized is KindUnknown and left for
// manual curation.
func ClassifyStandard(text string) StandardKind {
	token := strings.ToUpper(clean(text))
	if token == "" {
		return KindUnknown
	}
	for _, p := range standardPrefixes {
		if token == p || strings.HasPrefix(token, p+" ") || strings.HasPrefix(token, p+"-") {
			return KindNationalStandard
		}
	}
	for _, m := range knownManufacturers {
		if strings.HasPrefix(token, m) {
			return KindManufacturer
		}
	}
	return KindUnknown
}

// FormatStandardText composes the stored standard column:
// "<prefix> <number>, <country>" for national standards or
// "<manufacturer>, <country>" for proprietary grades.  Empty parts are
// omitted; an empty designation yields an empty string.
func FormatStandardText(designation, country string) string {
	designation = clean(designation)
	if designation == "" {
		return ""
	}
	country = strings.TrimSpace(country)
	if country == "" {
		return designation
	}
	return designation + ", " + country
}
