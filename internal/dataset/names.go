package dataset

import "strings"

// NormalizeName lowercases, trims and collapses inner whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// ResolveName normalizes name and follows the alias table once.
func ResolveName(name string, aliases map[string]string) string {
	normalized := NormalizeName(name)
	if target, ok := aliases[normalized]; ok {
		return target
	}
	return normalized
}

var regionCodes = map[string]Region{
	"KAR":   RegionKar,
	"KER":   RegionKer,
	"Bihar": RegionOthers,
}

// MapRegionCode converts client plan region codes to Region values.
// Codes with no mapping pass through unchanged.
func MapRegionCode(code string) Region {
	code = strings.TrimSpace(code)
	if r, ok := regionCodes[code]; ok {
		return r
	}
	return Region(code)
}
