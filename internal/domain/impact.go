package domain

import (
	"math"
	"strings"
)

// DefaultMultipliers returns the magnitude-code multiplier table documented
// in the package comment: K/M/B scale by powers of ten, a blank code leaves
// the mantissa as plain dollars. Codes absent from the table resolve to 0 in
// [ResolveCost]. Returned fresh on each call so callers can adjust their copy
// without affecting anyone else.
func DefaultMultipliers() map[string]float64 {
	return map[string]float64{
		"K": 1e3,
		"M": 1e6,
		"B": 1e9,
		"":  1,
	}
}

// FilterImpactful keeps the records with any recorded impact: at least one
// of fatalities, injuries, property damage mantissa, or crop damage mantissa
// strictly positive. The input is not modified; filtering an already
// filtered slice returns an equal slice.
func FilterImpactful(records []EventRecord) []EventRecord {
	out := make([]EventRecord, 0, len(records))
	for _, r := range records {
		if r.Fatalities > 0 || r.Injuries > 0 || r.PropDamage > 0 || r.CropDamage > 0 {
			out = append(out, r)
		}
	}
	return out
}

// ResolveCost scales a damage mantissa by its magnitude code using the given
// multiplier table. The code is trimmed and upper-cased before lookup, so
// the lowercase "k"/"m" variants in the raw data behave like their
// documented forms. Codes missing from the table and NaN mantissas resolve
// to 0 rather than propagating garbage into the sums. Never fails.
func ResolveCost(mantissa float64, code string, multipliers map[string]float64) float64 {
	if math.IsNaN(mantissa) {
		return 0
	}
	m, ok := multipliers[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return 0
	}
	return mantissa * m
}

// Normalize resolves property and crop costs for each record independently.
// The input is not modified.
func Normalize(records []EventRecord, multipliers map[string]float64) []NormalizedRecord {
	out := make([]NormalizedRecord, len(records))
	for i, r := range records {
		out[i] = NormalizedRecord{
			EventRecord: r,
			PropCost:    ResolveCost(r.PropDamage, r.PropDamageExp, multipliers),
			CropCost:    ResolveCost(r.CropDamage, r.CropDamageExp, multipliers),
		}
	}
	return out
}

// UnknownCodes counts, per code, the damage columns whose magnitude code is
// not in the multiplier table. The pipeline uses this to surface how many
// contributions the zero-multiplier policy dropped.
func UnknownCodes(records []EventRecord, multipliers map[string]float64) map[string]int {
	counts := make(map[string]int)
	note := func(code string) {
		key := strings.ToUpper(strings.TrimSpace(code))
		if _, ok := multipliers[key]; !ok {
			counts[key]++
		}
	}
	for _, r := range records {
		note(r.PropDamageExp)
		note(r.CropDamageExp)
	}
	return counts
}
