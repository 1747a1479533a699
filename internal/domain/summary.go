package domain

import (
	"math"
	"sort"
)

// SummarizeHealth groups records by their exact event type label and sums
// fatalities and injuries per group. Groups with no health impact at all are
// dropped: an event type that only ever caused property damage does not
// belong in the health table. The result is sorted descending by combined
// count; ties keep first-seen input order, so identical input yields
// identical output. Label matching does no case folding or trimming (see the
// package comment on EVTYPE quality).
func SummarizeHealth(records []EventRecord) []HealthSummary {
	index := make(map[string]int, len(records))
	rows := make([]HealthSummary, 0)
	for _, r := range records {
		i, ok := index[r.EventType]
		if !ok {
			i = len(rows)
			index[r.EventType] = i
			rows = append(rows, HealthSummary{EventType: r.EventType})
		}
		rows[i].Fatalities += r.Fatalities
		rows[i].Injuries += r.Injuries
	}
	out := rows[:0:0]
	for _, s := range rows {
		if s.RankKey() > 0 {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RankKey() > out[j].RankKey()
	})
	return out
}

// SummarizeEconomic groups normalized records by their exact event type
// label and sums resolved property and crop costs per group. NaN
// contributions count as zero instead of poisoning the sums, and groups with
// no economic impact are dropped, mirroring SummarizeHealth. Sorted
// descending by combined cost, stable on ties.
func SummarizeEconomic(records []NormalizedRecord) []EconomicSummary {
	index := make(map[string]int, len(records))
	rows := make([]EconomicSummary, 0)
	for _, r := range records {
		i, ok := index[r.EventType]
		if !ok {
			i = len(rows)
			index[r.EventType] = i
			rows = append(rows, EconomicSummary{EventType: r.EventType})
		}
		rows[i].PropCost += zeroIfNaN(r.PropCost)
		rows[i].CropCost += zeroIfNaN(r.CropCost)
	}
	out := rows[:0:0]
	for _, s := range rows {
		if s.RankKey() > 0 {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RankKey() > out[j].RankKey()
	})
	return out
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// TopHealth returns the first min(n, len) rows of a ranked health summary.
func TopHealth(rows []HealthSummary, n int) []HealthSummary {
	if n > len(rows) {
		n = len(rows)
	}
	if n < 0 {
		n = 0
	}
	out := make([]HealthSummary, n)
	copy(out, rows[:n])
	return out
}

// TopEconomic returns the first min(n, len) rows of a ranked economic summary.
func TopEconomic(rows []EconomicSummary, n int) []EconomicSummary {
	if n > len(rows) {
		n = len(rows)
	}
	if n < 0 {
		n = 0
	}
	out := make([]EconomicSummary, n)
	copy(out, rows[:n])
	return out
}

// ReshapeHealth pivots health summary rows into long form: two
// (event type, metric, value) triples per row, fatalities then injuries,
// preserving rank order.
func ReshapeHealth(rows []HealthSummary) []ImpactDatum {
	out := make([]ImpactDatum, 0, 2*len(rows))
	for _, r := range rows {
		out = append(out,
			ImpactDatum{EventType: r.EventType, Metric: MetricFatalities, Value: float64(r.Fatalities)},
			ImpactDatum{EventType: r.EventType, Metric: MetricInjuries, Value: float64(r.Injuries)},
		)
	}
	return out
}

// ReshapeEconomic pivots economic summary rows into long form: two triples
// per row, property damage then crop damage, in absolute dollars.
func ReshapeEconomic(rows []EconomicSummary) []ImpactDatum {
	out := make([]ImpactDatum, 0, 2*len(rows))
	for _, r := range rows {
		out = append(out,
			ImpactDatum{EventType: r.EventType, Metric: MetricPropCost, Value: r.PropCost},
			ImpactDatum{EventType: r.EventType, Metric: MetricCropCost, Value: r.CropCost},
		)
	}
	return out
}
