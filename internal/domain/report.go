package domain

import (
	"fmt"
	"time"
)

// Report is the complete output of one analysis run: the top-N ranked
// summaries, their long-form reshapes for plotting, and narrative findings.
// Produced once per run and never persisted beyond the rendered artifact.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`

	Health   []HealthSummary   `json:"health"`
	Economic []EconomicSummary `json:"economic"`

	HealthData   []ImpactDatum `json:"health_data"`
	EconomicData []ImpactDatum `json:"economic_data"`

	HealthFinding   string `json:"health_finding"`
	EconomicFinding string `json:"economic_finding"`

	// RecordsAnalyzed is the number of records that survived the impact
	// filter and fed the aggregations.
	RecordsAnalyzed int `json:"records_analyzed"`
}

// BuildReport runs the full aggregation pipeline over parsed records:
// filter, normalize, summarize both tables, rank, take the top n, and
// reshape for plotting. Pure aside from reading the package clock for the
// generation timestamp.
func BuildReport(records []EventRecord, multipliers map[string]float64, topN int) Report {
	impactful := FilterImpactful(records)
	normalized := Normalize(impactful, multipliers)

	health := SummarizeHealth(impactful)
	economic := SummarizeEconomic(normalized)

	topHealth := TopHealth(health, topN)
	topEconomic := TopEconomic(economic, topN)

	return Report{
		GeneratedAt:     clock.Now().UTC(),
		Health:          topHealth,
		Economic:        topEconomic,
		HealthData:      ReshapeHealth(topHealth),
		EconomicData:    ReshapeEconomic(topEconomic),
		HealthFinding:   healthFinding(health),
		EconomicFinding: economicFinding(economic),
		RecordsAnalyzed: len(impactful),
	}
}

// healthFinding states the dominant event type's share of all recorded
// fatalities and injuries, computed over the full summary, not just the
// retained top rows.
func healthFinding(all []HealthSummary) string {
	if len(all) == 0 {
		return "No events with recorded health impact."
	}
	var total float64
	for _, s := range all {
		total += s.RankKey()
	}
	top := all[0]
	if total == 0 {
		return "No events with recorded health impact."
	}
	return fmt.Sprintf("%s accounts for %.0f%% of all recorded storm fatalities and injuries (%d killed, %d injured).",
		top.EventType, 100*top.RankKey()/total, top.Fatalities, top.Injuries)
}

// economicFinding states the dominant event type's share of total damage
// costs, expressed in billions of dollars.
func economicFinding(all []EconomicSummary) string {
	if len(all) == 0 {
		return "No events with recorded economic impact."
	}
	var total float64
	for _, s := range all {
		total += s.RankKey()
	}
	top := all[0]
	if total == 0 {
		return "No events with recorded economic impact."
	}
	return fmt.Sprintf("%s caused $%.1fB in damage, %.0f%% of the $%.1fB total.",
		top.EventType, top.RankKey()/1e9, 100*top.RankKey()/total, total/1e9)
}
