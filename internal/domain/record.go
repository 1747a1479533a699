package domain

// EventRecord is one row of the NOAA storm events dataset, reduced to the
// columns the impact analysis consumes. Records are never mutated after
// parsing; every pipeline stage returns new slices.
type EventRecord struct {
	EventType     string
	Fatalities    int
	Injuries      int
	PropDamage    float64 // mantissa, scaled by PropDamageExp
	PropDamageExp string
	CropDamage    float64 // mantissa, scaled by CropDamageExp
	CropDamageExp string
}

// NormalizedRecord is an EventRecord with its damage costs resolved to
// absolute dollars. It exists only between normalization and aggregation.
type NormalizedRecord struct {
	EventRecord
	PropCost float64
	CropCost float64
}

// HealthSummary aggregates fatalities and injuries for one event type.
type HealthSummary struct {
	EventType  string `json:"event_type"`
	Fatalities int    `json:"fatalities"`
	Injuries   int    `json:"injuries"`
}

// RankKey orders health summaries: total people killed or injured.
func (s HealthSummary) RankKey() float64 {
	return float64(s.Fatalities + s.Injuries)
}

// EconomicSummary aggregates property and crop damage costs, in dollars,
// for one event type.
type EconomicSummary struct {
	EventType string  `json:"event_type"`
	PropCost  float64 `json:"property_cost"`
	CropCost  float64 `json:"crop_cost"`
}

// RankKey orders economic summaries: total damage in dollars.
func (s EconomicSummary) RankKey() float64 {
	return s.PropCost + s.CropCost
}

// ImpactDatum is one long-form (event type, metric, value) triple, the shape
// grouped-bar renderers consume. Costs stay in absolute dollars here;
// display scaling is the renderer's concern.
type ImpactDatum struct {
	EventType string  `json:"event_type"`
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
}

// Metric names used in reshaped impact data.
const (
	MetricFatalities = "fatalities"
	MetricInjuries   = "injuries"
	MetricPropCost   = "property damage"
	MetricCropCost   = "crop damage"
)
