package models

import "time"

// Request is the per-call parameter object of the breadth engine.
//
// Fields:
//   - Universe: universe key, possibly composite ("SPY+QQQ").
//   - Metrics: binary metric names to compute (e.g., "instant", "year", "sma50").
//   - Granularity: bar size; empty means Daily.
//   - Threshold: optional percentage-change histogram request.
type Request struct {
	Universe    string
	Metrics     []string
	Granularity Granularity
	Threshold   *ThresholdRequest
}

// ThresholdRequest asks for a percentage-change histogram of one change metric
// over ordered segment boundaries (in percent).
type ThresholdRequest struct {
	Metric     string
	Boundaries []float64
}

// MetricResult is the binary (up/down/unchanged) summary of one metric.
//
// Invariants:
//   - Up + Down + Unchanged == Evaluable
//   - PctUp == Up / Evaluable * 100, rounded to 2 decimals
//   - NoData is true iff Evaluable == 0, in which case every count is zero.
//
// swagger:model MetricResult
type MetricResult struct {
	Metric    string  `json:"metric" example:"instant"`
	Up        int     `json:"up" example:"312"`
	Down      int     `json:"down" example:"180"`
	Unchanged int     `json:"unchanged" example:"12"`
	Evaluable int     `json:"evaluable" example:"504"`
	PctUp     float64 `json:"pct_up" example:"61.9"`
	NoData    bool    `json:"no_data" example:"false"`
}

// Segment is one bin of a percentage-change histogram.
//
// Lower is inclusive and Upper exclusive; a nil bound is unbounded.
type Segment struct {
	Label string   `json:"label" example:"0 to 5"`
	Lower *float64 `json:"lower"`
	Upper *float64 `json:"upper"`
	Count int      `json:"count" example:"140"`
	Pct   float64  `json:"pct" example:"27.78"`
}

// SegmentResult is the histogram summary of one change metric.
//
// Invariants: the sum of Count over Segments equals Evaluable, and the
// percentages sum to 100 within 0.01 when Evaluable > 0.
type SegmentResult struct {
	Metric     string    `json:"metric"`
	Boundaries []float64 `json:"boundaries"`
	Segments   []Segment `json:"segments"`
	Evaluable  int       `json:"evaluable"`
}

// Meta describes how an AggregationResponse was produced.
type Meta struct {
	Universe          string      `json:"universe"`
	SymbolCount       int         `json:"symbol_count"`
	Granularity       Granularity `json:"granularity"`
	LookbackBars      int         `json:"lookback_bars"`
	CalculationTimeMs float64     `json:"calculation_time_ms"`
	CalculatedAt      time.Time   `json:"calculated_at"`
	// AsOf is the bar time the metrics were evaluated at.
	AsOf time.Time `json:"as_of"`
}

// AggregationResponse is the immutable result of one breadth computation.
type AggregationResponse struct {
	Metrics  map[string]MetricResult `json:"metrics"`
	Segments *SegmentResult          `json:"segments,omitempty"`
	Meta     Meta                    `json:"meta"`
}
