package dto

import (
	"time"

	"github.com/guttosm/breadthpulse/internal/domain/models"
)

// MetricSummary is one metric's entry in BreadthResponse.Metrics.
type MetricSummary struct {
	Up        int     `json:"up" example:"312"`
	Down      int     `json:"down" example:"180"`
	Unchanged int     `json:"unchanged" example:"12"`
	Evaluable int     `json:"evaluable" example:"504"`
	PctUp     float64 `json:"pct_up" example:"61.9"`
	NoData    bool    `json:"no_data" example:"false"`
}

// MetaResponse describes how a response was produced.
type MetaResponse struct {
	Universe          string    `json:"universe" example:"SPY"`
	SymbolCount       int       `json:"symbol_count" example:"504"`
	Granularity       string    `json:"granularity" example:"daily"`
	LookbackBars      int       `json:"lookback_bars" example:"253"`
	CalculationTimeMs float64   `json:"calculation_time_ms" example:"12.4"`
	CalculatedAt      time.Time `json:"calculated_at" example:"2025-09-19T21:00:00Z"`
	AsOf              time.Time `json:"as_of" example:"2025-09-19T00:00:00Z"`
}

// BreadthResponse represents the JSON structure returned by the
// GET /api/v1/breadth endpoint.
type BreadthResponse struct {
	Metrics map[string]MetricSummary `json:"metrics"`
	Meta    MetaResponse             `json:"meta"`
}

// SegmentSummary is one histogram bin. Lower is inclusive, Upper exclusive;
// a null bound is unbounded.
type SegmentSummary struct {
	Label string   `json:"label" example:"0 to 5"`
	Lower *float64 `json:"lower" example:"0"`
	Upper *float64 `json:"upper" example:"5"`
	Count int      `json:"count" example:"140"`
	Pct   float64  `json:"pct" example:"27.78"`
}

// SegmentsResponse represents the JSON structure returned by the
// GET /api/v1/breadth/segments endpoint.
type SegmentsResponse struct {
	Metric     string           `json:"metric" example:"instant"`
	Boundaries []float64        `json:"boundaries"`
	Evaluable  int              `json:"evaluable" example:"504"`
	Segments   []SegmentSummary `json:"segments"`
	Meta       MetaResponse     `json:"meta"`
}

// NewBreadthResponse maps an engine result to its API representation.
func NewBreadthResponse(r *models.AggregationResponse) BreadthResponse {
	out := BreadthResponse{
		Metrics: make(map[string]MetricSummary, len(r.Metrics)),
		Meta:    newMeta(r.Meta),
	}
	for name, m := range r.Metrics {
		out.Metrics[name] = MetricSummary{
			Up:        m.Up,
			Down:      m.Down,
			Unchanged: m.Unchanged,
			Evaluable: m.Evaluable,
			PctUp:     m.PctUp,
			NoData:    m.NoData,
		}
	}
	return out
}

// NewSegmentsResponse maps an engine histogram result to its API
// representation. r.Segments must be set.
func NewSegmentsResponse(r *models.AggregationResponse) SegmentsResponse {
	s := r.Segments
	out := SegmentsResponse{
		Metric:     s.Metric,
		Boundaries: s.Boundaries,
		Evaluable:  s.Evaluable,
		Segments:   make([]SegmentSummary, len(s.Segments)),
		Meta:       newMeta(r.Meta),
	}
	for i, seg := range s.Segments {
		out.Segments[i] = SegmentSummary{
			Label: seg.Label,
			Lower: seg.Lower,
			Upper: seg.Upper,
			Count: seg.Count,
			Pct:   seg.Pct,
		}
	}
	return out
}

func newMeta(m models.Meta) MetaResponse {
	return MetaResponse{
		Universe:          m.Universe,
		SymbolCount:       m.SymbolCount,
		Granularity:       string(m.Granularity),
		LookbackBars:      m.LookbackBars,
		CalculationTimeMs: m.CalculationTimeMs,
		CalculatedAt:      m.CalculatedAt,
		AsOf:              m.AsOf,
	}
}
