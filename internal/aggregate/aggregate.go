// Package aggregate reduces per-symbol metric outcomes into cross-sectional
// summaries: binary up/down/unchanged counts and percentage-change histograms.
//
// Every summary is checked against its invariants before it is returned. A
// failed check is reported as errs.ErrInvariantViolation and the summary is
// discarded.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/guttosm/breadthpulse/internal/domain/errs"
	"github.com/guttosm/breadthpulse/internal/domain/models"
	"github.com/guttosm/breadthpulse/internal/metrics"
)

// basisUnits is 100% expressed in hundredths of a percent.
const basisUnits = 10000

var hundred = decimal.NewFromInt(100)

// Binary counts outcomes into up/down/unchanged for one metric.
//
// Behavior:
//   - PctUp is Up/Evaluable*100 rounded half away from zero to 2 decimals.
//   - With no evaluable symbols the result is zeroed and NoData is set.
//   - An outcome outside Up/Down/Unchanged is an invariant violation.
func Binary(name string, outcomes metrics.Outcomes) (models.MetricResult, error) {
	r := models.MetricResult{Metric: name}
	for sym, d := range outcomes {
		switch d {
		case metrics.Up:
			r.Up++
		case metrics.Down:
			r.Down++
		case metrics.Unchanged:
			r.Unchanged++
		default:
			return models.MetricResult{}, fmt.Errorf("metric %s: symbol %s has direction %d: %w", name, sym, d, errs.ErrInvariantViolation)
		}
	}
	r.Evaluable = len(outcomes)
	if r.Evaluable == 0 {
		r.NoData = true
	} else {
		r.PctUp = percent(r.Up, r.Evaluable)
	}
	if err := CheckBinary(r); err != nil {
		return models.MetricResult{}, err
	}
	return r, nil
}

// Histogram places every value into the segments delimited by boundaries.
//
// Segments are (-inf, b0), [b0, b1), ..., [bn, +inf). Per-segment percentages
// are rounded to 2 decimals with the largest-remainder method so that they sum
// to exactly 100 whenever at least one value is present.
//
// Returns errs.ErrInvalidInput for malformed boundaries and
// errs.ErrInvariantViolation for a non-finite value.
func Histogram(name string, values map[string]float64, boundaries []float64) (models.SegmentResult, error) {
	if err := metrics.ValidateBoundaries(boundaries); err != nil {
		return models.SegmentResult{}, err
	}

	counts := make([]int, len(boundaries)+1)
	for sym, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.SegmentResult{}, fmt.Errorf("metric %s: symbol %s has non-finite value: %w", name, sym, errs.ErrInvariantViolation)
		}
		counts[metrics.Bin(v, boundaries)]++
	}

	bs := make([]float64, len(boundaries))
	copy(bs, boundaries)

	r := models.SegmentResult{
		Metric:     name,
		Boundaries: bs,
		Segments:   make([]models.Segment, len(counts)),
		Evaluable:  len(values),
	}
	pcts := distribute(counts, r.Evaluable)
	for i, c := range counts {
		seg := models.Segment{Count: c, Pct: pcts[i]}
		if i > 0 {
			lo := bs[i-1]
			seg.Lower = &lo
		}
		if i < len(bs) {
			hi := bs[i]
			seg.Upper = &hi
		}
		seg.Label = label(seg.Lower, seg.Upper)
		r.Segments[i] = seg
	}

	if err := CheckSegments(r); err != nil {
		return models.SegmentResult{}, err
	}
	return r, nil
}

// CheckBinary verifies the counting and percentage invariants of r.
func CheckBinary(r models.MetricResult) error {
	switch {
	case r.Up < 0 || r.Down < 0 || r.Unchanged < 0:
		return fmt.Errorf("metric %s: negative count: %w", r.Metric, errs.ErrInvariantViolation)
	case r.Up+r.Down+r.Unchanged != r.Evaluable:
		return fmt.Errorf("metric %s: up+down+unchanged=%d, evaluable=%d: %w",
			r.Metric, r.Up+r.Down+r.Unchanged, r.Evaluable, errs.ErrInvariantViolation)
	case r.NoData != (r.Evaluable == 0):
		return fmt.Errorf("metric %s: no_data=%v with evaluable=%d: %w", r.Metric, r.NoData, r.Evaluable, errs.ErrInvariantViolation)
	case r.PctUp < 0 || r.PctUp > 100:
		return fmt.Errorf("metric %s: pct_up %v out of range: %w", r.Metric, r.PctUp, errs.ErrInvariantViolation)
	case r.Evaluable > 0 && r.PctUp != percent(r.Up, r.Evaluable):
		return fmt.Errorf("metric %s: pct_up %v does not match counts: %w", r.Metric, r.PctUp, errs.ErrInvariantViolation)
	case r.Evaluable == 0 && r.PctUp != 0:
		return fmt.Errorf("metric %s: pct_up %v without data: %w", r.Metric, r.PctUp, errs.ErrInvariantViolation)
	}
	return nil
}

// CheckSegments verifies that segment counts add up to Evaluable and that
// percentages add up to 100 within 0.01.
func CheckSegments(r models.SegmentResult) error {
	if len(r.Segments) != len(r.Boundaries)+1 {
		return fmt.Errorf("metric %s: %d segments for %d boundaries: %w",
			r.Metric, len(r.Segments), len(r.Boundaries), errs.ErrInvariantViolation)
	}
	total := 0
	pct := decimal.Zero
	for _, s := range r.Segments {
		if s.Count < 0 {
			return fmt.Errorf("metric %s: negative segment count: %w", r.Metric, errs.ErrInvariantViolation)
		}
		total += s.Count
		pct = pct.Add(decimal.NewFromFloat(s.Pct))
	}
	if total != r.Evaluable {
		return fmt.Errorf("metric %s: segment counts sum to %d, evaluable=%d: %w", r.Metric, total, r.Evaluable, errs.ErrInvariantViolation)
	}
	if r.Evaluable > 0 && pct.Sub(hundred).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
		return fmt.Errorf("metric %s: segment percentages sum to %s: %w", r.Metric, pct.String(), errs.ErrInvariantViolation)
	}
	return nil
}

// percent returns n/d*100 rounded to 2 decimals.
func percent(n, d int) float64 {
	return decimal.NewFromInt(int64(n)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(d))).
		Round(2).
		InexactFloat64()
}

// distribute converts counts into percentages with 2 decimals summing to 100.
// Leftover hundredths go to the largest remainders, ties to the lower index.
func distribute(counts []int, total int) []float64 {
	out := make([]float64, len(counts))
	if total == 0 {
		return out
	}
	units := make([]int64, len(counts))
	order := make([]int, len(counts))
	rem := make([]int64, len(counts))
	var used int64
	for i, c := range counts {
		scaled := int64(c) * basisUnits
		units[i] = scaled / int64(total)
		rem[i] = scaled % int64(total)
		used += units[i]
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return rem[order[a]] > rem[order[b]] })
	for k := 0; used < basisUnits; k++ {
		units[order[k%len(order)]]++
		used++
	}
	for i, u := range units {
		out[i] = decimal.New(u, -2).InexactFloat64()
	}
	return out
}

func label(lo, hi *float64) string {
	switch {
	case lo == nil:
		return "<" + num(*hi)
	case hi == nil:
		return ">=" + num(*lo)
	default:
		return num(*lo) + " to " + num(*hi)
	}
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
