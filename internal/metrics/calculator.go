package metrics

import (
	"math"
	"strconv"
)

// Direction is the classification of one symbol for one metric.
type Direction int8

const (
	Down      Direction = -1
	Unchanged Direction = 0
	Up        Direction = 1
)

// Classify maps a signed value to a Direction. Exactly zero is Unchanged.
func Classify(v float64) Direction {
	switch {
	case v > 0:
		return Up
	case v < 0:
		return Down
	default:
		return Unchanged
	}
}

// Outcomes holds the Direction of every evaluable symbol.
// Symbols that could not be evaluated are absent, not Unchanged.
type Outcomes map[string]Direction

// Calculator computes one per-symbol metric from a Table.
//
// Values returns, for every evaluable symbol, the signed percentage distance
// between the latest close and the metric's reference value (a prior close,
// the same-day open, or a moving average). Symbols with insufficient history
// or unusable prices are omitted.
//
// Implementations must not modify the table.
type Calculator interface {
	Name() string
	// Lookback is the number of bars per symbol the price window must hold
	// for this metric to be computable.
	Lookback() int
	Values(t *Table) map[string]float64
}

// Evaluate runs c against t and classifies every evaluable symbol.
func Evaluate(c Calculator, t *Table) Outcomes {
	values := c.Values(t)
	out := make(Outcomes, len(values))
	for sym, v := range values {
		out[sym] = Classify(v)
	}
	return out
}

// MaxLookback returns the largest Lookback among calcs.
func MaxLookback(calcs ...Calculator) int {
	n := 0
	for _, c := range calcs {
		if lb := c.Lookback(); lb > n {
			n = lb
		}
	}
	return n
}

// pctChange returns (to-from)/from*100. ok is false when from is not a usable
// reference price.
func pctChange(from, to float64) (float64, bool) {
	if !finite(from, to) || from <= 0 {
		return 0, false
	}
	if to == from {
		return 0, true
	}
	v := (to - from) / from * 100
	if !finite(v) {
		return 0, false
	}
	return v, true
}

// PeriodChange compares the as-of close with the close N bars earlier.
//
// The reference bar is the symbol's own bar N positions before its as-of bar.
// A symbol with fewer than N+1 bars up to the as-of time, or whose reference
// does not sit N positions back on the table's time axis, is excluded; no
// neighbouring bar is substituted.
type PeriodChange struct {
	name string
	n    int
}

// NewPeriodChange returns a period-change calculator over n bars.
func NewPeriodChange(name string, n int) PeriodChange {
	return PeriodChange{name: name, n: n}
}

func (p PeriodChange) Name() string  { return p.name }
func (p PeriodChange) Lookback() int { return p.n + 1 }

func (p PeriodChange) Values(t *Table) map[string]float64 {
	out := make(map[string]float64, len(t.symbols))
	if p.n <= 0 {
		return out
	}
	for _, sym := range t.symbols {
		s, last, ok := t.at(sym)
		if !ok || last < p.n {
			continue
		}
		// The reference is the symbol's own bar N back; it must also be N
		// axis steps back or the symbol is missing a bar in between.
		ref := last - p.n
		if s.axis[ref] != s.axis[last]-p.n {
			continue
		}
		if v, ok := pctChange(s.close[ref], s.close[last]); ok {
			out[sym] = v
		}
	}
	return out
}

// IntradayChange compares the as-of close with the same bar's open.
type IntradayChange struct{}

func (IntradayChange) Name() string  { return "intraday" }
func (IntradayChange) Lookback() int { return 1 }

func (IntradayChange) Values(t *Table) map[string]float64 {
	out := make(map[string]float64, len(t.symbols))
	for _, sym := range t.symbols {
		s, last, ok := t.at(sym)
		if !ok {
			continue
		}
		if v, ok := pctChange(s.open[last], s.close[last]); ok {
			out[sym] = v
		}
	}
	return out
}

// AverageKind selects the moving average flavour.
type AverageKind string

const (
	Simple      AverageKind = "sma"
	Exponential AverageKind = "ema"
)

// emaWarmup is how many periods of history an exponential average is given
// in the price window beyond its minimum.
const emaWarmup = 4

// MovingAverage compares the as-of close with a moving average of closes.
//
// A simple average needs P observations and averages the last P closes. An
// exponential average needs P observations, is seeded with the simple mean
// of the first P closes and then updated forward over the rest of the
// window. Symbols with fewer than P closes are excluded.
type MovingAverage struct {
	kind   AverageKind
	period int
}

// NewMovingAverage returns a moving average comparison of the given kind and period.
func NewMovingAverage(kind AverageKind, period int) MovingAverage {
	return MovingAverage{kind: kind, period: period}
}

func (m MovingAverage) Name() string {
	return string(m.kind) + strconv.Itoa(m.period)
}

func (m MovingAverage) Lookback() int {
	if m.kind == Exponential {
		return emaWarmup * m.period
	}
	return m.period
}

func (m MovingAverage) Values(t *Table) map[string]float64 {
	out := make(map[string]float64, len(t.symbols))
	for _, sym := range t.symbols {
		s, last, ok := t.at(sym)
		if !ok {
			continue
		}
		closes := s.close[:last+1]
		var avg float64
		if m.kind == Exponential {
			avg, ok = EMA(closes, m.period)
		} else {
			avg, ok = SMA(closes, m.period)
		}
		if !ok {
			continue
		}
		if v, ok := pctChange(avg, closes[last]); ok {
			out[sym] = v
		}
	}
	return out
}

// SMA returns the arithmetic mean of the last period values.
// ok is false with fewer than period values or any non-finite value.
func SMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	avg := sum / float64(period)
	return avg, finite(avg)
}

// EMA returns the exponential moving average of values at the last value,
// using alpha = 2/(period+1) and an SMA seed over the first period values.
// ok is false with fewer than period values or any non-finite value.
func EMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	ema := seed / float64(period)
	alpha := 2.0 / (float64(period) + 1.0)
	for _, v := range values[period:] {
		ema += alpha * (v - ema)
	}
	if math.IsNaN(ema) || math.IsInf(ema, 0) {
		return 0, false
	}
	return ema, true
}
