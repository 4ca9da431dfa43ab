package metrics

import (
	"fmt"
	"strings"

	"github.com/guttosm/breadthpulse/internal/domain/errs"
)

// Metric names understood by Lookup.
const (
	Instant  = "instant"
	Intraday = "intraday"
	Week     = "week"
	Month    = "month"
	Quarter  = "quarter"
	HalfYear = "half_year"
	Year     = "year"
	EMA10    = "ema10"
	EMA20    = "ema20"
	SMA50    = "sma50"
	SMA200   = "sma200"
)

// defaultNames is the breadth set, in display order.
var defaultNames = []string{
	Instant, Intraday, Week, Month, Quarter, HalfYear, Year,
	EMA10, EMA20, SMA50, SMA200,
}

var registry = map[string]Calculator{
	Instant:  NewPeriodChange(Instant, 1),
	Intraday: IntradayChange{},
	Week:     NewPeriodChange(Week, 5),
	Month:    NewPeriodChange(Month, 21),
	Quarter:  NewPeriodChange(Quarter, 63),
	HalfYear: NewPeriodChange(HalfYear, 126),
	Year:     NewPeriodChange(Year, 252),
	EMA10:    NewMovingAverage(Exponential, 10),
	EMA20:    NewMovingAverage(Exponential, 20),
	SMA50:    NewMovingAverage(Simple, 50),
	SMA200:   NewMovingAverage(Simple, 200),
}

// DefaultNames returns the names of all registered metrics in display order.
func DefaultNames() []string {
	out := make([]string, len(defaultNames))
	copy(out, defaultNames)
	return out
}

// Lookup returns the calculator registered under name (case-insensitive).
func Lookup(name string) (Calculator, bool) {
	c, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Resolve maps names to calculators, dropping duplicates while keeping order.
// An unknown name fails with errs.ErrInvalidInput.
func Resolve(names []string) ([]Calculator, error) {
	out := make([]Calculator, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		c, ok := Lookup(n)
		if !ok {
			return nil, fmt.Errorf("unsupported metric %q: %w", n, errs.ErrInvalidInput)
		}
		if _, dup := seen[c.Name()]; dup {
			continue
		}
		seen[c.Name()] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}
