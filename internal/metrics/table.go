// Package metrics holds the Price Window Table and the per-symbol metric
// calculators that run against it.
//
// A Table is built once per request and is read-only afterwards; calculators
// are pure functions of the table, so any number of them may read the same
// table concurrently.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/guttosm/breadthpulse/internal/domain/errs"
	"github.com/guttosm/breadthpulse/internal/domain/models"
)

// series is one symbol's bars in ascending time order.
// axis[i] is the position of bar i on the table's shared time axis.
type series struct {
	times []time.Time
	open  []float64
	close []float64
	axis  []int
}

func (s *series) len() int { return len(s.close) }

// Table is the in-memory Price Window Table: every bar of every symbol in
// the window, grouped by symbol and ordered by time.
//
// The shared time axis is the sorted union of all bar times kept in the
// table. It is used only to detect gaps: a symbol's reference bar N bars
// back must sit N axis positions before its latest bar, otherwise a missing
// bar would silently shift the reference.
//
// The as-of time is the last-bar time shared by the most symbols, the later
// one on ties. A symbol is evaluated at its bar on the as-of time; bars it
// has after that are ignored, and a symbol with no bar there is stale.
type Table struct {
	symbols []string
	series  map[string]*series
	axis    []time.Time
	asOf    int
	rows    int
	dropped int
}

// TableOption configures NewTable.
type TableOption func(*tableConfig)

type tableConfig struct {
	isSession func(time.Time) bool
}

// OnSessions drops bars whose time is not a trading session according to
// isSession. Such bars never join the time axis.
func OnSessions(isSession func(time.Time) bool) TableOption {
	return func(c *tableConfig) { c.isSession = isSession }
}

// NewTable builds a Table from bars. The input slice is not modified.
//
// Returns errs.ErrInvariantViolation if a symbol has two bars with the same time.
func NewTable(bars []models.PriceBar, opts ...TableOption) (*Table, error) {
	var cfg tableConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	sorted := make([]models.PriceBar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Symbol != sorted[j].Symbol {
			return sorted[i].Symbol < sorted[j].Symbol
		}
		return sorted[i].Time.Before(sorted[j].Time)
	})

	t := &Table{series: make(map[string]*series), rows: len(sorted), asOf: -1}

	seen := make(map[int64]time.Time)
	for i, b := range sorted {
		if i > 0 && sorted[i-1].Symbol == b.Symbol && !b.Time.After(sorted[i-1].Time) {
			return nil, fmt.Errorf("symbol %s: duplicate bar at %s: %w", b.Symbol, b.Time.Format(time.RFC3339), errs.ErrInvariantViolation)
		}
		if cfg.isSession != nil && !cfg.isSession(b.Time) {
			t.dropped++
			continue
		}
		s, ok := t.series[b.Symbol]
		if !ok {
			s = &series{}
			t.series[b.Symbol] = s
			t.symbols = append(t.symbols, b.Symbol)
		}
		s.times = append(s.times, b.Time)
		s.open = append(s.open, b.Open)
		s.close = append(s.close, b.Close)
		seen[b.Time.UnixNano()] = b.Time
	}

	t.axis = make([]time.Time, 0, len(seen))
	for _, ts := range seen {
		t.axis = append(t.axis, ts)
	}
	sort.Slice(t.axis, func(i, j int) bool { return t.axis[i].Before(t.axis[j]) })

	pos := make(map[int64]int, len(t.axis))
	for i, ts := range t.axis {
		pos[ts.UnixNano()] = i
	}
	lastAt := make(map[int]int)
	for _, s := range t.series {
		s.axis = make([]int, len(s.times))
		for i, ts := range s.times {
			s.axis[i] = pos[ts.UnixNano()]
		}
		lastAt[s.axis[len(s.axis)-1]]++
	}

	best := 0
	for p, n := range lastAt {
		if n > best || (n == best && p > t.asOf) {
			t.asOf, best = p, n
		}
	}

	return t, nil
}

// Symbols returns the symbols present in the table, sorted ascending.
// Callers must not modify the returned slice.
func (t *Table) Symbols() []string { return t.symbols }

// Rows returns the total number of bars the table was built from.
func (t *Table) Rows() int { return t.rows }

// Dropped returns how many bars were discarded as falling outside a session.
func (t *Table) Dropped() int { return t.dropped }

// AsOf returns the time the table's metrics are evaluated at.
func (t *Table) AsOf() (time.Time, bool) {
	if t.asOf < 0 {
		return time.Time{}, false
	}
	return t.axis[t.asOf], true
}

// at returns the symbol's series and the index of its bar on the as-of time.
// Symbols without a bar there are stale and are not evaluable for any metric.
func (t *Table) at(symbol string) (*series, int, bool) {
	s, ok := t.series[symbol]
	if !ok || t.asOf < 0 {
		return nil, 0, false
	}
	i, ok := s.barAt(t.asOf)
	if !ok {
		return nil, 0, false
	}
	return s, i, true
}

// barAt returns the index of the bar of s sitting at axis position pos.
func (s *series) barAt(pos int) (int, bool) {
	i := sort.SearchInts(s.axis, pos)
	if i < len(s.axis) && s.axis[i] == pos {
		return i, true
	}
	return 0, false
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
