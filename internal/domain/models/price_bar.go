package models

import (
	"strings"
	"time"
)

// Granularity is the bar size of a price window.
type Granularity string

const (
	Daily    Granularity = "daily"
	Weekly   Granularity = "weekly"
	Intraday Granularity = "intraday"
)

// PriceBar represents one OHLCV observation for a symbol.
//
// Time is the normalized temporal key of the bar regardless of how the
// backing table names it (trade date, week start, timestamp). Within one
// symbol, bar times are strictly increasing.
//
// Close is the reference price of every metric; Open is only read by the
// intraday (open-to-close) metric.
type PriceBar struct {
	Symbol string    `json:"symbol"`
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// ParseGranularity returns the Granularity named by s (case-insensitive).
func ParseGranularity(s string) (Granularity, bool) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case Daily, Weekly, Intraday:
		return g, true
	default:
		return "", false
	}
}
