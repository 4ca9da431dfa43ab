package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/breadthpulse/internal/calendar"
	"github.com/guttosm/breadthpulse/internal/domain/errs"
	"github.com/guttosm/breadthpulse/internal/domain/models"
)

// DefaultMaxLookback caps the number of bars per symbol a single fetch may ask for.
const DefaultMaxLookback = 260

// intradayBarsPerSession is the number of 5-minute bars in a regular session.
const intradayBarsPerSession = 78

// PriceRepository reads bounded price windows from Postgres.
type PriceRepository interface {
	// FetchWindow returns up to lookback most recent bars for every symbol,
	// ordered by (symbol, time) ascending.
	FetchWindow(ctx context.Context, symbols []string, g models.Granularity, lookback int) ([]models.PriceBar, error)
}

// barSource describes where bars of one granularity live and how far back a
// window of n bars ending at the newest stored bar can reach.
type barSource struct {
	table      string
	timeColumn string
	since      func(latest time.Time, n int) time.Time
}

// barSources maps each granularity to its backing table. The temporal column
// is aliased to "ts" in every query so callers never see storage naming.
var barSources = map[models.Granularity]barSource{
	models.Daily: {
		table:      "daily_bars",
		timeColumn: "trade_date",
		since: func(latest time.Time, n int) time.Time {
			return calendar.SessionsBack(n+slack(n), latest)
		},
	},
	models.Weekly: {
		table:      "weekly_bars",
		timeColumn: "week_start",
		since: func(latest time.Time, n int) time.Time {
			return latest.AddDate(0, 0, -7*(n+slack(n)))
		},
	},
	models.Intraday: {
		table:      "intraday_bars",
		timeColumn: "ts",
		since: func(latest time.Time, n int) time.Time {
			sessions := (n + intradayBarsPerSession - 1) / intradayBarsPerSession
			return calendar.SessionsBack(sessions+slack(sessions), latest)
		},
	},
}

// slack widens the scan so unscheduled closures do not shorten the window.
func slack(n int) int { return n/10 + 5 }

type priceRepository struct {
	db          *sql.DB
	maxLookback int
}

// NewPriceRepository returns a Postgres-backed PriceRepository.
// A non-positive maxLookback falls back to DefaultMaxLookback.
func NewPriceRepository(db *sql.DB, maxLookback int) PriceRepository {
	if maxLookback <= 0 {
		maxLookback = DefaultMaxLookback
	}
	return &priceRepository{db: db, maxLookback: maxLookback}
}

// FetchWindow anchors the scan on the newest stored bar of the requested
// symbols, then reads every window in one bulk query. Anchoring on stored
// data keeps the window whole when ingestion lags the wall clock.
//
// Returns:
//   - errs.ErrInvalidInput for an empty symbol list, unknown granularity or
//     lookback outside [1, maxLookback].
//   - errs.ErrNoDataAvailable when the query returns no rows.
//   - errs.ErrDataSourceUnavailable wrapping the driver error otherwise,
//     including context deadline and cancellation.
func (r *priceRepository) FetchWindow(ctx context.Context, symbols []string, g models.Granularity, lookback int) ([]models.PriceBar, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("fetch window: no symbols: %w", errs.ErrInvalidInput)
	}
	src, ok := barSources[g]
	if !ok {
		return nil, fmt.Errorf("fetch window: unsupported granularity %q: %w", g, errs.ErrInvalidInput)
	}
	if lookback < 1 || lookback > r.maxLookback {
		return nil, fmt.Errorf("fetch window: lookback %d outside [1, %d]: %w", lookback, r.maxLookback, errs.ErrInvalidInput)
	}

	latest, err := r.latest(ctx, src, symbols)
	if err != nil {
		return nil, err
	}
	if !latest.Valid {
		return nil, fmt.Errorf("%d symbols, %s: no stored bars: %w", len(symbols), g, errs.ErrNoDataAvailable)
	}

	query := fmt.Sprintf(`
		SELECT symbol, ts, open, high, low, close, volume
		FROM (
			SELECT symbol, %[2]s AS ts, open, high, low, close, volume,
			       ROW_NUMBER() OVER (PARTITION BY symbol ORDER BY %[2]s DESC) AS rn
			FROM %[1]s
			WHERE symbol = ANY($1) AND %[2]s >= $2
		) w
		WHERE rn <= $3
		ORDER BY symbol, ts
	`, src.table, src.timeColumn)

	since := src.since(latest.Time.UTC(), lookback)
	rows, err := r.db.QueryContext(ctx, query, pq.Array(symbols), since, lookback)
	if err != nil {
		return nil, unavailable("query price window", err)
	}
	defer rows.Close()

	bars := make([]models.PriceBar, 0, len(symbols)*lookback)
	for rows.Next() {
		var (
			b      models.PriceBar
			volume sql.NullInt64
		)
		if err := rows.Scan(&b.Symbol, &b.Time, &b.Open, &b.High, &b.Low, &b.Close, &volume); err != nil {
			return nil, unavailable("scan price bar", err)
		}
		b.Time = b.Time.UTC()
		b.Volume = volume.Int64
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate price window", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%d symbols, %s, %d bars: %w", len(symbols), g, lookback, errs.ErrNoDataAvailable)
	}
	return bars, nil
}

// latest returns the newest bar time stored for any of symbols.
func (r *priceRepository) latest(ctx context.Context, src barSource, symbols []string) (sql.NullTime, error) {
	query := fmt.Sprintf(`SELECT MAX(%s) FROM %s WHERE symbol = ANY($1)`, src.timeColumn, src.table)
	var latest sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, pq.Array(symbols)).Scan(&latest); err != nil {
		return sql.NullTime{}, unavailable("query latest bar", err)
	}
	return latest, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, errs.ErrDataSourceUnavailable, err)
}
