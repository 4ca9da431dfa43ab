package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/breadthpulse/internal/aggregate"
	"github.com/guttosm/breadthpulse/internal/calendar"
	"github.com/guttosm/breadthpulse/internal/domain/errs"
	"github.com/guttosm/breadthpulse/internal/domain/models"
	"github.com/guttosm/breadthpulse/internal/logger"
	"github.com/guttosm/breadthpulse/internal/metrics"
	"github.com/guttosm/breadthpulse/internal/universe"
)

const (
	defaultFetchTimeout = 2 * time.Second
	defaultMaxLookback  = 260
	maxParallelism      = 8
)

// PriceFetcher returns the price window for a symbol set in one round trip.
type PriceFetcher interface {
	FetchWindow(ctx context.Context, symbols []string, g models.Granularity, lookback int) ([]models.PriceBar, error)
}

// BreadthService computes cross-sectional breadth summaries for a universe.
type BreadthService interface {
	Compute(ctx context.Context, req models.Request) (*models.AggregationResponse, error)
}

// Options tunes a BreadthService. Zero values select defaults.
type Options struct {
	// FetchTimeout bounds the price window fetch.
	FetchTimeout time.Duration
	// MaxLookback caps the bars requested per symbol.
	MaxLookback int
	// Parallelism is the number of calculators run concurrently.
	Parallelism int
	// Granularities lists the accepted bar sizes. Empty means daily only.
	Granularities []models.Granularity
}

type breadthService struct {
	resolver universe.Resolver
	fetcher  PriceFetcher
	opts     Options
	allowed  map[models.Granularity]struct{}
	now      func() time.Time
	log      zerolog.Logger
}

// NewBreadthService wires the orchestrator to its two collaborators.
func NewBreadthService(resolver universe.Resolver, fetcher PriceFetcher, opts Options) BreadthService {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.MaxLookback <= 0 {
		opts.MaxLookback = defaultMaxLookback
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = min(maxParallelism, runtime.NumCPU())
	}
	if len(opts.Granularities) == 0 {
		opts.Granularities = []models.Granularity{models.Daily}
	}
	allowed := make(map[models.Granularity]struct{}, len(opts.Granularities))
	for _, g := range opts.Granularities {
		allowed[g] = struct{}{}
	}
	return &breadthService{
		resolver: resolver,
		fetcher:  fetcher,
		opts:     opts,
		allowed:  allowed,
		now:      time.Now,
		log:      logger.Component("breadth"),
	}
}

// plan is a validated request.
type plan struct {
	granularity models.Granularity
	binary      []metrics.Calculator
	histogram   metrics.Calculator
	boundaries  []float64
	lookback    int
}

// Compute runs one breadth request end to end.
//
// Steps:
//   - Validate the request; nothing downstream is called on failure.
//   - Resolve the universe.
//   - Fetch the price window once, sized for the longest metric.
//   - Run every calculator against the same table, in parallel.
//   - Aggregate and attach metadata.
//
// Either every requested metric is returned or the call fails; failures wrap
// one of the errs sentinels.
func (s *breadthService) Compute(ctx context.Context, req models.Request) (*models.AggregationResponse, error) {
	start := time.Now()

	p, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	u, err := s.resolver.Resolve(ctx, req.Universe)
	if err != nil {
		return nil, err
	}
	if len(u.Members) == 0 {
		return nil, fmt.Errorf("universe %s: %w", u.Key, errs.ErrUnknownUniverse)
	}

	bars, err := s.fetch(ctx, u.Members, p)
	if err != nil {
		return nil, err
	}

	table, err := metrics.NewTable(bars, tableOptions(p.granularity)...)
	if err != nil {
		s.log.Error().Err(err).Str("universe", u.Key).Msg("price window rejected")
		return nil, err
	}

	results, segments, err := s.run(ctx, table, p)
	if err != nil {
		if errors.Is(err, errs.ErrInvariantViolation) {
			s.log.Error().Err(err).Str("universe", u.Key).Msg("breadth invariant violated")
		}
		return nil, err
	}

	elapsed := time.Since(start)
	resp := &models.AggregationResponse{
		Metrics:  results,
		Segments: segments,
		Meta: models.Meta{
			Universe:          u.Key,
			SymbolCount:       len(u.Members),
			Granularity:       p.granularity,
			LookbackBars:      p.lookback,
			CalculationTimeMs: float64(elapsed.Microseconds()) / 1000,
			CalculatedAt:      s.now().UTC(),
		},
	}
	if asOf, ok := table.AsOf(); ok {
		resp.Meta.AsOf = asOf.UTC()
	}

	s.log.Debug().
		Str("universe", u.Key).
		Int("symbols", len(u.Members)).
		Int("rows", table.Rows()).
		Int("off_session", table.Dropped()).
		Int("metrics", len(results)).
		Int("lookback", p.lookback).
		Dur("elapsed", elapsed).
		Msg("breadth computed")

	return resp, nil
}

// tableOptions drops daily and intraday bars stamped outside an exchange
// session. Weekly bars are keyed by week and are taken as stored.
func tableOptions(g models.Granularity) []metrics.TableOption {
	switch g {
	case models.Daily, models.Intraday:
		return []metrics.TableOption{metrics.OnSessions(calendar.IsTradingDay)}
	default:
		return nil
	}
}

func (s *breadthService) validate(req models.Request) (plan, error) {
	var p plan
	if strings.TrimSpace(req.Universe) == "" {
		return p, fmt.Errorf("universe key is required: %w", errs.ErrInvalidInput)
	}

	p.granularity = req.Granularity
	if p.granularity == "" {
		p.granularity = models.Daily
	}
	if _, ok := s.allowed[p.granularity]; !ok {
		return p, fmt.Errorf("unsupported granularity %q: %w", p.granularity, errs.ErrInvalidInput)
	}

	if len(req.Metrics) == 0 && req.Threshold == nil {
		return p, fmt.Errorf("no metrics requested: %w", errs.ErrInvalidInput)
	}
	binary, err := metrics.Resolve(req.Metrics)
	if err != nil {
		return p, err
	}
	p.binary = binary

	all := append([]metrics.Calculator(nil), binary...)
	if t := req.Threshold; t != nil {
		c, ok := metrics.Lookup(t.Metric)
		if !ok {
			return p, fmt.Errorf("unsupported segment metric %q: %w", t.Metric, errs.ErrInvalidInput)
		}
		if err := metrics.ValidateBoundaries(t.Boundaries); err != nil {
			return p, err
		}
		p.histogram = c
		p.boundaries = t.Boundaries
		all = append(all, c)
	}

	p.lookback = min(metrics.MaxLookback(all...), s.opts.MaxLookback)
	return p, nil
}

// fetch calls the fetcher under the configured timeout. Errors that are not
// already classified are reported as errs.ErrDataSourceUnavailable.
func (s *breadthService) fetch(ctx context.Context, symbols []string, p plan) ([]models.PriceBar, error) {
	fctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	bars, err := s.fetcher.FetchWindow(fctx, symbols, p.granularity, p.lookback)
	switch {
	case err == nil:
	case errors.Is(err, errs.ErrNoDataAvailable),
		errors.Is(err, errs.ErrDataSourceUnavailable),
		errors.Is(err, errs.ErrInvalidInput):
		return nil, err
	default:
		return nil, fmt.Errorf("fetch price window: %w: %w", errs.ErrDataSourceUnavailable, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%d symbols: %w", len(symbols), errs.ErrNoDataAvailable)
	}
	return bars, nil
}

// run evaluates every calculator on its own goroutine, bounded by
// Parallelism. Each task writes only its own slot; the result map is built
// after all tasks have finished.
func (s *breadthService) run(ctx context.Context, table *metrics.Table, p plan) (map[string]models.MetricResult, *models.SegmentResult, error) {
	slots := make([]models.MetricResult, len(p.binary))
	var segments *models.SegmentResult

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Parallelism)

	for i, c := range p.binary {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := aggregate.Binary(c.Name(), metrics.Evaluate(c, table))
			if err != nil {
				return err
			}
			slots[i] = r
			return nil
		})
	}
	if p.histogram != nil {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := aggregate.Histogram(p.histogram.Name(), p.histogram.Values(table), p.boundaries)
			if err != nil {
				return err
			}
			segments = &h
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	out := make(map[string]models.MetricResult, len(slots))
	for _, r := range slots {
		out[r.Metric] = r
	}
	return out, segments, nil
}
