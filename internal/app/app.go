package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/guttosm/breadthpulse/config"
	"github.com/guttosm/breadthpulse/internal/api"
	"github.com/guttosm/breadthpulse/internal/cache"
	"github.com/guttosm/breadthpulse/internal/domain/models"
	"github.com/guttosm/breadthpulse/internal/logger"
	"github.com/guttosm/breadthpulse/internal/service"
	"github.com/guttosm/breadthpulse/internal/storage"
	"github.com/guttosm/breadthpulse/internal/universe"
)

// components are the long-lived dependencies shared by the HTTP and CLI modes.
type components struct {
	db      *sql.DB
	rdb     *redis.Client
	breadth service.BreadthService
}

func (c *components) close() {
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	if c.db != nil {
		_ = c.db.Close()
	}
}

// build wires storage, cache, universe resolution and the breadth service.
func build(cfg config.Config) (*components, error) {
	grans, err := granularities(cfg.Breadth.Granularities)
	if err != nil {
		return nil, err
	}

	// Connect to PostgreSQL
	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	c := &components{db: db}

	rdb, err := redisConnector(cfg)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	c.rdb = rdb

	// Universe sources: static file first, then Postgres
	var chain universe.Chain
	if path := cfg.Breadth.UniverseFile; path != "" {
		static, err := universe.LoadStatic(path)
		if err != nil {
			c.close()
			return nil, err
		}
		logger.L().Info().Str("file", path).Int("universes", static.Len()).Msg("static universes loaded")
		chain = append(chain, static)
	}
	chain = append(chain, storage.NewUniverseRepository(db))

	var cmd redis.Cmdable
	if rdb != nil {
		cmd = rdb
	}
	members := cache.NewCachingMemberSource(cmd, cfg.Redis.TTL, chain, "")

	// Initialize service layer (business logic)
	c.breadth = service.NewBreadthService(
		universe.NewService(members),
		storage.NewPriceRepository(db, cfg.Breadth.MaxLookback),
		service.Options{
			FetchTimeout:  cfg.Breadth.FetchTimeout,
			MaxLookback:   cfg.Breadth.MaxLookback,
			Parallelism:   cfg.Breadth.Parallelism,
			Granularities: grans,
		},
	)
	return c, nil
}

func granularities(names []string) ([]models.Granularity, error) {
	out := make([]models.Granularity, 0, len(names))
	for _, n := range names {
		g, ok := models.ParseGranularity(n)
		if !ok {
			return nil, fmt.Errorf("unknown granularity %q in configuration", n)
		}
		out = append(out, g)
	}
	return out, nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL and, when enabled, Redis.
//   - Builds the universe resolver (static file, Postgres, cache) and the BreadthService.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	c, err := build(cfg)
	if err != nil {
		return nil, nil, err
	}

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(c.breadth)

	// Setup Gin router with routes
	router := api.NewRouter(handler, api.RouterOptions{
		RateRPS:        cfg.RateLimit.RPS,
		RateBurst:      cfg.RateLimit.Burst,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	// Register health and readiness probes
	var redisPing func() error
	if c.rdb != nil {
		rdb := c.rdb
		redisPing = func() error { return rdb.Ping(context.Background()).Err() }
	}
	api.NewHealthHandler(c.db.Ping, redisPing).Register(router)

	return router, c.close, nil
}

// InitializeService builds the BreadthService without the HTTP layer, for
// one-shot CLI runs.
func InitializeService() (service.BreadthService, func(), error) {
	c, err := build(config.AppConfig)
	if err != nil {
		return nil, nil, err
	}
	return c.breadth, c.close, nil
}

// redisConnector is an indirection used by build; overridden in tests.
var redisConnector = InitRedis
