package main

//
//  @title           breadthpulse API
//  @version         1.0
//  @description     Cross-sectional market breadth over equity universes.
//  @termsOfService  https://github.com/guttosm/breadthpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/breadthpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        breadth
//  @tag.description Breadth summaries and percentage-change segments
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/guttosm/breadthpulse/config"
	_ "github.com/guttosm/breadthpulse/docs" // swagger docs
	"github.com/guttosm/breadthpulse/internal/api"
	"github.com/guttosm/breadthpulse/internal/app"
	"github.com/guttosm/breadthpulse/internal/domain/dto"
	"github.com/guttosm/breadthpulse/internal/domain/models"
	"github.com/guttosm/breadthpulse/internal/logger"
	"github.com/guttosm/breadthpulse/internal/metrics"
	"github.com/guttosm/breadthpulse/internal/service"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// computeArgs are the compute-mode flags.
type computeArgs struct {
	universe    string
	metrics     string
	granularity string
	segment     string
	boundaries  string
	timeout     time.Duration
}

// request turns the flags into an engine request. Setting segment asks for a
// histogram instead of binary metrics.
func (a computeArgs) request() (models.Request, error) {
	req := models.Request{
		Universe:    strings.TrimSpace(a.universe),
		Granularity: models.Granularity(strings.ToLower(strings.TrimSpace(a.granularity))),
	}
	if strings.TrimSpace(a.segment) != "" {
		b, err := api.ParseBoundaries(a.boundaries)
		if err != nil {
			return req, err
		}
		req.Threshold = &models.ThresholdRequest{Metric: strings.TrimSpace(a.segment), Boundaries: b}
		return req, nil
	}
	req.Metrics = api.SplitList(a.metrics)
	if len(req.Metrics) == 0 {
		req.Metrics = metrics.DefaultNames()
	}
	return req, nil
}

// runCompute performs one breadth computation and writes the JSON response to out.
func runCompute(ctx context.Context, svc service.BreadthService, args computeArgs, out io.Writer) error {
	req, err := args.request()
	if err != nil {
		return err
	}
	if args.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, args.timeout)
		defer cancel()
	}

	resp, err := svc.Compute(ctx, req)
	if err != nil {
		return err
	}

	var body any = dto.NewBreadthResponse(resp)
	if req.Threshold != nil {
		body = dto.NewSegmentsResponse(resp)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(body); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// main is the entry point of the breadthpulse application.
//
// Modes (selected via --mode flag):
//   - api:     Starts the REST API (default).
//   - compute: Computes breadth once for --universe and prints JSON to stdout.
//
// Flags:
//   - --mode: Execution mode ("api" or "compute").
//   - --port: Port for the API server. Defaults to SERVER_PORT.
//   - --universe, --metrics, --granularity: compute-mode request.
//   - --segment, --boundaries: compute a percentage-change histogram instead.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "api", "Mode: api or compute")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	var args computeArgs
	flag.StringVar(&args.universe, "universe", "", "Universe key for compute mode (e.g. SPY or SPY+QQQ)")
	flag.StringVar(&args.metrics, "metrics", "", "Comma-separated metrics (default: every binary metric)")
	flag.StringVar(&args.granularity, "granularity", "daily", "Bar granularity: daily, weekly or intraday")
	flag.StringVar(&args.segment, "segment", "", "Change metric to bin into segments")
	flag.StringVar(&args.boundaries, "boundaries", api.DefaultBoundaries, "Segment boundaries in percent")
	flag.DurationVar(&args.timeout, "timeout", 30*time.Second, "Overall deadline for compute mode")
	flag.Parse()

	switch *mode {
	case "compute":
		svc, cleanup, err := app.InitializeService()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		err = runCompute(ctx, svc, args, os.Stdout)
		cleanup()
		if err != nil {
			logger.L().Fatal().Err(err).Str("universe", args.universe).Msg("compute failed")
		}

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
