package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/breadthpulse/internal/domain/dto"
	"github.com/guttosm/breadthpulse/internal/domain/errs"
	"github.com/guttosm/breadthpulse/internal/domain/models"
	"github.com/guttosm/breadthpulse/internal/metrics"
	"github.com/guttosm/breadthpulse/internal/middleware"
	"github.com/guttosm/breadthpulse/internal/service"
)

// DefaultBoundaries are the segment boundaries used when the caller gives none.
const DefaultBoundaries = "-10,-5,0,5,10"

// Handler provides HTTP handlers for the breadth endpoints.
//
// Responsibilities:
//   - Parse query parameters into a models.Request
//   - Delegate to the BreadthService
//   - Translate engine results into response DTOs
//
// Engine errors are attached with c.Error and rendered by middleware.ErrorHandler.
type Handler struct {
	svc service.BreadthService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.BreadthService) *Handler {
	return &Handler{svc: svc}
}

// GetBreadth handles GET /api/v1/breadth requests.
//
// Query Parameters:
//   - universe (string, required): Universe key, possibly composite ("SPY+QQQ").
//   - metrics (string, optional): Comma-separated metric names. Defaults to every binary metric.
//   - granularity (string, optional): daily|weekly|intraday. Defaults to daily.
//
// GetBreadth godoc
// @Summary      Get market breadth
// @Description  Returns up/down/unchanged counts and percent up for each requested metric over a universe
// @Tags         breadth
// @Produce      json
// @Param        universe     query     string  true   "Universe key" example(SPY)
// @Param        metrics      query     string  false  "Comma-separated metric names" example(instant,week,sma50)
// @Param        granularity  query     string  false  "Bar granularity" example(daily)
// @Success      200          {object}  dto.BreadthResponse  "Success"
// @Failure      400          {object}  dto.ErrorResponse    "Bad Request"
// @Failure      404          {object}  dto.ErrorResponse    "Not Found"
// @Failure      503          {object}  dto.ErrorResponse    "Data Source Unavailable"
// @Failure      500          {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/v1/breadth [get]
func (h *Handler) GetBreadth(c *gin.Context) {
	// ─── Validate "universe" param ────────────────────────────
	key := strings.TrimSpace(c.Query("universe"))
	if key == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "universe is required",
			fmt.Errorf("universe: %w", errs.ErrInvalidInput))
		return
	}

	// ─── Parse optional params ────────────────────────────────
	names := SplitList(c.Query("metrics"))
	if len(names) == 0 {
		names = metrics.DefaultNames()
	}
	req := models.Request{
		Universe:    key,
		Metrics:     names,
		Granularity: models.Granularity(strings.ToLower(strings.TrimSpace(c.Query("granularity")))),
	}

	// ─── Compute (with request context) ───────────────────────
	resp, err := h.svc.Compute(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBreadthResponse(resp))
}

// GetSegments handles GET /api/v1/breadth/segments requests.
//
// Query Parameters:
//   - universe (string, required): Universe key.
//   - metric (string, optional): Change metric to bin. Defaults to "instant".
//   - boundaries (string, optional): Comma-separated ascending percentages. Defaults to "-10,-5,0,5,10".
//   - granularity (string, optional): daily|weekly|intraday. Defaults to daily.
//
// GetSegments godoc
// @Summary      Get percentage-change segments
// @Description  Returns how many symbols fall in each percentage-change segment for one metric
// @Tags         breadth
// @Produce      json
// @Param        universe     query     string  true   "Universe key" example(SPY)
// @Param        metric       query     string  false  "Change metric" example(instant)
// @Param        boundaries   query     string  false  "Comma-separated boundaries in percent" example(-10,-5,0,5,10)
// @Param        granularity  query     string  false  "Bar granularity" example(daily)
// @Success      200          {object}  dto.SegmentsResponse  "Success"
// @Failure      400          {object}  dto.ErrorResponse     "Bad Request"
// @Failure      404          {object}  dto.ErrorResponse     "Not Found"
// @Failure      503          {object}  dto.ErrorResponse     "Data Source Unavailable"
// @Failure      500          {object}  dto.ErrorResponse     "Internal Error"
// @Router       /api/v1/breadth/segments [get]
func (h *Handler) GetSegments(c *gin.Context) {
	// ─── Validate "universe" param ────────────────────────────
	key := strings.TrimSpace(c.Query("universe"))
	if key == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "universe is required",
			fmt.Errorf("universe: %w", errs.ErrInvalidInput))
		return
	}

	// ─── Parse "metric" and "boundaries" ──────────────────────
	metric := strings.TrimSpace(c.DefaultQuery("metric", metrics.Instant))
	boundaries, err := ParseBoundaries(c.DefaultQuery("boundaries", DefaultBoundaries))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid boundaries", err)
		return
	}

	req := models.Request{
		Universe:    key,
		Granularity: models.Granularity(strings.ToLower(strings.TrimSpace(c.Query("granularity")))),
		Threshold:   &models.ThresholdRequest{Metric: metric, Boundaries: boundaries},
	}

	// ─── Compute (with request context) ───────────────────────
	resp, err := h.svc.Compute(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if resp.Segments == nil {
		_ = c.Error(fmt.Errorf("segments missing from response: %w", errs.ErrInvariantViolation))
		return
	}

	c.JSON(http.StatusOK, dto.NewSegmentsResponse(resp))
}

// SplitList splits a comma-separated query value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseBoundaries parses comma-separated numbers. Ordering is checked by the engine.
func ParseBoundaries(s string) ([]float64, error) {
	parts := SplitList(s)
	if len(parts) == 0 {
		return nil, fmt.Errorf("boundaries are empty: %w", errs.ErrInvalidInput)
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("boundary %q: %w", p, errs.ErrInvalidInput)
		}
		out[i] = v
	}
	return out, nil
}
