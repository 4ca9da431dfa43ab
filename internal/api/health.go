package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler provides liveness and readiness endpoints for the service.
//
// Responsibilities:
//   - /healthz: Basic liveness probe (always returns 200 OK).
//   - /readyz: Readiness probe (depends on Postgres and, when enabled, Redis).
type HealthHandler struct {
	dbPing    func() error // Function to check database connectivity
	redisPing func() error // nil when Redis is disabled
}

// NewHealthHandler constructs a HealthHandler with the provided probe functions.
//
// Parameters:
//   - dbPing (func() error): Checks that Postgres is reachable, typically db.Ping.
//   - redisPing (func() error): Checks that Redis is reachable; nil skips the check.
func NewHealthHandler(dbPing, redisPing func() error) *HealthHandler {
	return &HealthHandler{dbPing: dbPing, redisPing: redisPing}
}

// Register mounts the health and readiness endpoints into the provided Gin router.
//
// Routes:
//   - GET /healthz: Always returns 200 OK.
//   - GET /readyz: Returns 200 OK if every probe succeeds, 503 naming the
//     failing dependency otherwise.
func (h *HealthHandler) Register(r *gin.Engine) {
	// Liveness probe (just checks if the service is up)
	// @Summary      Liveness probe
	// @Description  Always returns OK if the service is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness probe (checks Postgres and Redis)
	// @Summary      Readiness probe
	// @Description  Returns ready if the service dependencies (Postgres, Redis) are reachable
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Failure      503  {object}  map[string]string
	// @Router       /readyz [get]
	r.GET("/readyz", func(c *gin.Context) {
		if h.dbPing != nil && h.dbPing() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "dependency": "postgres"})
			return
		}
		if h.redisPing != nil && h.redisPing() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "dependency": "redis"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}
