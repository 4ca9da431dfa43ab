package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/breadthpulse/internal/domain/dto"
	"github.com/guttosm/breadthpulse/internal/logger"
)

// RecoveryMiddleware returns a Gin middleware that recovers from panics, logs
// the stack trace with the request id, and answers 500 with a dto.ErrorResponse.
// The panic value is logged but not sent to the client.
//
// Example:
//
//	router := gin.New()
//	router.Use(middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				rid, _ := c.Get(RequestIDKey)
				logger.L().Error().
					Str("request_id", toString(rid)).
					Str("panic", fmt.Sprintf("%v", r)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponse("internal server error", nil).WithCode("internal"))
			}
		}()

		c.Next()
	}
}
