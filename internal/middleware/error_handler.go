package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/breadthpulse/internal/domain/dto"
	"github.com/guttosm/breadthpulse/internal/domain/errs"
)

// StatusFor maps an engine error to its HTTP status.
//
//   - invalid input: 400
//   - unknown universe, no data: 404
//   - data source unavailable: 503
//   - invariant violations and anything else: 500
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnknownUniverse), errors.Is(err, errs.ErrNoDataAvailable):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrDataSourceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// messages are the client-facing summaries per error code.
var messages = map[string]string{
	"invalid_input":           "invalid request",
	"unknown_universe":        "universe not found",
	"no_data":                 "no price data available",
	"data_source_unavailable": "price data source unavailable",
	"invariant_violation":     "internal calculation error",
	"internal":                "internal server error",
}

// ErrorHandler renders the last error attached with c.Error when the handler
// did not write a response itself.
//
// Behavior:
//   - Status comes from StatusFor; the body is a dto.ErrorResponse with a stable code.
//   - Details are exposed only for caller and transient errors (errs.KindOf).
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	err := c.Errors.Last().Err
	status := StatusFor(err)
	code := errs.Code(err)

	var details error
	if errs.KindOf(err) != errs.KindInternal {
		details = err
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(messages[code], details).WithCode(code))
}

// AbortWithError stops the chain and writes a dto.ErrorResponse with status.
// The error code is derived from err when it is not nil.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	resp := dto.NewErrorResponse(message, err)
	if err != nil {
		resp = resp.WithCode(errs.Code(err))
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, resp)
}
