package dto

import "time"

// ErrorResponse is the JSON body of every non-2xx API response.
//
// Code is a stable machine-readable identifier (e.g., "invalid_input",
// "unknown_universe", "no_data"); Message is meant for humans.
type ErrorResponse struct {
	Code         string    `json:"code,omitempty" example:"unknown_universe"`
	Message      string    `json:"message" example:"universe not found"`
	ErrorDetails string    `json:"error,omitempty" example:"universe DIA: unknown universe"`
	Timestamp    time.Time `json:"timestamp" example:"2025-09-19T21:00:00Z"`
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current UTC time.
// err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// WithCode returns a copy of e carrying code.
func (e ErrorResponse) WithCode(code string) ErrorResponse {
	e.Code = code
	return e
}
