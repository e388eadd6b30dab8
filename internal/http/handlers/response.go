// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response helpers shared by all endpoints. Every
// failure is written through fail()/failDetails() as an ErrorResponse so the
// envelope stays uniform, and 5xx responses are logged with the
// request-scoped logger.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/spamzero-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message
	Error string `json:"error" example:"History item not found"`
	// Upstream HTTP status, set for upstream_error only
	Status int `json:"status,omitempty" example:"503"`
	// Underlying cause: driver error text or the upstream response body
	Details any `json:"details,omitempty" swaggertype:"object"`
}

// fail aborts the request with a structured error.
func fail(c *gin.Context, status int, code, msg string) {
	failDetails(c, status, code, msg, 0, nil)
}

// failDetails is fail with the optional upstream status and details fields.
// Server errors (>=500) are logged using the request-scoped logger.
func failDetails(c *gin.Context, status int, code, msg string, upstreamStatus int, details any) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Error:     msg,
		Status:    upstreamStatus,
		Details:   details,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		ev := lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg)
		if s, ok := details.(string); ok {
			ev = ev.Str("details", s)
		}
		ev.Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for router-level handlers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// errBodyTooLarge is returned by readJSON when the body limit was hit.
var errBodyTooLarge = errors.New("request body too large")

// readJSON reads the whole request body and decodes it as a single JSON
// value. Numbers are kept as json.Number so integers round-trip unchanged.
// An empty body is an error.
func readJSON(c *gin.Context) (json.RawMessage, any, error) {
	if c.Request.Body == nil {
		return nil, nil, io.ErrUnexpectedEOF
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, nil, errBodyTooLarge
		}
		return nil, nil, err
	}
	v, err := decodeJSON(raw)
	if err != nil {
		return nil, nil, err
	}
	return raw, v, nil
}

func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// Reject trailing data after the first value.
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}
