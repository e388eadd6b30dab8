// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them rather
// than on the human-readable "error" text. Every error response carries one.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "not_found",
//	  "error": "History item not found"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodePayloadTooLarge  = "payload_too_large"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeNotConfigured    = "not_configured"
	ErrCodeStoreUnavailable = "store_unavailable"
	ErrCodeUpstream         = "upstream_error"
	ErrCodePredictFailed    = "prediction_failed"
)
