// Package errors provides standardized error handling for the matching service.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidProfile ErrorCode = "INVALID_PROFILE"
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"

	ErrCodeRetrievalExhausted ErrorCode = "RETRIEVAL_EXHAUSTED"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeVerificationFailed     ErrorCode = "VERIFICATION_FAILED"
	ErrCodePopularityUpdateFailed ErrorCode = "POPULARITY_UPDATE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// AsStandardError extracts a *StandardError from err, or wraps err as an
// internal error when it is anything else.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// ==========================
// 2. HTTP Integration
// ==========================

// HTTPStatus maps an error code to the status the API surface responds with.
// Only INVALID_PROFILE / INVALID_REQUEST cross the pipeline boundary as hard
// client failures; everything else degrades and, if it ever surfaces, is a 5xx.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidProfile, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeQueryTimeout, ErrCodeSearchTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeDatabaseConnectionFailed, ErrCodeCacheUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ToResponse returns the JSON payload the HTTP layer writes for this error.
func (e *StandardError) ToResponse() map[string]interface{} {
	resp := map[string]interface{}{
		"errorCode": string(e.Code),
		"message":   e.Message,
		"retryable": e.Retryable,
	}
	if e.Details != "" {
		resp["details"] = e.Details
	}
	return resp
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidProfileError creates a non-retryable profile normalization error.
func NewInvalidProfileError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidProfile,
		Message:   "Profile answers could not be normalized",
		Details:   fmt.Sprintf("field: %s, %s", field, details),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request payload failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(strategy string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Scholarship query execution error",
		Details:   fmt.Sprintf("strategy: %s, error: %s", strategy, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(strategy string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Scholarship query timeout",
		Details:   fmt.Sprintf("strategy: %s", strategy),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Search index query error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRetrievalExhaustedError records that every retrieval strategy failed.
// It is logged, never propagated: exhaustion yields an empty candidate set.
func NewRetrievalExhaustedError(attempts int) *StandardError {
	return &StandardError{
		Code:      ErrCodeRetrievalExhausted,
		Message:   "All retrieval strategies failed",
		Details:   fmt.Sprintf("attempts: %d", attempts),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Result cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewVerificationFailedError creates a non-retryable link verification error.
// A failed verification degrades the record, it never removes it.
func NewVerificationFailedError(scholarshipID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVerificationFailed,
		Message:   "Scholarship link verification failed",
		Details:   fmt.Sprintf("scholarshipId: %s, error: %s", scholarshipID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPopularityUpdateFailedError creates a non-retryable popularity side-effect error.
func NewPopularityUpdateFailedError(scholarshipID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePopularityUpdateFailed,
		Message:   "Popularity increment failed",
		Details:   fmt.Sprintf("scholarshipId: %s, error: %s", scholarshipID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
