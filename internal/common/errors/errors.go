// Package errors provides standardized error handling for the chat service.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	ErrCodePresetFetchFailed    ErrorCode = "PRESET_FETCH_FAILED"
	ErrCodeIntentNotMatched     ErrorCode = "INTENT_NOT_MATCHED"
	ErrCodeUnknownReport        ErrorCode = "UNKNOWN_REPORT"
	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout         ErrorCode = "QUERY_TIMEOUT"

	ErrCodeDocumentRenderFailed ErrorCode = "DOCUMENT_RENDER_FAILED"

	ErrCodeAuthTokenInvalid ErrorCode = "AUTH_TOKEN_INVALID"
	ErrCodeAuthForbidden    ErrorCode = "AUTH_FORBIDDEN"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// --- Constructors ---

// NewInvalidRequestError marks a malformed inbound request.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request payload",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewPresetFetchError wraps a data-layer failure while loading presets.
func NewPresetFetchError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePresetFetchFailed,
		Message:   "Failed to load chat presets",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownReportError marks a preset referencing a report that is not in
// the registry.
func NewUnknownReportError(report string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownReport,
		Message:   "Preset references an unknown report",
		Details:   report,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionError wraps a report query failure.
func NewQueryExecutionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Report query failed",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentRenderError wraps a failure of the external PDF service.
func NewDocumentRenderError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentRenderFailed,
		Message:   "Document generation failed",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}
