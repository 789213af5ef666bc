// internal/common/errors/http.go
package errors

import (
	"encoding/json"
	"net/http"
)

// statusFor maps error codes to HTTP status codes. Data-layer and document
// failures are absorbed into chat replies and never reach this table; only
// request and auth errors surface as HTTP failures.
func statusFor(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeAuthTokenInvalid:
		return http.StatusUnauthorized
	case ErrCodeAuthForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// WriteHTTP writes err as a JSON {error} body with the mapped status.
func WriteHTTP(w http.ResponseWriter, err error) {
	code := ErrCodeInternal
	message := err.Error()
	if stdErr, ok := err.(*StandardError); ok {
		code = stdErr.Code
		if stdErr.Details != "" {
			message = stdErr.Details
		} else {
			message = stdErr.Message
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(code))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
