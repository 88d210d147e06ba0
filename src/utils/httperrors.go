package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// HTTPError defines a custom error structure that includes an HTTP status code and message
type HTTPError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Implement the Error() method to satisfy the error interface
func (e *HTTPError) Error() string {
	return e.Message
}

// New creates a new HTTPError instance with a custom status code and message
func NewHTTPError(code int, message string) error {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// BadRequest creates a 400 Bad Request error
func BadRequest(message string) error {
	return NewHTTPError(http.StatusBadRequest, message)
}

// Unauthorized creates a 401 Unauthorized error
func Unauthorized(message string) error {
	return NewHTTPError(http.StatusUnauthorized, message)
}

// NotFound creates a 404 Not Found error
func NotFound(message string) error {
	return NewHTTPError(http.StatusNotFound, message)
}

// InternalServerError creates a 500 Internal Server Error
func InternalServerError(message string) error {
	return NewHTTPError(http.StatusInternalServerError, message)
}

// ToHTTPError maps an error category to the status and envelope sent to clients.
// fallback is the message used for repository and data source failures.
func ToHTTPError(err error, fallback string) *HTTPError {
	var httpErr *HTTPError
	var validationErr *ValidationError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.As(err, &validationErr):
		return &HTTPError{Code: http.StatusBadRequest, Message: validationErr.Message}
	case errors.Is(err, ErrAuthentication), errors.Is(err, ErrKeyResolution):
		return &HTTPError{Code: http.StatusUnauthorized, Message: "Unauthorized: Invalid token"}
	case errors.Is(err, ErrNotFound):
		return &HTTPError{Code: http.StatusNotFound, Message: "Holding not found"}
	case errors.Is(err, ErrRepository):
		return &HTTPError{Code: http.StatusInternalServerError, Message: "Database error", Details: err.Error()}
	case errors.Is(err, ErrDataSource):
		return &HTTPError{Code: http.StatusInternalServerError, Message: fallback, Details: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return &HTTPError{Code: http.StatusGatewayTimeout, Message: "Request timed out"}
	default:
		return &HTTPError{Code: http.StatusInternalServerError, Message: "Internal Server Error"}
	}
}

// WriteError is a helper function to send the error response as JSON
func WriteError(w http.ResponseWriter, err error) {
	httpErr, ok := err.(*HTTPError)
	if !ok {
		httpErr = ToHTTPError(err, "Internal Server Error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.Code)
	_ = json.NewEncoder(w).Encode(httpErr)
}
