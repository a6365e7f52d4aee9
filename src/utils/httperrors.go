package utils

import (
	"errors"
	"net/http"
)

// HTTPError defines a custom error structure that includes an HTTP status code and message
type HTTPError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Implement the Error() method to satisfy the error interface
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new HTTPError instance with a custom status code and message
func NewHTTPError(code int, message string) error {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// WrapHTTPError keeps cause for logging while the client only sees message.
func WrapHTTPError(code int, message string, cause error) error {
	return &HTTPError{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// NotFound creates a 404 Not Found error
func NotFound(message string) error {
	return NewHTTPError(http.StatusNotFound, message)
}

// InternalServerError creates a 500 Internal Server Error
func InternalServerError(message string, cause error) error {
	return WrapHTTPError(http.StatusInternalServerError, message, cause)
}

// GatewayTimeout creates a 504 Gateway Timeout error
func GatewayTimeout(message string) error {
	return NewHTTPError(http.StatusGatewayTimeout, message)
}

// WriteError sends the error as a plain-text body.
func WriteError(w http.ResponseWriter, err error) {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = &HTTPError{
			Code:    http.StatusInternalServerError,
			Message: "Internal Server Error",
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(httpErr.Code)
	_, _ = w.Write([]byte(httpErr.Message))
}
