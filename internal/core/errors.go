// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// NoDataMessage is shown to users when a symbol/period lookup yields nothing.
const NoDataMessage = "Could not retrieve data for the stock symbol provided. Please check the symbol and try again."

// Predefined errors
var (
	// Data errors
	ErrInvalidSymbol       = &Error{Code: "INVALID_SYMBOL", Message: "invalid symbol"}
	ErrNoData              = &Error{Code: "NO_DATA", Message: NoDataMessage}
	ErrPartialFundamentals = &Error{Code: "PARTIAL_FUNDAMENTALS", Message: "fundamentals incomplete"}

	// Request errors
	ErrInvalidRequest = &Error{Code: "INVALID_REQUEST", Message: "invalid request"}
	ErrUnauthorized   = &Error{Code: "UNAUTHORIZED", Message: "missing or invalid API key"}

	// Collector errors
	ErrCollectorFailed      = &Error{Code: "COLLECTOR_FAILED", Message: "collector failed"}
	ErrCollectorUnavailable = &Error{Code: "COLLECTOR_UNAVAILABLE", Message: "no collector available"}

	// Chart errors
	ErrChartFailed = &Error{Code: "CHART_FAILED", Message: "chart rendering failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// LLM errors
	ErrLLMFailed      = &Error{Code: "LLM_FAILED", Message: "LLM request failed"}
	ErrLLMUnavailable = &Error{Code: "LLM_UNAVAILABLE", Message: "no LLM provider configured"}
)
