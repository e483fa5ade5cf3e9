package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/zfogg/socialcommerce/cli/pkg/api"
	"github.com/zfogg/socialcommerce/cli/pkg/session"
)

// ErrorType categorizes different error types
type ErrorType string

const (
	// Network errors
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeTimeout ErrorType = "timeout"

	// Authentication errors
	ErrorTypeAuth           ErrorType = "auth"
	ErrorTypeForbidden      ErrorType = "forbidden"
	ErrorTypeSessionExpired ErrorType = "session_expired"

	// Validation errors
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeFileNotFound ErrorType = "file_not_found"

	// Server errors
	ErrorTypeServer    ErrorType = "server"
	ErrorTypeNotFound  ErrorType = "not_found"
	ErrorTypeConflict  ErrorType = "conflict"
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// Checkout errors
	ErrorTypeCheckout ErrorType = "checkout"

	ErrorTypeUnknown ErrorType = "unknown"
)

// CLIError represents a structured error with context
type CLIError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
	StatusCode int
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// WithSuggestion adds a helpful suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *CLIError) HasSuggestion() bool {
	return e.Suggestion != ""
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewCLIError creates a new CLI error
func NewCLIError(errorType ErrorType, message string, cause error) *CLIError {
	return &CLIError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NetworkError creates a network error
func NetworkError(message string) *CLIError {
	err := NewCLIError(ErrorTypeNetwork, message, nil)
	err.Suggestion = "Check your internet connection and api.base_url, then try again."
	return err
}

// TimeoutError creates a timeout error
func TimeoutError() *CLIError {
	err := NewCLIError(ErrorTypeTimeout, "Request timed out", nil)
	err.Suggestion = "The server is taking too long to respond. Try again in a moment."
	return err
}

// NotLoggedInError is returned for commands that need a session
func NotLoggedInError() *CLIError {
	err := NewCLIError(ErrorTypeAuth, "You are not logged in", session.ErrNotLoggedIn)
	err.Suggestion = "Run 'socialcommerce-cli auth login' to sign in."
	return err
}

// SessionExpiredError creates a session expired error
func SessionExpiredError() *CLIError {
	err := NewCLIError(ErrorTypeSessionExpired, "Your session has expired", session.ErrExpired)
	err.Suggestion = "Run 'socialcommerce-cli auth login' to sign in again."
	return err
}

// ForbiddenError creates a forbidden error
func ForbiddenError() *CLIError {
	err := NewCLIError(ErrorTypeForbidden, "Access denied", nil)
	err.Suggestion = "You can only change resources that belong to your account."
	return err
}

// ValidationError creates a validation error
func ValidationError(field, reason string) *CLIError {
	message := fmt.Sprintf("Validation error: %s - %s", field, reason)
	return NewCLIError(ErrorTypeValidation, message, nil)
}

// FileNotFoundError creates a file not found error
func FileNotFoundError(path string) *CLIError {
	err := NewCLIError(ErrorTypeFileNotFound, fmt.Sprintf("File not found: %s", path), nil)
	err.Suggestion = "Check the file path and try again."
	return err
}

// ServerError creates a server error
func ServerError(message string) *CLIError {
	if message == "" {
		message = "Server error"
	}
	err := NewCLIError(ErrorTypeServer, message, nil)
	err.Suggestion = "The server encountered an error. Try again in a few moments."
	return err
}

// NotFoundError creates a not found error
func NotFoundError(resourceType, identifier string) *CLIError {
	return NewCLIError(ErrorTypeNotFound,
		fmt.Sprintf("%s not found: %s", resourceType, identifier),
		nil)
}

// CheckoutError is returned when the backend gives no checkout URL
func CheckoutError(message string) *CLIError {
	err := NewCLIError(ErrorTypeCheckout, message, nil)
	err.Suggestion = "Run 'socialcommerce-cli cart show' to check your cart, then retry."
	return err
}

// CategorizeError converts a standard error into a CLIError
func CategorizeError(err error) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	switch {
	case errors.Is(err, session.ErrExpired):
		return wrap(SessionExpiredError(), err)
	case errors.Is(err, session.ErrNotLoggedIn):
		return wrap(NotLoggedInError(), err)
	case errors.Is(err, context.DeadlineExceeded):
		return wrap(TimeoutError(), err)
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return categorizeStatus(apiErr, err)
	}

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "connection refused"), strings.Contains(errMsg, "no such host"):
		return wrap(NetworkError("Could not connect to the server."), err)
	case strings.Contains(errMsg, "timeout"):
		return wrap(TimeoutError(), err)
	default:
		return NewCLIError(ErrorTypeUnknown, errMsg, err)
	}
}

func categorizeStatus(apiErr *api.APIError, cause error) *CLIError {
	var out *CLIError
	switch code := apiErr.StatusCode; {
	case code == http.StatusForbidden:
		out = ForbiddenError()
	case code == http.StatusNotFound:
		out = NewCLIError(ErrorTypeNotFound, apiErr.Message, nil)
	case code == http.StatusConflict:
		out = NewCLIError(ErrorTypeConflict, apiErr.Message, nil)
	case code == http.StatusTooManyRequests:
		out = NewCLIError(ErrorTypeRateLimit, "Rate limit exceeded. Too many requests.", nil).
			WithSuggestion("Wait a minute before trying again.")
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		out = NewCLIError(ErrorTypeValidation, apiErr.Message, nil)
	case code >= 500:
		out = ServerError(apiErr.Message)
	default:
		out = NewCLIError(ErrorTypeUnknown, apiErr.Message, nil)
	}
	out.StatusCode = apiErr.StatusCode
	return wrap(out, cause)
}

func wrap(e *CLIError, cause error) *CLIError {
	e.Cause = cause
	return e
}

// FormatError returns a user-friendly error message
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	cliErr := CategorizeError(err)
	var sb strings.Builder

	sb.WriteString("Error")
	if cliErr.Type != ErrorTypeUnknown {
		sb.WriteString(" (")
		sb.WriteString(string(cliErr.Type))
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(cliErr.Message)
	sb.WriteString("\n")

	if cliErr.HasSuggestion() {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(cliErr.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}
