package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
	"github.com/zfogg/socialcommerce/cli/pkg/session"
)

// APIError represents an API error response
type APIError struct {
	Code       string
	Message    string
	StatusCode int
	Details    map[string]interface{}
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
}

// Unwrap lets errors.Is(err, session.ErrExpired) match a 401
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return session.ErrExpired
	}
	return nil
}

// ParseError parses an error response from the API
func ParseError(resp *resty.Response) error {
	statusCode := resp.StatusCode()

	var errResp ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errResp); err == nil {
		msg := errResp.Message
		if msg == "" {
			msg = errResp.Error
		}
		if msg != "" || errResp.Code != "" {
			return &APIError{
				Code:       errResp.Code,
				Message:    msg,
				StatusCode: statusCode,
				Details:    errResp.Details,
			}
		}
	}

	// Fallback to the status text
	msg := http.StatusText(statusCode)
	if msg == "" {
		msg = "network response was not ok"
	}
	return &APIError{
		Message:    msg,
		StatusCode: statusCode,
	}
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized checks if error is due to missing/invalid authentication
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsForbidden checks if error is due to insufficient permissions
func IsForbidden(err error) bool {
	return statusOf(err) == http.StatusForbidden
}

// IsNotFound checks if error is due to resource not found
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsServerError checks if error is due to server error (5xx)
func IsServerError(err error) bool {
	return statusOf(err) >= 500
}

// CheckResponse checks if response is successful and returns error if not
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}

	if !resp.IsSuccess() {
		return ParseError(resp)
	}

	return nil
}
