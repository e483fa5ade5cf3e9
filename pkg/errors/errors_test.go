package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/zfogg/socialcommerce/cli/pkg/api"
	"github.com/zfogg/socialcommerce/cli/pkg/session"
)

// TestNewCLIError creates and validates a CLI error
func TestNewCLIError(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewCLIError(ErrorTypeValidation, "Test error", cause)

	if err.Type != ErrorTypeValidation {
		t.Errorf("Expected type %s, got %s", ErrorTypeValidation, err.Type)
	}
	if err.Message != "Test error" {
		t.Errorf("Expected message 'Test error', got '%s'", err.Message)
	}
	if !errors.Is(err, cause) {
		t.Error("Cause not unwrapped")
	}
}

// TestWithSuggestion adds suggestion to error
func TestWithSuggestion(t *testing.T) {
	err := NewCLIError(ErrorTypeValidation, "Test", nil)
	if err.HasSuggestion() {
		t.Error("New error should have no suggestion")
	}

	result := err.WithSuggestion("Try something else")
	if !result.HasSuggestion() || result.Suggestion != "Try something else" {
		t.Errorf("Suggestion not set: %q", result.Suggestion)
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   ErrorType
		status int
	}{
		{"expired session", fmt.Errorf("load cart: %w", &api.APIError{StatusCode: 401, Message: "Unauthorized"}), ErrorTypeSessionExpired, 0},
		{"bare expired", session.ErrExpired, ErrorTypeSessionExpired, 0},
		{"not logged in", session.ErrNotLoggedIn, ErrorTypeAuth, 0},
		{"deadline", context.DeadlineExceeded, ErrorTypeTimeout, 0},
		{"forbidden", &api.APIError{StatusCode: 403, Message: "nope"}, ErrorTypeForbidden, 403},
		{"not found", &api.APIError{StatusCode: 404, Message: "Post not found"}, ErrorTypeNotFound, 404},
		{"conflict", &api.APIError{StatusCode: 409, Message: "exists"}, ErrorTypeConflict, 409},
		{"rate limit", &api.APIError{StatusCode: 429, Message: "slow"}, ErrorTypeRateLimit, 429},
		{"bad request", &api.APIError{StatusCode: 400, Message: "amount must be positive"}, ErrorTypeValidation, 400},
		{"server", &api.APIError{StatusCode: 502, Message: "Bad Gateway"}, ErrorTypeServer, 502},
		{"refused", errors.New("dial tcp 127.0.0.1:8080: connect: connection refused"), ErrorTypeNetwork, 0},
		{"unknown", errors.New("something odd"), ErrorTypeUnknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategorizeError(tt.err)
			if got.Type != tt.want {
				t.Errorf("Type = %s, want %s", got.Type, tt.want)
			}
			if got.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", got.StatusCode, tt.status)
			}
			if !errors.Is(got, tt.err) {
				t.Error("categorized error should wrap the original")
			}
		})
	}
}

func TestCategorizeErrorKeepsCLIError(t *testing.T) {
	orig := CheckoutError("Cart is empty")
	if got := CategorizeError(fmt.Errorf("checkout: %w", orig)); got != orig {
		t.Error("existing CLIError should be returned as-is")
	}
	if CategorizeError(nil) != nil {
		t.Error("nil should categorize to nil")
	}
}

func TestFormatError(t *testing.T) {
	out := FormatError(&api.APIError{StatusCode: 401, Message: "Unauthorized"})
	if !strings.HasPrefix(out, "Error (session_expired): Your session has expired") {
		t.Errorf("unexpected format: %q", out)
	}
	if !strings.Contains(out, "auth login") {
		t.Errorf("expected login suggestion: %q", out)
	}

	out = FormatError(errors.New("boom"))
	if out != "Error: boom\n" {
		t.Errorf("unexpected format: %q", out)
	}
	if FormatError(nil) != "" {
		t.Error("nil should format to empty string")
	}
}

func TestConstructors(t *testing.T) {
	if e := ValidationError("amount", "must be positive"); !strings.Contains(e.Message, "amount - must be positive") {
		t.Errorf("ValidationError message: %q", e.Message)
	}
	if e := FileNotFoundError("/tmp/x.png"); e.Type != ErrorTypeFileNotFound || !e.HasSuggestion() {
		t.Errorf("FileNotFoundError: %+v", e)
	}
	if e := NotFoundError("Order", "7"); e.Message != "Order not found: 7" {
		t.Errorf("NotFoundError message: %q", e.Message)
	}
	if e := ServerError(""); e.Message != "Server error" {
		t.Errorf("ServerError default message: %q", e.Message)
	}
}
