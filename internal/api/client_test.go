package api

import (
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"
)

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com", "test-key")

		if c.baseURL != "https://api.example.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://api.example.com")
		}
		if c.apiKey != "test-key" {
			t.Errorf("apiKey = %q, want %q", c.apiKey, "test-key")
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.limiter != nil {
			t.Error("limiter should be nil unless injected")
		}
		if c.breaker != nil {
			t.Error("breaker should be nil unless enabled")
		}
	})

	t.Run("with timeout option", func(t *testing.T) {
		c := NewClient("https://api.example.com", "", WithTimeout(5*time.Second))
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 5*time.Second)
		}
	})

	t.Run("with retries option", func(t *testing.T) {
		c := NewClient("https://api.example.com", "", WithRetries(5, 2*time.Second))
		if c.maxRetries != 5 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 5)
		}
		if c.retryBackoff != 2*time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, 2*time.Second)
		}
	})

	t.Run("with logger option", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		c := NewClient("https://api.example.com", "", WithLogger(logger))
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://api.example.com", "", WithHTTPClient(customClient))
		if c.httpClient != customClient {
			t.Error("custom HTTP client not set")
		}
	})

	t.Run("with rate limiter", func(t *testing.T) {
		l := NewIntervalLimiter(12*time.Second, 1)
		c := NewClient("https://api.example.com", "", WithRateLimiter(l))
		if c.limiter != l {
			t.Error("limiter not set")
		}
	})

	t.Run("with breaker", func(t *testing.T) {
		c := NewClient("https://api.example.com", "", WithBreaker("polygon"))
		if c.breaker == nil {
			t.Error("breaker not installed")
		}
	})
}

func TestNewIntervalLimiter(t *testing.T) {
	t.Run("burst floor", func(t *testing.T) {
		l := NewIntervalLimiter(time.Second, 0)
		if l.Burst() != 1 {
			t.Errorf("Burst() = %d, want 1", l.Burst())
		}
	})

	t.Run("first call immediate, second delayed", func(t *testing.T) {
		l := NewIntervalLimiter(100*time.Millisecond, 1)
		if !l.Allow() {
			t.Fatal("first call should be allowed immediately")
		}
		if l.Allow() {
			t.Error("second immediate call should be rate limited")
		}
	})
}

// TestAPIError tests the APIError type.
func TestAPIError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Message: "Not Found"}
		expected := "polygon api error 404: Not Found"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("retryability", func(t *testing.T) {
		tests := []struct {
			code      int
			retryable bool
		}{
			{429, true},
			{500, true},
			{502, true},
			{503, true},
			{400, false},
			{401, false},
			{403, false},
			{404, false},
		}
		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			if got := err.IsRetryable(); got != tt.retryable {
				t.Errorf("IsRetryable() for %d = %v, want %v", tt.code, got, tt.retryable)
			}
		}
	})

	t.Run("rate limited only for 429", func(t *testing.T) {
		if !(&APIError{StatusCode: 429}).IsRateLimited() {
			t.Error("429 should report rate limited")
		}
		if (&APIError{StatusCode: 503}).IsRateLimited() {
			t.Error("503 should not report rate limited")
		}
	})
}
