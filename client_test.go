package bugghost

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bugghost-client/apperrors"
)

func TestNewClient(t *testing.T) {
	client := NewClient()

	if client.baseURL != DefaultBaseURL {
		t.Errorf("expected baseURL %s, got %s", DefaultBaseURL, client.baseURL)
	}

	if client.timeout != 0 {
		t.Errorf("expected no client-side timeout, got %v", client.timeout)
	}

	if client.httpClient == nil {
		t.Error("expected httpClient to be initialized")
	}

	if client.headers == nil {
		t.Error("expected headers map to be initialized")
	}

	if client.retryConfig == nil || client.retryConfig.MaxRetries != 0 {
		t.Error("expected retries to be disabled by default")
	}

	if client.Sessions == nil || client.Runs == nil || client.Sandbox == nil || client.Auth == nil || client.Teams == nil {
		t.Error("expected all services to be initialized")
	}
}

func TestClientOptions(t *testing.T) {
	customURL := "https://bugghost.example.com"
	customTimeout := 60 * time.Second

	client := NewClient(
		WithBaseURL(customURL),
		WithTimeout(customTimeout),
		WithHeader("X-Custom-Header", "value"),
	)

	if client.GetBaseURL() != customURL {
		t.Errorf("expected baseURL %s, got %s", customURL, client.GetBaseURL())
	}

	if client.GetTimeout() != customTimeout {
		t.Errorf("expected timeout %v, got %v", customTimeout, client.GetTimeout())
	}

	if val, ok := client.headers["X-Custom-Header"]; !ok || val != "value" {
		t.Errorf("expected header X-Custom-Header with value 'value', got %v, %v", val, ok)
	}
}

func TestWithHeaders(t *testing.T) {
	headers := map[string]string{
		"X-Header-1": "value1",
		"X-Header-2": "value2",
	}

	client := NewClient(WithHeaders(headers))

	for k, v := range headers {
		if val, ok := client.headers[k]; !ok || val != v {
			t.Errorf("expected header %s with value %s, got %v, %v", k, v, val, ok)
		}
	}
}

func TestNewRequest(t *testing.T) {
	client := NewClient(
		WithHeader("X-Custom-Header", "custom-value"),
	)

	req, err := client.NewRequest(context.Background(), "GET", "/api/debug-sessions", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if req.Method != "GET" {
		t.Errorf("expected method GET, got %s", req.Method)
	}

	expectedURL := "http://localhost:8000/api/debug-sessions"
	if req.URL.String() != expectedURL {
		t.Errorf("expected URL %s, got %s", expectedURL, req.URL.String())
	}

	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", req.Header.Get("Content-Type"))
	}

	if req.Header.Get("Accept") != "application/json" {
		t.Errorf("expected Accept application/json, got %s", req.Header.Get("Accept"))
	}

	if req.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID to be set")
	}

	if req.Header.Get("X-Custom-Header") != "custom-value" {
		t.Errorf("expected X-Custom-Header custom-value, got %s", req.Header.Get("X-Custom-Header"))
	}

	other, _ := client.NewRequest(context.Background(), "GET", "/api/debug-sessions", nil)
	if other.Header.Get("X-Request-ID") == req.Header.Get("X-Request-ID") {
		t.Error("expected a fresh request id per request")
	}
}

func TestDo_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	req, _ := client.NewRequest(context.Background(), "GET", "/test", nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestDo_NoRetryByDefault(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	req, _ := client.NewRequest(context.Background(), "POST", "/api/debug-sessions", strings.NewReader(`{}`))
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer resp.Body.Close()

	if attempts != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", attempts)
	}
}

func TestDo_RetryOn5xx(t *testing.T) {
	attempts := 0
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
		} else {
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	client := NewClient(
		WithBaseURL(server.URL),
		WithRetryConfig(&RetryConfig{MaxRetries: 3, RetryDelay: 1 * time.Millisecond}),
	)

	req, _ := client.NewRequest(context.Background(), "POST", "/test", strings.NewReader(`{"a":1}`))
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200 after retries, got %d", resp.StatusCode)
	}

	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}

	for i, b := range bodies {
		if b != `{"a":1}` {
			t.Errorf("attempt %d: expected replayed body, got %q", i+1, b)
		}
	}
}

func TestDo_NoRetryOn4xx(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(
		WithBaseURL(server.URL),
		WithRetryConfig(&RetryConfig{MaxRetries: 3, RetryDelay: 1 * time.Millisecond}),
	)

	req, _ := client.NewRequest(context.Background(), "GET", "/test", nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}

	if attempts != 1 {
		t.Errorf("expected 1 attempt (no retry on 4xx), got %d", attempts)
	}
}

func TestDo_NetworkError(t *testing.T) {
	client := NewClient(WithBaseURL("http://127.0.0.1:1"))

	req, _ := client.NewRequest(context.Background(), "GET", "/test", nil)
	_, err := client.Do(req)

	var netErr *apperrors.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestWithHTTPClient(t *testing.T) {
	customClient := &http.Client{
		Timeout: 5 * time.Second,
	}

	client := NewClient(WithHTTPClient(customClient))

	if client.httpClient != customClient {
		t.Error("expected custom HTTP client to be used")
	}
}
