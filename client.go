package bugghost

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"bugghost-client/apperrors"
	"bugghost-client/services"

	"github.com/google/uuid"
)

// DefaultBaseURL is the backend origin used when none is configured
const DefaultBaseURL = "http://localhost:8000"

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// Client is the main client for interacting with the Bug Ghost API
// After creation, the client is immutable and safe for concurrent use
type Client struct {
	baseURL    string
	httpClient *http.Client

	// Custom headers to include in all requests
	headers map[string]string

	timeout     time.Duration
	retryConfig *RetryConfig

	// Service groups
	Sessions *services.DebugSessionService
	Runs     *services.RunService
	Sandbox  *services.SandboxService
	Auth     *services.AuthService
	Teams    *services.TeamService
}

// RetryConfig configures retry behavior for 5xx responses and transport failures
type RetryConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

// NewClient creates a new Client with the given options
func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		baseURL: DefaultBaseURL,
		headers: make(map[string]string),
		// The only execution bound is the server-side timeout_sec of a run
		httpClient: &http.Client{},
		retryConfig: &RetryConfig{
			MaxRetries: 0,
			RetryDelay: time.Second,
		},
	}

	// Apply options
	for _, opt := range opts {
		opt(client)
	}

	// Initialize services
	client.Sessions = services.NewDebugSessionService(client)
	client.Runs = services.NewRunService(client)
	client.Sandbox = services.NewSandboxService(client)
	client.Auth = services.NewAuthService(client)
	client.Teams = services.NewTeamService(client)

	return client
}

// WithBaseURL sets a custom base URL for the client
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
		c.httpClient.Timeout = timeout
	}
}

// WithRetryConfig sets the retry configuration
func WithRetryConfig(config *RetryConfig) ClientOption {
	return func(c *Client) {
		c.retryConfig = config
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader adds a custom header that will be included in all requests
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithHeaders adds multiple custom headers that will be included in all requests
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// GetBaseURL returns the configured base URL
func (c *Client) GetBaseURL() string {
	return c.baseURL
}

// GetTimeout returns the configured HTTP timeout, zero meaning none
func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}

// NewRequest creates a new HTTP request with default and custom headers
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := fmt.Sprintf("%s%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set default headers
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	// Set custom headers
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// Do executes an HTTP request. Only 5xx responses and transport failures are
// retried, and only when the retry config allows it and the body can be
// replayed. Transport failures are returned as *apperrors.NetworkError.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	maxRetries := c.retryConfig.MaxRetries
	if req.Body != nil && req.GetBody == nil {
		maxRetries = 0
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", bodyErr)
			}
			req.Body = body
		}

		resp, err = c.httpClient.Do(req)

		// Success or non-retryable error
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		// Don't retry on last attempt
		if attempt < maxRetries {
			if resp != nil {
				resp.Body.Close()
			}
			time.Sleep(c.retryConfig.RetryDelay * time.Duration(attempt+1))
		}
	}

	if err != nil {
		return nil, &apperrors.NetworkError{Err: err}
	}
	return resp, nil
}
