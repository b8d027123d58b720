package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/smartthermo/internal/logging"
	"github.com/muurk/smartthermo/internal/server"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second
)

// Client talks to the configuration API of a device or 'smartthermo serve'
type Client struct {
	// BaseURL is the API root, e.g. "http://192.168.4.1:8080"
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts; it doubles
	// after every attempt up to MaxRetryDelay
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

type valueBody struct {
	Value interface{} `json:"value"`
}

// GetConfig returns the whole configuration document
func (c *Client) GetConfig() (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := c.do(http.MethodGet, "/api/config", nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns the value at a dotted path
func (c *Client) Get(path string) (interface{}, error) {
	var body valueBody
	if err := c.do(http.MethodGet, "/api/config/"+path, nil, &body); err != nil {
		return nil, err
	}
	return body.Value, nil
}

// Set stores value at a dotted path and returns the value the server kept
func (c *Client) Set(path string, value interface{}) (interface{}, error) {
	var body valueBody
	if err := c.do(http.MethodPut, "/api/config/"+path, valueBody{Value: value}, &body); err != nil {
		return nil, err
	}
	return body.Value, nil
}

// Save asks the server to write its config file
func (c *Client) Save() error {
	return c.do(http.MethodPost, "/api/config/save", nil, nil)
}

// Reload asks the server to discard unsaved changes
func (c *Client) Reload() error {
	return c.do(http.MethodPost, "/api/config/reload", nil, nil)
}

// Status returns the server's status summary
func (c *Client) Status() (*server.StatusResponse, error) {
	var status server.StatusResponse
	if err := c.do(http.MethodGet, "/api/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// do performs a request with retries, decoding the JSON response into out
// when out is non-nil.
func (c *Client) do(method, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			logging.Debug("Retrying API request",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Duration("delay", currentDelay),
			)
			time.Sleep(currentDelay)

			currentDelay *= 2
			if currentDelay > c.MaxRetryDelay {
				currentDelay = c.MaxRetryDelay
			}
		}

		err := c.attempt(method, path, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

func (c *Client) attempt(method, path string, payload []byte, out interface{}) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return NewNetworkError("failed to create request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError(fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError("failed to read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
			Type  string `json:"type"`
		}
		if json.Unmarshal(body, &apiErr) != nil || apiErr.Error == "" {
			apiErr.Error = strings.TrimSpace(string(body))
		}
		return NewHTTPError(resp.StatusCode, apiErr.Type, apiErr.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return NewParseError("failed to parse JSON response", err)
	}
	return nil
}
