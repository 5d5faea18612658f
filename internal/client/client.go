// Package client is a thin HTTP client for the jira-intray backend.
//
// It resolves the backend base URL on every call, first from the
// durable settings store and then from configuration, so a settings
// change takes effect on the next request without a restart. The
// backend session is cookie-based; a shared cookie jar carries the
// credentials across calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/cristianoliveira/jira-intray/internal/config"
	"github.com/cristianoliveira/jira-intray/internal/logging"
)

// SettingsReader is the subset of the settings store the client needs.
type SettingsReader interface {
	GetValue(key string) (string, error)
}

// Client issues JSON requests against the backend.
type Client struct {
	settings   SettingsReader
	httpClient *http.Client
	logger     logging.Logger
}

// New creates a backend client. settings may be nil, in which case only
// the configured (or default) base URL is used.
func New(settings SettingsReader, logger logging.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		settings: settings,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		logger: logger,
	}
}

// BaseURL resolves the backend base URL for the next call. The durable
// store wins over the config file so runtime settings changes apply
// immediately.
func (c *Client) BaseURL() string {
	if c.settings != nil {
		if v, err := c.settings.GetValue("server_url"); err == nil && v != "" {
			return strings.TrimRight(v, "/")
		}
	}
	return strings.TrimRight(config.Get("server_url", config.DefaultServerURL), "/")
}

// Get performs an HTTP GET request and unmarshals the JSON response
// into result.
func (c *Client) Get(ctx context.Context, endpoint string, result interface{}) error {
	return c.Call(ctx, http.MethodGet, endpoint, nil, result)
}

// Post performs an HTTP POST request with a JSON body and unmarshals
// the JSON response into result.
func (c *Client) Post(ctx context.Context, endpoint string, body, result interface{}) error {
	return c.Call(ctx, http.MethodPost, endpoint, body, result)
}

// Call builds the request, attaches the cookie-based credentials, and
// decodes the JSON response. Failures map to the error taxonomy:
// *NetworkError for transport failures, *AuthExpiredError for 401, and
// *HTTPError for any other non-2xx status. Errors are never swallowed.
func (c *Client) Call(ctx context.Context, method, endpoint string, body, result interface{}) error {
	url := c.BaseURL() + endpoint

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("backend call", "method", method, "endpoint", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthExpiredError{Endpoint: endpoint}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Endpoint:   endpoint,
		}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("client: unmarshal response from %s %s: %w", method, endpoint, err)
	}
	return nil
}
