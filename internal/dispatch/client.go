package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cristianoliveira/jira-intray/internal/config"
)

// Client sends messages to a running daemon's message server.
type Client struct {
	addr       string
	httpClient *http.Client
}

// NewClient creates a client for the daemon at addr. An empty addr
// falls back to the configured listen address.
func NewClient(addr string) *Client {
	if addr == "" {
		addr = config.Get("listen_addr", "127.0.0.1:8571")
	}
	return &Client{
		addr:       addr,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Send delivers one message and returns the daemon's envelope. A
// transport failure usually means no daemon is running.
func (c *Client) Send(ctx context.Context, req Request) (Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("dispatch: encode message: %w", err)
	}

	url := "http://" + c.addr + "/message"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("dispatch: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("dispatch: no daemon reachable at %s (is `jira-intray serve` running?): %w", c.addr, err)
	}
	defer httpResp.Body.Close()

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("dispatch: decode reply: %w", err)
	}
	return resp, nil
}

// DecodeData re-decodes the envelope's data field into out. The data
// crossed the wire as generic JSON, so a round trip recovers typed
// results.
func DecodeData(resp Response, out interface{}) error {
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("dispatch: encode data: %w", err)
	}
	return json.Unmarshal(raw, out)
}
