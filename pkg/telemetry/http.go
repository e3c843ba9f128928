package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/neurograsp/handd/internal/httpc"
)

// HTTPCollector POSTs snapshots as JSON to the collector endpoint.
type HTTPCollector struct {
	url    string
	client *http.Client
}

// NewHTTPCollector creates a collector for the given endpoint URL.
// The client timeout bounds how long one emit can hold the loop.
func NewHTTPCollector(url string) *HTTPCollector {
	return &HTTPCollector{
		url:    url,
		client: httpc.NewClient(httpc.TelemetryTimeout),
	}
}

// Emit sends one snapshot. Any transport or status failure is returned
// as-is; the caller decides to drop it.
func (c *HTTPCollector) Emit(ctx context.Context, snap Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post telemetry: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("collector returned %s", resp.Status)
	}
	return nil
}

// Close is a no-op; the HTTP client holds no persistent session.
func (c *HTTPCollector) Close() error { return nil }
