package nodeclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPNodeClient is the transport adapter for querying cluster nodes.
// Per-request deadlines come from the caller's context; the client-level
// timeout is only a backstop.
type HTTPNodeClient struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPNodeClient builds the transport. A nil httpClient gets a sane default.
func NewHTTPNodeClient(logger *slog.Logger, httpClient *http.Client) *HTTPNodeClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPNodeClient{
		httpClient: httpClient,
		logger:     logger.With("component", "node_client"),
	}
}

// Get issues a GET against a node and returns the status code and body.
func (c *HTTPNodeClient) Get(ctx context.Context, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("building node request: %w", err)
	}
	req.Header.Set("Accept", "*/*")

	c.logger.DebugContext(ctx, "Querying node", "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("node request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("reading node response (status %d): %w", resp.StatusCode, err)
	}

	c.logger.DebugContext(ctx, "Node responded", "url", url, "status_code", resp.StatusCode)
	return resp.StatusCode, string(body), nil
}
