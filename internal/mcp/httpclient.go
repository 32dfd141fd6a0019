package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/recovery/internal/analysis"
)

// HTTPClient implements DataSource by calling the recovery REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The API
// key is only sent to endpoints that require it.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(req *http.Request, path string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}

func refParams(ref time.Time) url.Values {
	v := url.Values{}
	if !ref.IsZero() {
		v.Set("at", ref.Format(time.RFC3339))
	}
	return v
}

func (c *HTTPClient) endpoint(path string, params url.Values) string {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// Report fetches the server's report at ref. A zero ref means the server's now.
func (c *HTTPClient) Report(ctx context.Context, ref time.Time) (analysis.Report, error) {
	const path = "/api/v1/report"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, refParams(ref)), nil)
	if err != nil {
		return analysis.Report{}, fmt.Errorf("httpclient: create request: %w", err)
	}
	body, err := c.do(req, path)
	if err != nil {
		return analysis.Report{}, err
	}

	var report analysis.Report
	if err := json.Unmarshal(body, &report); err != nil {
		return analysis.Report{}, fmt.Errorf("httpclient: decode report: %w", err)
	}
	return report, nil
}

// Analyze posts signals to the server's stateless endpoint.
func (c *HTTPClient) Analyze(ctx context.Context, sig analysis.Signals, ref time.Time) (analysis.Report, error) {
	const path = "/api/v1/analyze"
	payload, err := json.Marshal(sig)
	if err != nil {
		return analysis.Report{}, fmt.Errorf("httpclient: encode signals: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, refParams(ref)), bytes.NewReader(payload))
	if err != nil {
		return analysis.Report{}, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	body, err := c.do(req, path)
	if err != nil {
		return analysis.Report{}, err
	}
	var report analysis.Report
	if err := json.Unmarshal(body, &report); err != nil {
		return analysis.Report{}, fmt.Errorf("httpclient: decode report: %w", err)
	}
	return report, nil
}
