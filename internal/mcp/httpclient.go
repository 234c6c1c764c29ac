package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/swingsense/internal/models"
	"github.com/meltforce/swingsense/internal/storage"
)

// HTTPClient implements DataSource by calling the SwingSense REST API. Used
// for remote MCP mode where the binary runs locally (stdio) but analyses live
// on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

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
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

// QueryAnalyses retrieves recent analyses via the REST API.
func (c *HTTPClient) QueryAnalyses(ctx context.Context, limit int) ([]models.AnalysisRow, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/api/v1/analyses", params)
	if err != nil {
		return nil, err
	}

	var rows []models.AnalysisRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: parse analyses: %w", err)
	}
	return rows, nil
}

// GetAnalysis retrieves one analysis via the REST API.
func (c *HTTPClient) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.AnalysisRow, error) {
	body, err := c.get(ctx, "/api/v1/analyses/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	var row models.AnalysisRow
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("httpclient: parse analysis: %w", err)
	}
	return &row, nil
}

// QueryRepMetrics retrieves the per-rep metrics of one analysis via the REST API.
func (c *HTTPClient) QueryRepMetrics(ctx context.Context, analysisID uuid.UUID) ([]models.RepMetric, error) {
	body, err := c.get(ctx, "/api/v1/analyses/"+analysisID.String()+"/reps", nil)
	if err != nil {
		return nil, err
	}

	var metrics []models.RepMetric
	if err := json.Unmarshal(body, &metrics); err != nil {
		return nil, fmt.Errorf("httpclient: parse rep metrics: %w", err)
	}
	return metrics, nil
}

// GetANTSummary retrieves aggregate statistics via the REST API.
func (c *HTTPClient) GetANTSummary(ctx context.Context) (*storage.ANTSummary, error) {
	body, err := c.get(ctx, "/api/v1/summary", nil)
	if err != nil {
		return nil, err
	}

	var summary storage.ANTSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("httpclient: parse summary: %w", err)
	}
	return &summary, nil
}
