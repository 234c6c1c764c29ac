package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/meltforce/swingsense/internal/models"
)

// analyzeRequest mirrors the server's analyze payload without importing the
// server package (which would pull in pgx and other server-side dependencies).
type analyzeRequest struct {
	MovementType models.MovementType     `json:"movement_type"`
	FPSUsed      float64                 `json:"fps_used,omitempty"`
	Samples      []models.PositionSample `json:"samples,omitempty"`
	Frames       []models.FramePose      `json:"frames,omitempty"`
}

// analyzeResponse mirrors the server's analyze response.
type analyzeResponse struct {
	ID     string                 `json:"id"`
	Result *models.AnalysisResult `json:"result"`
}

// Client sends recordings to the SwingSense server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the SwingSense server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Analyze POSTs a recording to the server's analyze endpoint and returns the
// stored analysis ID and result. Retries up to 3 times with exponential
// backoff on transport errors and 5xx responses; 4xx responses fail fast
// since resending the same payload cannot succeed.
func (c *Client) Analyze(rec *Recording) (string, *models.AnalysisResult, error) {
	data, err := json.Marshal(analyzeRequest{
		MovementType: rec.MovementType,
		FPSUsed:      rec.FPSUsed,
		Samples:      rec.Samples,
		Frames:       rec.Frames,
	})
	if err != nil {
		return "", nil, fmt.Errorf("marshaling request: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, c.serverURL+"/api/v1/analyze", bytes.NewReader(data))
		if err != nil {
			return "", nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			var ar analyzeResponse
			if err := json.Unmarshal(body, &ar); err != nil {
				return "", nil, fmt.Errorf("decoding analyze response: %w", err)
			}
			return ar.ID, ar.Result, nil
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("analyze failed (status %d): %s", resp.StatusCode, body)
		default:
			return "", nil, fmt.Errorf("analyze rejected (status %d): %s", resp.StatusCode, body)
		}
	}

	return "", nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}
