package pose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meltforce/swingsense/internal/ingest/sidecar"
	"github.com/meltforce/swingsense/internal/models"
)

// Client calls the pose-estimation sidecar over HTTP. The sidecar decodes the
// video, runs the keypoint model, and returns one FramePose per sampled
// frame in timestamp order.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the sidecar at baseURL. timeout bounds the
// whole extraction call; pose inference on a long video can take a while, so
// pass something generous (the config default is 120s).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// extractRequest is the sidecar's extraction request body.
type extractRequest struct {
	VideoURL  string  `json:"video_url"`
	TargetFPS float64 `json:"target_fps"`
}

// Extraction is the sidecar's response: the frame observations plus the
// sampling parameters it actually used.
type Extraction struct {
	FPSUsed              float64            `json:"fps_used"`
	VideoDurationSeconds float64            `json:"video_duration_seconds"`
	Frames               []models.FramePose `json:"frames"`
}

// rawExtraction defers frame decoding so both sidecar wire shapes can be
// handled by the same response parser.
type rawExtraction struct {
	FPSUsed              float64           `json:"fps_used"`
	VideoDurationSeconds float64           `json:"video_duration_seconds"`
	Frames               []json.RawMessage `json:"frames"`
}

// ExtractPoses asks the sidecar to extract wrist keypoints from the video at
// videoURL, downsampled to targetFPS.
func (c *Client) ExtractPoses(ctx context.Context, videoURL string, targetFPS float64) (*Extraction, error) {
	body, err := json.Marshal(extractRequest{VideoURL: videoURL, TargetFPS: targetFPS})
	if err != nil {
		return nil, fmt.Errorf("marshaling extract request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/extract", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pose service: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading pose response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pose service returned %d: %s", resp.StatusCode, respBody)
	}

	var raw rawExtraction
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("parsing pose response: %w", err)
	}

	frames, err := sidecar.DecodeFrames(raw.Frames)
	if err != nil {
		return nil, fmt.Errorf("decoding pose frames: %w", err)
	}

	return &Extraction{
		FPSUsed:              raw.FPSUsed,
		VideoDurationSeconds: raw.VideoDurationSeconds,
		Frames:               frames,
	}, nil
}
