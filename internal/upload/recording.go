package upload

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/meltforce/swingsense/internal/models"
)

// Recording is a captured wrist-track session saved by the capture tooling.
// Either Samples (already synthesized to one track) or Frames (raw per-frame
// wrist poses) must be present; Samples wins when both are.
type Recording struct {
	MovementType models.MovementType     `json:"movement_type"`
	FPSUsed      float64                 `json:"fps_used,omitempty"`
	Samples      []models.PositionSample `json:"samples,omitempty"`
	Frames       []models.FramePose      `json:"frames,omitempty"`
}

// ReadRecording parses and validates a recording file.
func ReadRecording(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recording: %w", err)
	}

	var rec Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing recording %s: %w", path, err)
	}

	if !rec.MovementType.Valid() {
		return nil, fmt.Errorf("recording %s: unknown movement_type %q", path, rec.MovementType)
	}
	if len(rec.Samples) == 0 && len(rec.Frames) == 0 {
		return nil, fmt.Errorf("recording %s: no samples or frames", path)
	}

	return &rec, nil
}
