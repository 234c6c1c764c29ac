// Package ingest normalizes wrist-track data from external capture tools
// into the sample and frame types the analysis pipeline consumes.
package ingest

import (
	"time"

	"github.com/meltforce/swingsense/internal/models"
)

// Session is one captured movement session normalized from an external
// format: a labeled, timestamped wrist track ready for analysis.
type Session struct {
	Name         string
	MovementType models.MovementType
	Date         time.Time
	FPS          float64
	Samples      []models.PositionSample
}
