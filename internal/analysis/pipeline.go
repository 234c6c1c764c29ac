// Package analysis wires the sample synthesizer, rep segmentation engine,
// and ANT calculator into one pipeline, for both whole-video batches and
// live streaming sessions.
package analysis

import (
	"fmt"

	"github.com/meltforce/swingsense/internal/ant"
	"github.com/meltforce/swingsense/internal/models"
	"github.com/meltforce/swingsense/internal/pose"
	"github.com/meltforce/swingsense/internal/reps"
)

// Pipeline runs the full batch analysis: synthesize the wrist track, segment
// it into reps, evaluate the anaerobic threshold, and assemble the result
// payload. It holds only configuration, so one Pipeline can serve concurrent
// independent analyses.
type Pipeline struct {
	antCfg        ant.Config
	minConfidence float64
}

// NewPipeline validates the ANT configuration up front so misconfiguration
// fails at startup, not per request.
func NewPipeline(antCfg ant.Config, minConfidence float64) (*Pipeline, error) {
	if _, err := ant.NewCalculator(antCfg); err != nil {
		return nil, fmt.Errorf("analysis pipeline config: %w", err)
	}
	return &Pipeline{antCfg: antCfg, minConfidence: minConfidence}, nil
}

// AnalyzeExtraction analyzes a pose-service extraction: frames become a
// position track for the movement's wrist policy, then flow through
// AnalyzeSamples. The extraction's sampling metadata fills the diagnostics.
func (p *Pipeline) AnalyzeExtraction(movementType models.MovementType, ex *pose.Extraction) (*models.AnalysisResult, error) {
	samples := pose.SynthesizeTrack(ex.Frames, movementType)
	return p.analyze(movementType, samples, ex.FPSUsed, ex.VideoDurationSeconds)
}

// AnalyzeSamples analyzes an already-synthesized position track. fpsUsed is
// recorded in the diagnostics; the video duration is taken from the last
// sample's timestamp.
func (p *Pipeline) AnalyzeSamples(movementType models.MovementType, samples []models.PositionSample, fpsUsed float64) (*models.AnalysisResult, error) {
	var duration float64
	if len(samples) > 0 {
		duration = samples[len(samples)-1].T
	}
	return p.analyze(movementType, samples, fpsUsed, duration)
}

func (p *Pipeline) analyze(movementType models.MovementType, samples []models.PositionSample, fpsUsed, videoDuration float64) (*models.AnalysisResult, error) {
	if !movementType.Valid() {
		return nil, fmt.Errorf("unknown movement type %q", movementType)
	}

	detector := reps.NewDetector(movementType, p.minConfidence)
	detected := detector.DetectReps(samples)

	calculator, err := ant.NewCalculator(p.antCfg)
	if err != nil {
		// Config was validated at construction; this cannot happen.
		return nil, fmt.Errorf("ant calculator: %w", err)
	}
	antResult := calculator.Calculate(detected)

	var valid []models.DetectedRep
	for _, r := range detected {
		if r.IsValid {
			valid = append(valid, r)
		}
	}

	baselineUsed := p.antCfg.BaselineReps
	if len(valid) < baselineUsed {
		baselineUsed = len(valid)
	}

	return &models.AnalysisResult{
		MovementType:         movementType,
		TotalValidReps:       len(valid),
		VideoDurationSeconds: videoDuration,
		BaselineSpeed:        antResult.BaselineSpeed,
		ANTReached:           antResult.ANTReached,
		ANTRepIndex:          antResult.ANTRepIndex,
		ANTTimestampSeconds:  antResult.ANTTimestampSeconds,
		DropPercentAtANT:     antResult.DropPercentAtANT,
		RepMetrics:           buildRepMetrics(valid, antResult.ThresholdFlags),
		Diagnostics: models.AnalysisDiagnostics{
			FPSUsed:             fpsUsed,
			FramesSampled:       len(samples),
			InvalidRepsFiltered: len(detected) - len(valid),
			BaselineRepsUsed:    baselineUsed,
		},
	}, nil
}

// buildRepMetrics pairs each valid rep with its threshold flag by position.
// A correct calculator emits one flag per valid rep; a missing flag is
// treated as "not below threshold" rather than failing the analysis.
func buildRepMetrics(valid []models.DetectedRep, flags []bool) []models.RepMetric {
	metrics := make([]models.RepMetric, 0, len(valid))
	for i, rep := range valid {
		below := false
		if i < len(flags) {
			below = flags[i]
		}
		metrics = append(metrics, models.RepMetric{
			RepIndex:         i,
			StartTime:        rep.StartTime,
			EndTime:          rep.EndTime,
			Duration:         rep.Duration,
			PeakSpeed:        rep.PeakSpeed,
			IsValid:          true,
			IsBelowThreshold: below,
		})
	}
	return metrics
}
