package models

import (
	"time"

	"github.com/google/uuid"
)

// PositionSample is one point of the synthesized wrist track. Coordinates are
// normalized to [0,1] with the image origin at the top-left, so y grows
// downward. Samples are immutable once built.
type PositionSample struct {
	T          float64 `json:"t"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// FramePose is one frame's observation from the pose-estimation collaborator.
// Either wrist may be absent when the pose model loses track of it.
type FramePose struct {
	Timestamp            float64  `json:"timestamp"`
	LeftWrist            *Point2D `json:"left_wrist,omitempty"`
	RightWrist           *Point2D `json:"right_wrist,omitempty"`
	LeftWristConfidence  float64  `json:"left_wrist_confidence"`
	RightWristConfidence float64  `json:"right_wrist_confidence"`
	FrameValid           bool     `json:"frame_valid"`
}

// Point2D is a normalized image coordinate.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DetectedRep is one candidate repetition found by the segmentation engine.
// Indices refer to the confidence-filtered sample array the engine worked on.
type DetectedRep struct {
	StartIdx             int     `json:"start_idx"`
	EndIdx               int     `json:"end_idx"`
	StartTime            float64 `json:"start_time"`
	EndTime              float64 `json:"end_time"`
	Duration             float64 `json:"duration"`
	PeakSpeed            float64 `json:"peak_speed"`
	VerticalDisplacement float64 `json:"vertical_displacement"`
	IsValid              bool    `json:"is_valid"`
}

// ANTResult is the outcome of one threshold calculation. When there were too
// few valid reps to evaluate, ANTReached is false, BaselineSpeed is zero and
// both slices are empty; callers must treat that as a normal result.
type ANTResult struct {
	ANTReached          bool      `json:"ant_reached"`
	ANTRepIndex         *int      `json:"ant_rep_index,omitempty"`
	ANTTimestampSeconds *float64  `json:"ant_timestamp_seconds,omitempty"`
	BaselineSpeed       float64   `json:"baseline_speed"`
	DropPercentAtANT    *float64  `json:"drop_percent_at_ant,omitempty"`
	SmoothedSpeeds      []float64 `json:"smoothed_speeds"`
	ThresholdFlags      []bool    `json:"threshold_flags"`
}

// RepMetric is the per-rep row of an analysis result. Only valid reps appear;
// RepIndex is the position within the valid-rep sequence.
type RepMetric struct {
	RepIndex         int     `json:"rep_index"`
	StartTime        float64 `json:"start_time"`
	EndTime          float64 `json:"end_time"`
	Duration         float64 `json:"duration"`
	PeakSpeed        float64 `json:"peak_speed"`
	IsValid          bool    `json:"is_valid"`
	IsBelowThreshold bool    `json:"is_below_threshold"`
}

// AnalysisDiagnostics describes how the analysis was run.
type AnalysisDiagnostics struct {
	FPSUsed             float64 `json:"fps_used"`
	FramesSampled       int     `json:"frames_sampled"`
	InvalidRepsFiltered int     `json:"invalid_reps_filtered"`
	BaselineRepsUsed    int     `json:"baseline_reps_used"`
}

// AnalysisResult is the complete outcome of analyzing one sample sequence.
type AnalysisResult struct {
	MovementType         MovementType        `json:"movement_type"`
	TotalValidReps       int                 `json:"total_valid_reps"`
	VideoDurationSeconds float64             `json:"video_duration_seconds"`
	BaselineSpeed        float64             `json:"baseline_speed"`
	ANTReached           bool                `json:"ant_reached"`
	ANTRepIndex          *int                `json:"ant_rep_index,omitempty"`
	ANTTimestampSeconds  *float64            `json:"ant_timestamp_seconds,omitempty"`
	DropPercentAtANT     *float64            `json:"drop_percent_at_ant,omitempty"`
	RepMetrics           []RepMetric         `json:"rep_metrics"`
	Diagnostics          AnalysisDiagnostics `json:"diagnostics"`
}

// AnalysisRow is a persisted analysis as stored in the analyses table.
type AnalysisRow struct {
	ID             uuid.UUID      `json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	MovementType   MovementType   `json:"movement_type"`
	Result         AnalysisResult `json:"result"`
}
