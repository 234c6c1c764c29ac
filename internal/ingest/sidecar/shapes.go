// Package sidecar decodes frame payloads from the pose-estimation sidecar.
// Two wire shapes exist: the current one with named wrist fields, and the
// older one that ships the full COCO keypoint array per frame.
package sidecar

import (
	"encoding/json"
	"fmt"

	"github.com/meltforce/swingsense/internal/models"
)

// FrameShape describes the wire structure of a frame payload.
type FrameShape int

const (
	ShapeWrists    FrameShape = iota // {"timestamp": T, "left_wrist": {...}, ...}
	ShapeKeypoints                   // {"t": T, "keypoints": [[x,y,conf], ...]}
)

// COCO keypoint indices for the wrists.
const (
	cocoLeftWrist  = 9
	cocoRightWrist = 10
)

// DetectFrameShape examines a raw frame to determine its wire shape.
func DetectFrameShape(raw json.RawMessage) FrameShape {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ShapeWrists // fallback
	}
	if _, ok := probe["keypoints"]; ok {
		return ShapeKeypoints
	}
	return ShapeWrists
}

// keypointFrame is the older sidecar frame: the full pose as a keypoint array.
type keypointFrame struct {
	T         float64     `json:"t"`
	Keypoints [][]float64 `json:"keypoints"`
	Valid     *bool       `json:"valid,omitempty"`
}

// DecodeFrames converts raw sidecar frames into FramePose values, probing the
// first frame to pick the shape. All frames in one extraction share a shape.
func DecodeFrames(raw []json.RawMessage) ([]models.FramePose, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	shape := DetectFrameShape(raw[0])
	frames := make([]models.FramePose, 0, len(raw))

	for i, r := range raw {
		var frame models.FramePose
		var err error
		switch shape {
		case ShapeKeypoints:
			frame, err = decodeKeypointFrame(r)
		default:
			err = json.Unmarshal(r, &frame)
		}
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames = append(frames, frame)
	}

	return frames, nil
}

// decodeKeypointFrame extracts the wrist entries from a keypoint-array frame.
// A wrist with zero confidence is treated as absent.
func decodeKeypointFrame(raw json.RawMessage) (models.FramePose, error) {
	var kf keypointFrame
	if err := json.Unmarshal(raw, &kf); err != nil {
		return models.FramePose{}, err
	}

	frame := models.FramePose{
		Timestamp:  kf.T,
		FrameValid: kf.Valid == nil || *kf.Valid,
	}

	if p, conf, ok := keypointAt(kf.Keypoints, cocoLeftWrist); ok {
		frame.LeftWrist = p
		frame.LeftWristConfidence = conf
	}
	if p, conf, ok := keypointAt(kf.Keypoints, cocoRightWrist); ok {
		frame.RightWrist = p
		frame.RightWristConfidence = conf
	}

	return frame, nil
}

// keypointAt returns the point and confidence at a COCO index, or ok=false
// when the index is missing, malformed, or has zero confidence.
func keypointAt(keypoints [][]float64, idx int) (*models.Point2D, float64, bool) {
	if idx >= len(keypoints) || len(keypoints[idx]) < 3 {
		return nil, 0, false
	}
	kp := keypoints[idx]
	if kp[2] <= 0 {
		return nil, 0, false
	}
	return &models.Point2D{X: kp[0], Y: kp[1]}, kp[2], true
}
