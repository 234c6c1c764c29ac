// Package pose bridges the external pose-estimation service and the analysis
// core. The service does the heavy lifting (video decode, keypoint model);
// this package fetches its per-frame wrist observations and synthesizes the
// single position track the rep detector consumes.
package pose

import "github.com/meltforce/swingsense/internal/models"

// SynthesizeSample maps one frame observation to at most one position sample
// for the given movement. Which wrist(s) contribute follows the movement's
// tracking policy:
//
//   - single-arm movements emit the configured wrist when it is present;
//   - two-arm movements average both wrists when both are present, fall back
//     to whichever one is, and emit nothing when neither is.
//
// The second return is false when the frame contributes no sample.
func SynthesizeSample(frame models.FramePose, movementType models.MovementType) (models.PositionSample, bool) {
	if !frame.FrameValid {
		return models.PositionSample{}, false
	}

	if movementType.TracksBoth() {
		switch {
		case frame.LeftWrist != nil && frame.RightWrist != nil:
			return models.PositionSample{
				T:          frame.Timestamp,
				X:          (frame.LeftWrist.X + frame.RightWrist.X) / 2,
				Y:          (frame.LeftWrist.Y + frame.RightWrist.Y) / 2,
				Confidence: (frame.LeftWristConfidence + frame.RightWristConfidence) / 2,
			}, true
		case frame.LeftWrist != nil:
			return leftSample(frame), true
		case frame.RightWrist != nil:
			return rightSample(frame), true
		}
		return models.PositionSample{}, false
	}

	if movementType.TracksLeft() && frame.LeftWrist != nil {
		return leftSample(frame), true
	}
	if movementType.TracksRight() && frame.RightWrist != nil {
		return rightSample(frame), true
	}
	return models.PositionSample{}, false
}

// SynthesizeTrack runs SynthesizeSample over a frame sequence, keeping order.
func SynthesizeTrack(frames []models.FramePose, movementType models.MovementType) []models.PositionSample {
	samples := make([]models.PositionSample, 0, len(frames))
	for _, f := range frames {
		if s, ok := SynthesizeSample(f, movementType); ok {
			samples = append(samples, s)
		}
	}
	return samples
}

func leftSample(frame models.FramePose) models.PositionSample {
	return models.PositionSample{
		T:          frame.Timestamp,
		X:          frame.LeftWrist.X,
		Y:          frame.LeftWrist.Y,
		Confidence: frame.LeftWristConfidence,
	}
}

func rightSample(frame models.FramePose) models.PositionSample {
	return models.PositionSample{
		T:          frame.Timestamp,
		X:          frame.RightWrist.X,
		Y:          frame.RightWrist.Y,
		Confidence: frame.RightWristConfidence,
	}
}
