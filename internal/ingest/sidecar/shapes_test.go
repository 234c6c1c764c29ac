package sidecar

import (
	"encoding/json"
	"testing"
)

// TestDetectFrameShape verifies the key probe distinguishes the two wire
// shapes and falls back to the wrist shape on garbage.
func TestDetectFrameShape(t *testing.T) {
	wrists := json.RawMessage(`{"timestamp": 1.0, "left_wrist": {"x": 0.4, "y": 0.6}, "frame_valid": true}`)
	if got := DetectFrameShape(wrists); got != ShapeWrists {
		t.Errorf("wrist frame: shape = %v, want ShapeWrists", got)
	}

	keypoints := json.RawMessage(`{"t": 1.0, "keypoints": [[0.1, 0.2, 0.9]]}`)
	if got := DetectFrameShape(keypoints); got != ShapeKeypoints {
		t.Errorf("keypoint frame: shape = %v, want ShapeKeypoints", got)
	}

	if got := DetectFrameShape(json.RawMessage(`not json`)); got != ShapeWrists {
		t.Errorf("garbage: shape = %v, want ShapeWrists fallback", got)
	}
}

// TestDecodeWristFrames verifies the current shape decodes straight into
// FramePose.
func TestDecodeWristFrames(t *testing.T) {
	raw := []json.RawMessage{
		json.RawMessage(`{"timestamp": 0.5, "left_wrist": {"x": 0.4, "y": 0.6}, "left_wrist_confidence": 0.9, "frame_valid": true}`),
		json.RawMessage(`{"timestamp": 0.6, "frame_valid": false}`),
	}

	frames, err := DecodeFrames(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0].Timestamp != 0.5 || frames[0].LeftWrist == nil || frames[0].LeftWrist.X != 0.4 {
		t.Errorf("frame 0 = %+v", frames[0])
	}
	if frames[0].RightWrist != nil {
		t.Error("frame 0 has a right wrist, want absent")
	}
	if frames[1].FrameValid {
		t.Error("frame 1 valid, want invalid")
	}
}

// TestDecodeKeypointFrames verifies the older shape pulls the wrists out of
// the COCO keypoint array and treats zero confidence as absent.
func TestDecodeKeypointFrames(t *testing.T) {
	// 11 keypoints: left wrist at index 9, right wrist at index 10 with
	// zero confidence.
	kps := `[[0,0,0.5],[0,0,0.5],[0,0,0.5],[0,0,0.5],[0,0,0.5],[0,0,0.5],[0,0,0.5],[0,0,0.5],[0,0,0.5],[0.41,0.62,0.88],[0.7,0.8,0]]`
	raw := []json.RawMessage{
		json.RawMessage(`{"t": 1.25, "keypoints": ` + kps + `}`),
	}

	frames, err := DecodeFrames(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}

	f := frames[0]
	if f.Timestamp != 1.25 {
		t.Errorf("timestamp = %v, want 1.25", f.Timestamp)
	}
	if !f.FrameValid {
		t.Error("frame invalid, want valid by default")
	}
	if f.LeftWrist == nil || f.LeftWrist.X != 0.41 || f.LeftWrist.Y != 0.62 {
		t.Errorf("left wrist = %+v, want (0.41, 0.62)", f.LeftWrist)
	}
	if f.LeftWristConfidence != 0.88 {
		t.Errorf("left confidence = %v, want 0.88", f.LeftWristConfidence)
	}
	if f.RightWrist != nil {
		t.Error("zero-confidence right wrist present, want absent")
	}
}

// TestDecodeKeypointFrameExplicitInvalid verifies the explicit valid flag is
// honored.
func TestDecodeKeypointFrameExplicitInvalid(t *testing.T) {
	raw := []json.RawMessage{
		json.RawMessage(`{"t": 0.1, "keypoints": [], "valid": false}`),
	}
	frames, err := DecodeFrames(raw)
	if err != nil {
		t.Fatal(err)
	}
	if frames[0].FrameValid {
		t.Error("frame valid, want invalid")
	}
	if frames[0].LeftWrist != nil || frames[0].RightWrist != nil {
		t.Error("wrists present in an empty keypoint array")
	}
}

// TestDecodeFramesEmpty verifies nil input decodes to nil without error.
func TestDecodeFramesEmpty(t *testing.T) {
	frames, err := DecodeFrames(nil)
	if err != nil {
		t.Fatal(err)
	}
	if frames != nil {
		t.Errorf("got %v, want nil", frames)
	}
}
