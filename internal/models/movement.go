package models

import "fmt"

// MovementType identifies which kettlebell movement a video or stream contains.
// It determines which wrist(s) are tracked and how much vertical travel a rep
// needs to count.
type MovementType string

const (
	MovementSnatchLeft   MovementType = "snatch_left"
	MovementSnatchRight  MovementType = "snatch_right"
	MovementSwingLeft    MovementType = "swing_left"
	MovementSwingRight   MovementType = "swing_right"
	MovementTwoArmSwing  MovementType = "two_arm_swing"
)

// movementPolicy captures the per-movement tracking and validation rules.
type movementPolicy struct {
	trackLeft       bool
	trackRight      bool
	minDisplacement float64
}

// Snatches travel overhead, so they need roughly the full body height of
// vertical travel; swings only reach chest height.
const (
	minDisplacementSwing  = 0.15
	minDisplacementSnatch = 0.25
)

// movementPolicies is the closed set of supported movements. Dispatch goes
// through this table, never through open-ended switches elsewhere.
var movementPolicies = map[MovementType]movementPolicy{
	MovementSnatchLeft:  {trackLeft: true, minDisplacement: minDisplacementSnatch},
	MovementSnatchRight: {trackRight: true, minDisplacement: minDisplacementSnatch},
	MovementSwingLeft:   {trackLeft: true, minDisplacement: minDisplacementSwing},
	MovementSwingRight:  {trackRight: true, minDisplacement: minDisplacementSwing},
	MovementTwoArmSwing: {trackLeft: true, trackRight: true, minDisplacement: minDisplacementSwing},
}

// Valid reports whether mt is one of the supported movement types.
func (mt MovementType) Valid() bool {
	_, ok := movementPolicies[mt]
	return ok
}

// ParseMovementType validates a raw string from an API payload or CLI flag.
func ParseMovementType(s string) (MovementType, error) {
	mt := MovementType(s)
	if !mt.Valid() {
		return "", fmt.Errorf("unknown movement type %q", s)
	}
	return mt, nil
}

// TracksLeft reports whether the left wrist contributes to the position track.
func (mt MovementType) TracksLeft() bool {
	return movementPolicies[mt].trackLeft
}

// TracksRight reports whether the right wrist contributes to the position track.
func (mt MovementType) TracksRight() bool {
	return movementPolicies[mt].trackRight
}

// TracksBoth reports whether both wrists are combined into one track.
func (mt MovementType) TracksBoth() bool {
	p := movementPolicies[mt]
	return p.trackLeft && p.trackRight
}

// MinDisplacement returns the minimum normalized vertical travel for a rep
// of this movement to be considered real.
func (mt MovementType) MinDisplacement() float64 {
	return movementPolicies[mt].minDisplacement
}
