package animation

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// KeyFrame stores a channel value at a time expressed in ticks.
type KeyFrame[V any] struct {
	// Time is the keyframe timestamp in ticks.
	Time float32

	// Value is the channel value at Time.
	Value V
}

// PositionKey is a translation keyframe.
type PositionKey = KeyFrame[mgl32.Vec3]

// RotationKey is a rotation keyframe.
type RotationKey = KeyFrame[mgl32.Quat]

// ScaleKey is a scale keyframe.
type ScaleKey = KeyFrame[mgl32.Vec3]

// BoneKeyFrames holds the three independently sampled channels of a single bone.
// Each channel is ordered by strictly increasing time and may be empty or hold a single key.
type BoneKeyFrames struct {
	// Positions are keyframes for translation.
	Positions []PositionKey

	// Rotations are keyframes for rotation.
	Rotations []RotationKey

	// Scalings are keyframes for scale.
	Scalings []ScaleKey
}

// Empty reports whether the bone has no keyframes in any channel.
func (k BoneKeyFrames) Empty() bool {
	return len(k.Positions) == 0 && len(k.Rotations) == 0 && len(k.Scalings) == 0
}

// clone deep-copies the channel slices.
func (k BoneKeyFrames) clone() BoneKeyFrames {
	return BoneKeyFrames{
		Positions: append([]PositionKey(nil), k.Positions...),
		Rotations: append([]RotationKey(nil), k.Rotations...),
		Scalings:  append([]ScaleKey(nil), k.Scalings...),
	}
}

// validate checks all three channels.
func (k BoneKeyFrames) validate() error {
	if err := validateTrack("positions", k.Positions); err != nil {
		return err
	}
	if err := validateTrack("rotations", k.Rotations); err != nil {
		return err
	}
	return validateTrack("scalings", k.Scalings)
}

// validateTrack rejects non-finite times and any pair of keys that is not strictly increasing.
// A zero-length bracket would divide by zero in the sampler.
func validateTrack[V any](channel string, track []KeyFrame[V]) error {
	for i, key := range track {
		t := float64(key.Time)
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("%s key %d: %w (time %v)", channel, i, ErrKeyframeOrder, key.Time)
		}
		if i > 0 && key.Time <= track[i-1].Time {
			return fmt.Errorf("%s key %d: %w (%v after %v)", channel, i, ErrKeyframeOrder, key.Time, track[i-1].Time)
		}
	}
	return nil
}
