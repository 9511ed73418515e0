package animation

import (
	"fmt"
	"math"
)

// Animation is an immutable keyframed clip with one BoneKeyFrames per skeleton bone.
// Times are in ticks; TicksPerSecond converts wall-clock time to ticks.
type Animation struct {
	name           string
	duration       float32
	ticksPerSecond float32
	boneKeyframes  []BoneKeyFrames
}

// NewAnimation validates and wraps a clip. The keyframe slices are deep-copied.
// A non-positive ticksPerSecond is treated as 1 tick per second.
//
// Parameters:
//   - name: the clip name
//   - duration: the clip length in ticks, must be finite and >= 0
//   - ticksPerSecond: the playback tick rate
//   - boneKeyframes: one entry per skeleton bone, in skeleton order
//
// Returns:
//   - *Animation: the validated animation
//   - error: ErrInvalidDuration or ErrKeyframeOrder (wrapped with the offending bone)
func NewAnimation(name string, duration, ticksPerSecond float32, boneKeyframes []BoneKeyFrames) (*Animation, error) {
	d := float64(duration)
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return nil, fmt.Errorf("animation %q: %w (%v)", name, ErrInvalidDuration, duration)
	}
	tps := float64(ticksPerSecond)
	if math.IsNaN(tps) || math.IsInf(tps, 0) || tps <= 0 {
		ticksPerSecond = 1
	}

	a := &Animation{
		name:           name,
		duration:       duration,
		ticksPerSecond: ticksPerSecond,
		boneKeyframes:  make([]BoneKeyFrames, len(boneKeyframes)),
	}
	for i, keys := range boneKeyframes {
		if err := keys.validate(); err != nil {
			return nil, fmt.Errorf("animation %q bone %d: %w", name, i, err)
		}
		a.boneKeyframes[i] = keys.clone()
	}
	return a, nil
}

// Name returns the clip name.
func (a *Animation) Name() string {
	return a.name
}

// Duration returns the clip length in ticks.
func (a *Animation) Duration() float32 {
	return a.duration
}

// TicksPerSecond returns the playback tick rate.
func (a *Animation) TicksPerSecond() float32 {
	return a.ticksPerSecond
}

// DurationSeconds returns the clip length in seconds.
func (a *Animation) DurationSeconds() float32 {
	return a.duration / a.ticksPerSecond
}

// SecondsToTicks converts a wall-clock duration to ticks of this clip.
func (a *Animation) SecondsToTicks(seconds float32) float32 {
	return seconds * a.ticksPerSecond
}

// TicksToSeconds converts ticks of this clip to seconds.
func (a *Animation) TicksToSeconds(ticks float32) float32 {
	return ticks / a.ticksPerSecond
}

// BoneCount returns the number of bone tracks; it must equal the target skeleton's Len.
func (a *Animation) BoneCount() int {
	return len(a.boneKeyframes)
}

// KeyFrames returns a copy of the tracks of bone id. It panics if id is out of range.
func (a *Animation) KeyFrames(id BoneID) BoneKeyFrames {
	return a.boneKeyframes[id].clone()
}
