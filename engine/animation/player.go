package animation

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Player advances playback time for one animated instance and produces its pose.
// Evaluation itself is a pure function of time; the Player owns the time accumulator,
// looping, and cross-fades between clips. A Player is not safe for concurrent use.
type Player struct {
	rig *Rig

	clip        int
	time, speed float32
	loop        bool
	finished    bool

	blending                    bool
	blendTo                     int
	blendToTime                 float32
	blendDuration, blendElapsed float32
}

// NewPlayer creates a Player positioned at the start of the rig's first clip, looping at
// normal speed. A rig without animations always produces the bind pose.
//
// Parameters:
//   - rig: the validated rig to play
//
// Returns:
//   - *Player: the player
func NewPlayer(rig *Rig) *Player {
	p := &Player{rig: rig, clip: -1, speed: 1, loop: true}
	if rig.AnimationCount() > 0 {
		p.clip = 0
	}
	return p
}

// Play switches to clip and restarts it from time 0, cancelling any blend.
// Out-of-range clip indices are ignored.
//
// Parameters:
//   - clip: the animation index within the rig
//   - loop: whether playback wraps at the clip duration
func (p *Player) Play(clip int, loop bool) {
	if p.rig.Animation(clip) == nil {
		return
	}
	p.clip = clip
	p.time = 0
	p.loop = loop
	p.finished = false
	p.blending = false
	p.blendElapsed = 0
}

// BlendTo starts a cross-fade from the current clip to clip over the given number of seconds.
// The target clip starts at time 0 and inherits the current loop setting. A non-positive
// duration switches immediately. Out-of-range clip indices are ignored.
//
// Parameters:
//   - clip: the target animation index
//   - seconds: the transition length in seconds
func (p *Player) BlendTo(clip int, seconds float32) {
	if p.rig.Animation(clip) == nil {
		return
	}
	if p.clip < 0 || seconds <= 0 {
		p.Play(clip, p.loop)
		return
	}
	p.blending = true
	p.blendTo = clip
	p.blendToTime = 0
	p.blendDuration = seconds
	p.blendElapsed = 0
}

// CancelBlend stops an in-progress blend and keeps the current clip.
func (p *Player) CancelBlend() {
	p.blending = false
	p.blendElapsed = 0
}

// SetTime moves the playhead of the current clip to t ticks, wrapped or clamped into range.
func (p *Player) SetTime(t float32) {
	anim := p.rig.Animation(p.clip)
	if anim == nil {
		return
	}
	p.time, p.finished = wrapTime(t, anim.Duration(), p.loop)
}

// SetSpeed sets the playback speed multiplier (1 = normal, negative plays backwards).
func (p *Player) SetSpeed(speed float32) {
	p.speed = speed
}

// Advance moves playback forward by dt seconds of wall-clock time.
// Each clip converts seconds to ticks with its own TicksPerSecond.
func (p *Player) Advance(dt float32) {
	anim := p.rig.Animation(p.clip)
	if anim == nil {
		return
	}
	if !p.finished {
		p.time, p.finished = wrapTime(p.time+anim.SecondsToTicks(dt*p.speed), anim.Duration(), p.loop)
	}

	if !p.blending {
		return
	}
	target := p.rig.Animation(p.blendTo)
	p.blendElapsed += dt
	p.blendToTime, _ = wrapTime(p.blendToTime+target.SecondsToTicks(dt*p.speed), target.Duration(), p.loop)

	if p.blendElapsed >= p.blendDuration {
		p.clip = p.blendTo
		p.time = p.blendToTime
		p.finished = false
		p.blending = false
		p.blendElapsed = 0
	}
}

// Clip returns the index of the current clip, or -1 when the rig has no animations.
func (p *Player) Clip() int {
	return p.clip
}

// Time returns the playhead of the current clip in ticks.
func (p *Player) Time() float32 {
	return p.time
}

// Speed returns the playback speed multiplier.
func (p *Player) Speed() float32 {
	return p.speed
}

// Looping reports whether playback wraps at the clip duration.
func (p *Player) Looping() bool {
	return p.loop
}

// Finished reports whether a non-looping clip has reached its end.
func (p *Player) Finished() bool {
	return p.finished
}

// Blending reports whether a cross-fade is in progress.
func (p *Player) Blending() bool {
	return p.blending
}

// BlendProgress returns the cross-fade progress in [0, 1), or 0 when not blending.
func (p *Player) BlendProgress() float32 {
	if !p.blending || p.blendDuration <= 0 {
		return 0
	}
	return min(p.blendElapsed/p.blendDuration, 1)
}

// Pose evaluates the current pose into a new palette.
func (p *Player) Pose() []mgl32.Mat4 {
	out := make([]mgl32.Mat4, p.rig.Skeleton().Len())
	p.PoseInto(out)
	return out
}

// PoseInto evaluates the current pose into dst, overwriting the first Len() entries.
func (p *Player) PoseInto(dst []mgl32.Mat4) {
	switch {
	case p.clip < 0:
		skel := p.rig.Skeleton()
		mustFit(dst, skel)
		compose(dst, skel, func(BoneID) mgl32.Mat4 { return mgl32.Ident4() })
	case p.blending:
		p.rig.EvaluateBlendInto(dst, p.clip, p.time, p.blendTo, p.blendToTime, p.BlendProgress())
	default:
		p.rig.EvaluateInto(dst, p.clip, p.time)
	}
}

// wrapTime maps t into [0, duration). Looping clips wrap around; other clips clamp to the
// last representable tick before duration and report that they have finished.
func wrapTime(t, duration float32, loop bool) (float32, bool) {
	if duration <= 0 {
		return 0, !loop
	}
	if loop {
		t = float32(math.Mod(float64(t), float64(duration)))
		if t < 0 {
			t += duration
		}
		if t >= duration {
			t = 0
		}
		return t, false
	}
	if t < 0 {
		return 0, false
	}
	if t >= duration {
		return math.Nextafter32(duration, 0), true
	}
	return t, false
}
