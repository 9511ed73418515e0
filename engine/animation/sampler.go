package animation

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// SamplePosition interpolates a translation track at time t (ticks).
// An empty track yields the zero vector.
//
// Parameters:
//   - track: translation keys in strictly increasing time order
//   - t: the query time in ticks
//
// Returns:
//   - mgl32.Vec3: the interpolated translation
func SamplePosition(track []PositionKey, t float32) mgl32.Vec3 {
	return sample(track, t, mgl32.Vec3{}, mixVec3)
}

// SampleScale interpolates a scale track at time t (ticks).
// An empty track yields (1, 1, 1).
//
// Parameters:
//   - track: scale keys in strictly increasing time order
//   - t: the query time in ticks
//
// Returns:
//   - mgl32.Vec3: the interpolated scale
func SampleScale(track []ScaleKey, t float32) mgl32.Vec3 {
	return sample(track, t, mgl32.Vec3{1, 1, 1}, mixVec3)
}

// SampleRotation spherically interpolates a rotation track at time t (ticks), taking the
// shortest arc between neighbouring keys. An empty track yields the identity quaternion.
//
// Parameters:
//   - track: rotation keys in strictly increasing time order
//   - t: the query time in ticks
//
// Returns:
//   - mgl32.Quat: the interpolated rotation
func SampleRotation(track []RotationKey, t float32) mgl32.Quat {
	return sample(track, t, mgl32.QuatIdent(), slerpQuat)
}

// sample implements the shared bracket search:
//   - the bracket is the first pair (i-1, i), i >= 1, with track[i].Time >= t;
//   - times before the first key extrapolate along the first pair (ratio < 0);
//   - times past the last key, and single-key tracks, return the last value;
//   - t equal to a key time returns that key's value exactly.
func sample[V any](track []KeyFrame[V], t float32, identity V, interp func(a, b V, ratio float32) V) V {
	n := len(track)
	if n == 0 {
		return identity
	}
	if t == track[0].Time {
		return track[0].Value
	}

	i := bracket(track, t)
	if i == n {
		return track[n-1].Value
	}

	prev, next := track[i-1], track[i]
	if next.Time == t {
		return next.Value
	}
	ratio := (t - prev.Time) / (next.Time - prev.Time)
	return interp(prev.Value, next.Value, ratio)
}

// bracket returns the smallest index i >= 1 with track[i].Time >= t, or len(track) if there is none.
// Keys are sorted, so a binary search gives the same answer as a forward scan.
func bracket[V any](track []KeyFrame[V], t float32) int {
	return 1 + sort.Search(len(track)-1, func(j int) bool {
		return track[j+1].Time >= t
	})
}

// mixVec3 is a*(1-r) + b*r, exact at both ends.
func mixVec3(a, b mgl32.Vec3, r float32) mgl32.Vec3 {
	return a.Mul(1 - r).Add(b.Mul(r))
}

// slerpQuat interpolates along the shorter arc.
func slerpQuat(a, b mgl32.Quat, r float32) mgl32.Quat {
	switch r {
	case 0:
		return a
	case 1:
		return b
	}
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, r)
}
