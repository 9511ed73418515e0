//go:build !animdebug

package animation

// debugAssertions is off in release builds; out-of-range times clamp to the last keyframe.
const debugAssertions = false
