//go:build animdebug

package animation

// debugAssertions enables the per-evaluation time range checks. Build with -tags animdebug.
const debugAssertions = true
