package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsPerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	var out bytes.Buffer
	p := NewProfiler(
		WithInterval(2*time.Second),
		WithClock(clock.now),
		WithLogger(slog.New(slog.NewTextHandler(&out, nil))),
	)

	clock.t = clock.t.Add(time.Second)
	assert.False(t, p.Tick(10))
	assert.Empty(t, out.String())

	clock.t = clock.t.Add(time.Second)
	assert.True(t, p.Tick(30))
	assert.InDelta(t, 1.0, p.Last().FramesPerSecond, 1e-9)
	assert.InDelta(t, 20.0, p.Last().EvaluationsPerSecond, 1e-9)
	assert.Contains(t, out.String(), "evals_per_sec=20")

	clock.t = clock.t.Add(4 * time.Second)
	assert.True(t, p.Tick(8))
	assert.InDelta(t, 2.0, p.Last().EvaluationsPerSecond, 1e-9, "counters reset after a report")
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithLogger(slog.New(slog.DiscardHandler)))
	assert.Equal(t, time.Second, p.updateInterval)
}
