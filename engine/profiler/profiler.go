package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Stats is one reporting window of the Profiler.
type Stats struct {
	FramesPerSecond      float64
	EvaluationsPerSecond float64
	HeapMB, SysMB        float64
	AllocRateMB          float64
	GCCount              uint32
	LastPauseUs          uint64
	MaxPauseUs           uint64
}

// Profiler tracks frame rate, pose evaluation throughput and memory statistics.
// Outputs stats to the logger at a configurable interval.
type Profiler struct {
	frameCount, evalCount int
	lastTime              time.Time
	updateInterval        time.Duration
	memStats              runtime.MemStats
	lastGCCount           uint32
	lastTotalAlloc        uint64
	last                  Stats

	now    func() time.Time
	logger *slog.Logger
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: variadic list of ProfilerBuilderOption functions to configure the Profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		logger:         slog.Default(),
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame with the number of skeleton evaluations done that frame.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, evaluations/s, heap usage, allocation rate, GC count/pause times, total memory.
//
// Parameters:
//   - evaluations: pose evaluations performed since the previous Tick
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(evaluations int) bool {
	p.frameCount++
	p.evalCount += evaluations
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc is live heap, TotalAlloc only grows (tracks churn), Sys is the process footprint.
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	secs := elapsed.Seconds()
	p.last = Stats{
		FramesPerSecond:      float64(p.frameCount) / secs,
		EvaluationsPerSecond: float64(p.evalCount) / secs,
		HeapMB:               float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:                float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB:          float64(allocDelta) / 1024 / 1024 / secs,
		GCCount:              gcCount,
		LastPauseUs:          lastPauseUs,
		MaxPauseUs:           maxPauseUs,
	}

	p.logger.Info("profiler",
		"fps", p.last.FramesPerSecond,
		"evals_per_sec", p.last.EvaluationsPerSecond,
		"heap_mb", p.last.HeapMB,
		"alloc_rate_mb", p.last.AllocRateMB,
		"gc", gcCount,
		"gc_last_us", lastPauseUs,
		"gc_max_us", maxPauseUs,
		"sys_mb", p.last.SysMB,
	)

	p.frameCount = 0
	p.evalCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the stats of the most recent reporting window.
func (p *Profiler) Last() Stats {
	return p.last
}
