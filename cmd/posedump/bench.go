package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Carmen-Shannon/oxy-skin/engine/model"
	"github.com/Carmen-Shannon/oxy-skin/engine/profiler"
	"github.com/Carmen-Shannon/oxy-skin/engine/renderer/animator"
)

// benchFrameTime is the simulated frame step handed to PrepareFrame.
const benchFrameTime = float32(1.0 / 60.0)

type benchConfig struct {
	Duration  time.Duration
	Instances int
	Workers   int
	Seed      int64
}

type benchResult struct {
	Instances, Bones int
	Frames           int
	Elapsed          time.Duration
}

// EvaluationsPerSecond is the skeleton evaluation throughput of the run.
func (r benchResult) EvaluationsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames*r.Instances) / r.Elapsed.Seconds()
}

// runBench spins up an animator with cfg.Instances instances, each playing a random clip from
// a random start time, and prepares frames until cfg.Duration has elapsed.
func runBench(m model.Model, cfg benchConfig, logger *slog.Logger) (benchResult, error) {
	if cfg.Instances < 1 {
		return benchResult{}, fmt.Errorf("benchmark needs at least one instance, got %d", cfg.Instances)
	}
	a, err := animator.NewAnimator(m,
		animator.WithMaxInstances(cfg.Instances),
		animator.WithWorkers(cfg.Workers),
		animator.WithLogger(logger),
	)
	if err != nil {
		return benchResult{}, err
	}
	defer a.Release()

	rng := rand.New(rand.NewSource(cfg.Seed))
	clips := m.AnimationCount()
	for range cfg.Instances {
		idx, err := a.AddInstance()
		if err != nil {
			return benchResult{}, err
		}
		if clips == 0 {
			continue
		}
		a.PlayAnimation(idx, uint32(rng.Intn(clips)), true)
		// Randomize starting time so instances don't all animate in lockstep
		a.SetAnimationTime(idx, rng.Float32()*5.0)
	}

	prof := profiler.NewProfiler(profiler.WithLogger(logger))
	logger.Info("benchmark started",
		"model", m.Name(),
		"instances", cfg.Instances,
		"bones", a.BoneCount(),
		"clips", clips,
		"duration", cfg.Duration,
	)

	res := benchResult{Instances: cfg.Instances, Bones: int(a.BoneCount())}
	start := time.Now()
	for time.Since(start) < cfg.Duration {
		a.PrepareFrame(benchFrameTime)
		a.StagedWriteData()
		res.Frames++
		prof.Tick(cfg.Instances)
	}
	res.Elapsed = time.Since(start)
	return res, nil
}
