package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-skin/engine/loader"
)

func main() {
	rigPath := flag.String("rig", "", "Path to a TOML rig description")
	gltfPath := flag.String("gltf", "", "Path to a .gltf or .glb file")
	skin := flag.String("skin", "", "glTF skin to import (default: the skin of the first skinned mesh)")
	clip := flag.String("clip", "", "Animation name or index (default: the first animation)")
	times := flag.String("times", "0", "Comma-separated sample times in ticks")
	bench := flag.Duration("bench", 0, "Run the animator for this long instead of dumping poses")
	instances := flag.Int("instances", 1000, "Animated instances in benchmark mode")
	workers := flag.Int("workers", 0, "Palette workers in benchmark mode (default: NumCPU)")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	path, err := inputPath(*rigPath, *gltfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	ldr := loader.NewLoader(loader.WithLogger(logger), loader.WithSkinName(*skin))
	start := time.Now()
	m, err := ldr.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", path, err)
		os.Exit(1)
	}
	logger.Debug("model loaded", "path", path, "took", time.Since(start).Round(time.Microsecond))

	if *bench > 0 {
		res, err := runBench(m, benchConfig{
			Duration:  *bench,
			Instances: *instances,
			Workers:   *workers,
		}, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%d instances x %d bones: %d frames in %v (%.0f evaluations/s)\n",
			res.Instances, res.Bones, res.Frames, res.Elapsed.Round(time.Millisecond), res.EvaluationsPerSecond())
		return
	}

	sampleTimes, err := parseTimes(*times)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := dumpPoses(os.Stdout, m, *clip, sampleTimes); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// inputPath picks the single model file named on the command line.
func inputPath(rigPath, gltfPath string) (string, error) {
	switch {
	case rigPath != "" && gltfPath != "":
		return "", fmt.Errorf("use only one of -rig and -gltf")
	case rigPath != "":
		return rigPath, nil
	case gltfPath != "":
		return gltfPath, nil
	}
	return "", fmt.Errorf("one of -rig or -gltf is required")
}
