package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-skin/engine/animation"
	"github.com/Carmen-Shannon/oxy-skin/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// parseTimes parses a comma-separated list of tick values.
func parseTimes(s string) ([]float32, error) {
	var out []float32
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return nil, fmt.Errorf("bad time %q: %w", field, err)
		}
		out = append(out, float32(v))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no sample times given")
	}
	return out, nil
}

// resolveClip maps a clip name or decimal index to an animation index. An empty selector
// picks the first clip; a rig without clips resolves to -1 (bind pose).
func resolveClip(rig *animation.Rig, selector string) (int, error) {
	if selector == "" {
		if rig.AnimationCount() == 0 {
			return -1, nil
		}
		return 0, nil
	}
	if i := rig.AnimationIndex(selector); i >= 0 {
		return i, nil
	}
	if i, err := strconv.Atoi(selector); err == nil && i >= 0 && i < rig.AnimationCount() {
		return i, nil
	}
	return -1, fmt.Errorf("unknown clip %q", selector)
}

// dumpPoses writes each bone's skinning matrix, row by row, for every sample time.
func dumpPoses(w io.Writer, m model.Model, clipSelector string, times []float32) error {
	rig, err := m.Rig()
	if err != nil {
		return err
	}
	clip, err := resolveClip(rig, clipSelector)
	if err != nil {
		return err
	}

	skel := rig.Skeleton()
	names := skel.Names()
	clipName := "bind pose"
	if a := rig.Animation(clip); a != nil {
		clipName = a.Name()
	}

	for _, t := range times {
		var pose []mgl32.Mat4
		if clip < 0 {
			pose = animation.BindPose(skel)
		} else {
			pose = rig.Evaluate(clip, t)
		}
		if _, err := fmt.Fprintf(w, "%s %s t=%g\n", m.Name(), clipName, t); err != nil {
			return err
		}
		for i, mat := range pose {
			fmt.Fprintf(w, "  [%d] %s\n", i, names[i])
			for r := range 4 {
				fmt.Fprintf(w, "    %10.4f %10.4f %10.4f %10.4f\n", mat.At(r, 0), mat.At(r, 1), mat.At(r, 2), mat.At(r, 3))
			}
		}
	}
	return nil
}
