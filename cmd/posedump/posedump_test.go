package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-skin/engine/animation"
	"github.com/Carmen-Shannon/oxy-skin/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tailModel(t *testing.T, withClips bool) model.Model {
	t.Helper()
	skel, err := animation.NewSkeleton([]animation.Bone{
		{Parent: animation.NoParent, Offset: mgl32.Ident4()},
		{Parent: 0, Offset: mgl32.Ident4()},
	}, []string{"base", "tip"})
	require.NoError(t, err)

	opts := []model.ModelBuilderOption{model.WithName("tail"), model.WithSkeleton(skel)}
	if withClips {
		wag, err := animation.NewAnimation("wag", 2, 1, []animation.BoneKeyFrames{
			{Positions: []animation.PositionKey{{Time: 0}, {Time: 2, Value: mgl32.Vec3{2, 0, 0}}}},
			{Positions: []animation.PositionKey{{Time: 0, Value: mgl32.Vec3{0, 1, 0}}}},
		})
		require.NoError(t, err)
		curl, err := animation.NewAnimation("curl", 1, 1, make([]animation.BoneKeyFrames, 2))
		require.NoError(t, err)
		opts = append(opts, model.WithAnimations(wag, curl))
	}
	return model.NewModel(opts...)
}

func TestParseTimes(t *testing.T) {
	got, err := parseTimes("0, 0.5,,2")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0.5, 2}, got)

	_, err = parseTimes("1,x")
	assert.ErrorContains(t, err, `"x"`)
	_, err = parseTimes(" , ")
	assert.Error(t, err)
}

func TestInputPath(t *testing.T) {
	p, err := inputPath("arm.toml", "")
	require.NoError(t, err)
	assert.Equal(t, "arm.toml", p)

	_, err = inputPath("", "")
	assert.Error(t, err)
	_, err = inputPath("a.toml", "b.glb")
	assert.Error(t, err)
}

func TestResolveClip(t *testing.T) {
	rig, err := tailModel(t, true).Rig()
	require.NoError(t, err)

	tests := []struct {
		selector string
		want     int
		wantErr  bool
	}{
		{"", 0, false},
		{"curl", 1, false},
		{"1", 1, false},
		{"2", -1, true},
		{"sit", -1, true},
	}
	for _, tt := range tests {
		got, err := resolveClip(rig, tt.selector)
		assert.Equal(t, tt.want, got, "selector %q", tt.selector)
		assert.Equal(t, tt.wantErr, err != nil, "selector %q", tt.selector)
	}

	bare, err := tailModel(t, false).Rig()
	require.NoError(t, err)
	got, err := resolveClip(bare, "")
	require.NoError(t, err)
	assert.Equal(t, -1, got)
}

func TestDumpPosesPrintsEveryBone(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, dumpPoses(&out, tailModel(t, true), "wag", []float32{1}))

	text := out.String()
	assert.Contains(t, text, "tail wag t=1\n")
	assert.Contains(t, text, "[0] base")
	assert.Contains(t, text, "[1] tip")
	// tip translation column at t=1 is (1, 1, 0)
	lines := strings.Split(text, "\n")
	require.Greater(t, len(lines), 11)
	assert.Equal(t, []string{"1.0000", "0.0000", "0.0000", "1.0000"}, strings.Fields(lines[7]))
	assert.Equal(t, []string{"0.0000", "1.0000", "0.0000", "1.0000"}, strings.Fields(lines[8]))
}

func TestDumpPosesBindPoseWithoutClips(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, dumpPoses(&out, tailModel(t, false), "", []float32{0, 3}))
	assert.Equal(t, 2, strings.Count(out.String(), "tail bind pose"))

	err := dumpPoses(&out, model.NewModel(model.WithName("crate")), "", []float32{0})
	assert.ErrorIs(t, err, model.ErrNotSkinned)
}

func TestRunBench(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	res, err := runBench(tailModel(t, true), benchConfig{Duration: 20 * time.Millisecond, Instances: 9, Workers: 2, Seed: 1}, logger)
	require.NoError(t, err)
	assert.Equal(t, 9, res.Instances)
	assert.Equal(t, 2, res.Bones)
	assert.Positive(t, res.Frames)
	assert.Positive(t, res.EvaluationsPerSecond())

	_, err = runBench(tailModel(t, true), benchConfig{Duration: time.Millisecond}, logger)
	assert.Error(t, err)
}
