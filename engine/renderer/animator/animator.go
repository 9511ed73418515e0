package animator

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-skin/engine/animation"
	"github.com/Carmen-Shannon/oxy-skin/engine/model"
	"github.com/Carmen-Shannon/oxy-skin/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	model model.Model
	rig   *animation.Rig

	maxInstances, instanceCount, boneCount uint32

	// players holds one playback state per live instance; slots past instanceCount are nil.
	players []*animation.Player

	// palette is instance-major: instance i owns palette[i*boneCount : (i+1)*boneCount].
	palette []mgl32.Mat4

	outputProvider  bind_group_provider.BindGroupProvider
	outputBinding   int
	stagedWriteData []bind_group_provider.BufferWrite

	// staging is reused every frame; wgpu's queue.WriteBuffer copies before returning.
	staging []byte

	needsRebuild bool

	workers int
	pool    worker.DynamicWorkerPool
	taskID  int

	logger *slog.Logger
}

// Animator drives skeletal playback for many instances of one skinned Model.
//
// Each instance owns an animation.Player. PrepareFrame advances every player, evaluates the
// per-instance skinning palettes in parallel, and stages a single buffer write covering all
// live palettes for the output BindGroupProvider. Methods taking an instance index no-op
// (or return the zero value) when the index is out of range.
type Animator interface {
	// Model returns the Model this animator plays.
	//
	// Returns:
	//   - model.Model: the animated model
	Model() model.Model

	// MaxInstances returns the current instance capacity.
	//
	// Returns:
	//   - uint32: the number of instances palette space is allocated for
	MaxInstances() uint32

	// InstanceCount returns the number of live instances.
	//
	// Returns:
	//   - uint32: the live instance count
	InstanceCount() uint32

	// BoneCount returns the number of bones in the model's skeleton.
	//
	// Returns:
	//   - uint32: the number of palette entries per instance
	BoneCount() uint32

	// OutputBindGroupProvider returns the BindGroupProvider whose buffer receives the palettes.
	// Its buffer size for the output binding always matches MaxInstances.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the output BindGroupProvider
	OutputBindGroupProvider() bind_group_provider.BindGroupProvider

	// BoneLayoutEntry returns the layout entry for the palette storage buffer.
	//
	// Parameters:
	//   - binding: the binding index to use in the entry
	//
	// Returns:
	//   - wgpu.BindGroupLayoutEntry: a read-only storage entry visible to the vertex and compute stages
	BoneLayoutEntry(binding int) wgpu.BindGroupLayoutEntry

	// AddInstance registers a new instance playing the first clip from its start.
	// When capacity is exhausted the animator grows to twice its capacity (minimum 8).
	//
	// Returns:
	//   - uint32: the index of the new instance
	//   - error: always nil, kept for parity with other GPU resource owners
	AddInstance() (uint32, error)

	// Grow raises the instance capacity to newMax, preserving every live instance.
	// Pending staged writes are discarded and NeedsRebuild reports true until cleared.
	// No-op if newMax is not larger than the current capacity.
	//
	// Parameters:
	//   - newMax: the new instance capacity
	Grow(newMax uint32)

	// RemoveInstance removes the instance at index by moving the last instance into its slot.
	//
	// Parameters:
	//   - index: the instance index to remove
	//
	// Returns:
	//   - uint32: the old index of the instance moved into the slot (only meaningful when bool is true)
	//   - bool: true if the last instance was moved into the removed slot
	RemoveInstance(index uint32) (uint32, bool)

	// NeedsRebuild reports whether the GPU palette buffer must be recreated after a Grow.
	//
	// Returns:
	//   - bool: true if a rebuild is pending
	NeedsRebuild() bool

	// ClearNeedsRebuild resets the rebuild flag once the GPU buffer has been recreated.
	ClearNeedsRebuild()

	// PlayAnimation starts a clip from its beginning, cancelling any blend.
	//
	// Parameters:
	//   - instanceIndex: the instance to control
	//   - clipIndex: the clip to play
	//   - loop: whether playback wraps at the end of the clip
	PlayAnimation(instanceIndex, clipIndex uint32, loop bool)

	// BlendToAnimation cross-fades from the current clip to another over blendDuration seconds.
	//
	// Parameters:
	//   - instanceIndex: the instance to control
	//   - targetClipIndex: the clip to blend into
	//   - blendDuration: the blend length in seconds; zero switches immediately
	BlendToAnimation(instanceIndex, targetClipIndex uint32, blendDuration float32)

	// SetAnimationTime moves the playhead of the current clip.
	//
	// Parameters:
	//   - instanceIndex: the instance to control
	//   - seconds: the new playback position in seconds
	SetAnimationTime(instanceIndex uint32, seconds float32)

	// AnimationTime returns the playhead of the current clip.
	//
	// Parameters:
	//   - instanceIndex: the instance to query
	//
	// Returns:
	//   - float32: the playback position in seconds, or 0 without a clip
	AnimationTime(instanceIndex uint32) float32

	// SetAnimationSpeed sets the playback speed multiplier. Negative speeds play backwards.
	//
	// Parameters:
	//   - instanceIndex: the instance to control
	//   - speed: the speed multiplier
	SetAnimationSpeed(instanceIndex uint32, speed float32)

	// IsBlending reports whether the instance is cross-fading between clips.
	//
	// Parameters:
	//   - instanceIndex: the instance to query
	//
	// Returns:
	//   - bool: true while a blend is active
	IsBlending(instanceIndex uint32) bool

	// BlendProgress returns the blend weight towards the target clip.
	//
	// Parameters:
	//   - instanceIndex: the instance to query
	//
	// Returns:
	//   - float32: progress in [0, 1), or 0 when not blending
	BlendProgress(instanceIndex uint32) float32

	// CancelBlend stops an active blend and keeps playing the source clip.
	//
	// Parameters:
	//   - instanceIndex: the instance to control
	CancelBlend(instanceIndex uint32)

	// PrepareFrame advances every instance by deltaTime seconds, evaluates all palettes, and
	// stages one write of the live palette range to the output provider.
	//
	// Parameters:
	//   - deltaTime: elapsed wall time in seconds
	PrepareFrame(deltaTime float32)

	// Palette returns a copy of the instance's palette from the last PrepareFrame.
	//
	// Parameters:
	//   - instanceIndex: the instance to query
	//
	// Returns:
	//   - []mgl32.Mat4: BoneCount skinning matrices, or nil for a bad index
	Palette(instanceIndex uint32) []mgl32.Mat4

	// StagedWriteData drains the buffer writes staged since the last call.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: the pending writes
	StagedWriteData() []bind_group_provider.BufferWrite

	// Release frees the output provider's GPU resources and drops all instance state.
	Release()
}

var _ Animator = &animator{}

// NewAnimator creates an Animator for a skinned Model. The model's rig is validated here, so
// per-frame evaluation never re-checks bone counts.
//
// Parameters:
//   - m: the skinned Model to animate
//   - options: variadic list of AnimatorBuilderOption functions to configure the Animator
//
// Returns:
//   - Animator: the configured animator
//   - error: an error if the model has no valid rig
func NewAnimator(m model.Model, options ...AnimatorBuilderOption) (Animator, error) {
	if m == nil {
		return nil, fmt.Errorf("new animator: %w", model.ErrNotSkinned)
	}
	rig, err := m.Rig()
	if err != nil {
		return nil, fmt.Errorf("new animator for %q: %w", m.Name(), err)
	}

	a := &animator{
		mu:           &sync.Mutex{},
		model:        m,
		rig:          rig,
		boneCount:    uint32(rig.Skeleton().Len()),
		maxInstances: 1,
		logger:       slog.Default(),
	}
	for _, opt := range options {
		opt(a)
	}
	if a.workers < 1 {
		a.workers = runtime.NumCPU()
	}

	a.players = make([]*animation.Player, a.maxInstances)
	a.palette = make([]mgl32.Mat4, a.maxInstances*a.boneCount)
	a.staging = make([]byte, a.paletteBytes())
	a.outputProvider = bind_group_provider.NewBindGroupProvider(
		m.Name()+" bone palette",
		bind_group_provider.WithBufferSize(a.outputBinding, a.paletteBytes()),
	)
	a.pool = worker.NewDynamicWorkerPool(a.workers, 256, 1*time.Second)

	a.logger.Debug("animator created",
		"model", m.Name(),
		"bones", a.boneCount,
		"clips", rig.AnimationCount(),
		"capacity", a.maxInstances,
		"workers", a.workers,
	)
	return a, nil
}

// paletteBytes is the byte size of the full palette buffer at the current capacity.
// Empty skeletons still report one matrix so the GPU buffer is never zero sized.
func (a *animator) paletteBytes() uint64 {
	n := uint64(a.maxInstances) * uint64(a.boneCount)
	if n == 0 {
		n = 1
	}
	return n * GPUBoneMatrixSize
}

func (a *animator) Model() model.Model {
	return a.model
}

func (a *animator) MaxInstances() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.maxInstances
}

func (a *animator) InstanceCount() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.instanceCount
}

func (a *animator) BoneCount() uint32 {
	return a.boneCount
}

func (a *animator) OutputBindGroupProvider() bind_group_provider.BindGroupProvider {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outputProvider
}

func (a *animator) BoneLayoutEntry(binding int) wgpu.BindGroupLayoutEntry {
	return boneLayoutEntry(binding, a.boneCount)
}

func (a *animator) AddInstance() (uint32, error) {
	a.mu.Lock()
	// Auto-grow: double capacity (minimum 8). Grow takes its own lock, and other callers may
	// fill the new room before we get the lock back, so check again.
	for a.instanceCount >= a.maxInstances {
		newCap := max(a.maxInstances*2, 8)
		a.mu.Unlock()
		a.Grow(newCap)
		a.mu.Lock()
	}
	idx := a.instanceCount
	a.players[idx] = animation.NewPlayer(a.rig)
	a.instanceCount++
	a.mu.Unlock()
	return idx, nil
}

func (a *animator) Grow(newMax uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if newMax <= a.maxInstances {
		return
	}

	players := make([]*animation.Player, newMax)
	copy(players, a.players[:a.instanceCount])
	a.players = players

	palette := make([]mgl32.Mat4, newMax*a.boneCount)
	copy(palette, a.palette[:a.instanceCount*a.boneCount])
	a.palette = palette

	old := a.maxInstances
	a.maxInstances = newMax
	a.staging = make([]byte, a.paletteBytes())
	if a.outputProvider != nil {
		a.outputProvider.SetBufferSize(a.outputBinding, a.paletteBytes())
	}

	a.stagedWriteData = a.stagedWriteData[:0]
	a.needsRebuild = true
	a.logger.Debug("animator grown", "model", a.model.Name(), "from", old, "to", newMax)
}

func (a *animator) RemoveInstance(index uint32) (uint32, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.instanceCount == 0 || index >= a.instanceCount {
		return 0, false
	}

	last := a.instanceCount - 1
	swapped := index != last
	if swapped {
		a.players[index] = a.players[last]
		b := a.boneCount
		copy(a.palette[index*b:(index+1)*b], a.palette[last*b:(last+1)*b])
	}
	a.players[last] = nil
	a.instanceCount--
	return last, swapped
}

func (a *animator) NeedsRebuild() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.needsRebuild
}

func (a *animator) ClearNeedsRebuild() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.needsRebuild = false
}

// player returns the live player at index. The caller must hold a.mu.
func (a *animator) player(index uint32) *animation.Player {
	if index >= a.instanceCount {
		return nil
	}
	return a.players[index]
}

// validClip reports whether clip names one of the rig's animations.
func (a *animator) validClip(clip uint32) bool {
	return int(clip) < a.rig.AnimationCount()
}

func (a *animator) PlayAnimation(instanceIndex, clipIndex uint32, loop bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.player(instanceIndex)
	if p == nil || !a.validClip(clipIndex) {
		return
	}
	p.Play(int(clipIndex), loop)
}

func (a *animator) BlendToAnimation(instanceIndex, targetClipIndex uint32, blendDuration float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.player(instanceIndex)
	if p == nil || !a.validClip(targetClipIndex) {
		return
	}
	p.BlendTo(int(targetClipIndex), blendDuration)
}

func (a *animator) SetAnimationTime(instanceIndex uint32, seconds float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.player(instanceIndex)
	if p == nil {
		return
	}
	if anim := a.rig.Animation(p.Clip()); anim != nil {
		p.SetTime(anim.SecondsToTicks(seconds))
	}
}

func (a *animator) AnimationTime(instanceIndex uint32) float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.player(instanceIndex)
	if p == nil {
		return 0
	}
	if anim := a.rig.Animation(p.Clip()); anim != nil {
		return anim.TicksToSeconds(p.Time())
	}
	return 0
}

func (a *animator) SetAnimationSpeed(instanceIndex uint32, speed float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p := a.player(instanceIndex); p != nil {
		p.SetSpeed(speed)
	}
}

func (a *animator) IsBlending(instanceIndex uint32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.player(instanceIndex)
	return p != nil && p.Blending()
}

func (a *animator) BlendProgress(instanceIndex uint32) float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p := a.player(instanceIndex); p != nil {
		return p.BlendProgress()
	}
	return 0
}

func (a *animator) CancelBlend(instanceIndex uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p := a.player(instanceIndex); p != nil {
		p.CancelBlend()
	}
}

func (a *animator) PrepareFrame(deltaTime float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.instanceCount == 0 || a.outputProvider == nil {
		return
	}

	for i := range a.instanceCount {
		a.players[i].Advance(deltaTime)
	}
	a.evaluatePalettes()

	live := GPUBonePalette(a.palette[:a.instanceCount*a.boneCount])
	if len(live) == 0 {
		return
	}
	buf := a.staging[:live.Size()]
	copy(buf, live.Bytes())

	// Every frame rewrites the whole live range, so an undrained write is superseded.
	a.stagedWriteData = append(a.stagedWriteData[:0], bind_group_provider.BufferWrite{
		Provider: a.outputProvider,
		Binding:  a.outputBinding,
		Offset:   0,
		Data:     buf,
	})
}

// evaluatePalettes fills the live palette range. Instances are split into contiguous runs,
// one pool task per run, each writing a disjoint sub-slice. The caller must hold a.mu.
func (a *animator) evaluatePalettes() {
	count := int(a.instanceCount)
	bones := int(a.boneCount)
	runs := min(a.workers, count)
	if runs <= 1 {
		for i := range count {
			a.players[i].PoseInto(a.palette[i*bones : (i+1)*bones])
		}
		return
	}

	per := (count + runs - 1) / runs
	var wg sync.WaitGroup
	for start := 0; start < count; start += per {
		end := min(start+per, count)
		players := a.players[start:end]
		out := a.palette[start*bones : end*bones]

		wg.Add(1)
		id := a.taskID
		a.taskID++
		a.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for j, p := range players {
					p.PoseInto(out[j*bones : (j+1)*bones])
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (a *animator) Palette(instanceIndex uint32) []mgl32.Mat4 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if instanceIndex >= a.instanceCount {
		return nil
	}
	b := a.boneCount
	out := make([]mgl32.Mat4, b)
	copy(out, a.palette[instanceIndex*b:(instanceIndex+1)*b])
	return out
}

func (a *animator) StagedWriteData() []bind_group_provider.BufferWrite {
	a.mu.Lock()
	defer a.mu.Unlock()
	w := a.stagedWriteData
	a.stagedWriteData = a.stagedWriteData[:0]
	return w
}

func (a *animator) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.outputProvider != nil {
		a.outputProvider.Release()
		a.outputProvider = nil
	}
	a.players = nil
	a.palette = nil
	a.staging = nil
	a.stagedWriteData = nil
	a.instanceCount = 0
	a.maxInstances = 0
}
