package animation

import "errors"

// Construction-time validation errors. They are returned wrapped with the
// offending bone, track, or clip, so callers should match with errors.Is.
var (
	// ErrParentOutOfRange is returned when a bone references a parent index that does not exist.
	ErrParentOutOfRange = errors.New("bone parent index out of range")

	// ErrParentOrder is returned when a bone is stored before its parent.
	ErrParentOrder = errors.New("bone stored before its parent")

	// ErrBoneNameCount is returned when the bone and bone name slices differ in length.
	ErrBoneNameCount = errors.New("bone name count does not match bone count")

	// ErrDuplicateBoneName is returned when two bones share a name.
	ErrDuplicateBoneName = errors.New("duplicate bone name")

	// ErrUnknownParent is returned by the SkeletonBuilder when a parent name was never added.
	ErrUnknownParent = errors.New("unknown parent bone")

	// ErrCyclicHierarchy is returned by the SkeletonBuilder when bones cannot be ordered parents-first.
	ErrCyclicHierarchy = errors.New("bone hierarchy contains a cycle")

	// ErrKeyframeOrder is returned when a track's timestamps are not strictly increasing.
	ErrKeyframeOrder = errors.New("keyframe times must be strictly increasing")

	// ErrInvalidDuration is returned for negative or non-finite clip durations.
	ErrInvalidDuration = errors.New("invalid animation duration")

	// ErrBoneCountMismatch is returned when an animation and a skeleton disagree on bone count.
	ErrBoneCountMismatch = errors.New("animation bone count does not match skeleton")

	// ErrNilSkeleton is returned when a rig is built without a skeleton.
	ErrNilSkeleton = errors.New("skeleton is nil")
)
