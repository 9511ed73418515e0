package loader

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions no backend handles.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrNoSkin is returned when a glTF document has no skin, or not the requested one.
	ErrNoSkin = errors.New("no matching skin")

	// ErrUnknownBone is returned when a rig track names a bone the skeleton does not have.
	ErrUnknownBone = errors.New("unknown bone")

	// ErrDuplicateTrack is returned when a rig animation has two tracks for the same bone.
	ErrDuplicateTrack = errors.New("duplicate track")

	// ErrAccessor is returned when a glTF accessor has an unexpected type or length.
	ErrAccessor = errors.New("unexpected accessor data")
)
