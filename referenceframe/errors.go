package referenceframe

import "github.com/pkg/errors"

// NewParentFrameMissingError returns an error indicating that a frame is missing a parent.
func NewParentFrameMissingError() error {
	return errors.New("parent frame is nil")
}

// NewFrameMissingError is returned when a tuple or pose is not bound to any frame.
func NewFrameMissingError() error {
	return errors.New("frame is nil")
}

// NewFramesHaveDifferentRootsError returns an error indicating that two frames do not share a root, so no
// transform between them is defined.
func NewFramesHaveDifferentRootsError(frame1, root1, frame2, root2 string) error {
	return errors.Errorf("frames %q and %q have different roots (%q and %q)", frame1, frame2, root1, root2)
}

// NewFrameMismatchError returns an error indicating that two tuples are expressed in different frames.
func NewFrameMismatchError(expected, actual string) error {
	return errors.Errorf("frame mismatch: expected %q, got %q", expected, actual)
}

// NewTupleLengthError returns an error indicating a tuple was built from the wrong number of elements.
func NewTupleLengthError(length int) error {
	return errors.Errorf("a frame tuple needs exactly 3 elements, got %d", length)
}

// NewForeignParentError returns an error indicating that a parent frame belongs to a different tree.
func NewForeignParentError(parent, tree string) error {
	return errors.Errorf("parent frame %q does not belong to tree %q", parent, tree)
}

// NewFrameNotInTreeError returns an error indicating that a named frame does not exist.
func NewFrameNotInTreeError(name string) error {
	return errors.Errorf("frame with name %q not in tree", name)
}

// NewNotOrthonormalError returns an error indicating that a frame's transform has drifted away from a
// proper rotation.
func NewNotOrthonormalError(frame string, tolerance float64) error {
	return errors.Errorf("transform of frame %q is not orthonormal within %g", frame, tolerance)
}
