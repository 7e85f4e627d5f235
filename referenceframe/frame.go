package referenceframe

import (
	"github.com/pkg/errors"

	"go.viam.com/frametree/spatialmath"
)

type frameOptions struct {
	bodyCentered bool
	updater      TransformUpdater
}

// FrameOption configures a frame at creation.
type FrameOption func(*frameOptions)

// WithBodyCentered marks the frame as attached to, and moving with, a body.
func WithBodyCentered() FrameOption {
	return func(o *frameOptions) {
		o.bodyCentered = true
	}
}

// WithUpdater makes the frame movable: updater produces its transform to parent on every Update.
func WithUpdater(updater TransformUpdater) FrameOption {
	return func(o *frameOptions) {
		o.updater = updater
	}
}

// ReferenceFrame is a coordinate frame in a Tree, defined by a rigid transform to its parent
// frame. The transform to the root is composed along the path from the root and cached until the
// tree changes.
type ReferenceFrame struct {
	tree   *Tree
	id     FrameID
	name   string
	parent FrameID
	// path holds the ids from the root down to and including this frame.
	path []FrameID

	// guarded by tree.mu
	transformToParent      *spatialmath.RigidTransform
	transformToRoot        *spatialmath.RigidTransform
	inverseTransformToRoot *spatialmath.RigidTransform
	version                int64

	isWorld        bool
	isBodyCentered bool
	updater        TransformUpdater
}

// Name returns the name of the frame.
func (f *ReferenceFrame) Name() string {
	return f.name
}

// ID returns the id of the frame within its tree.
func (f *ReferenceFrame) ID() FrameID {
	return f.id
}

// Tree returns the tree that owns the frame.
func (f *ReferenceFrame) Tree() *Tree {
	return f.tree
}

// Parent returns the parent frame, or nil for a root.
func (f *ReferenceFrame) Parent() *ReferenceFrame {
	if f.parent == noParent {
		return nil
	}
	return f.tree.frameByID(f.parent)
}

// RootFrame returns the root of the tree this frame hangs from.
func (f *ReferenceFrame) RootFrame() *ReferenceFrame {
	return f.tree.frameByID(f.path[0])
}

// Path returns the frames from the root down to and including this frame.
func (f *ReferenceFrame) Path() []*ReferenceFrame {
	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	out := make([]*ReferenceFrame, 0, len(f.path))
	for _, id := range f.path {
		out = append(out, f.tree.frames[id])
	}
	return out
}

// IsRoot reports whether the frame has no parent.
func (f *ReferenceFrame) IsRoot() bool {
	return f.parent == noParent
}

// IsWorldFrame reports whether the frame is its tree's world frame.
func (f *ReferenceFrame) IsWorldFrame() bool {
	return f.isWorld
}

// IsBodyCenteredFrame reports whether the frame was created WithBodyCentered.
func (f *ReferenceFrame) IsBodyCenteredFrame() bool {
	return f.isBodyCentered
}

// IsMovable reports whether the frame has an updater.
func (f *ReferenceFrame) IsMovable() bool {
	return f.updater != nil
}

// TransformToParent returns a copy of the transform from this frame to its parent.
func (f *ReferenceFrame) TransformToParent() *spatialmath.RigidTransform {
	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	return f.transformToParent.Clone()
}

// SetTransformToParent overwrites the transform from this frame to its parent. This is a write to
// the tree: every cached transform to root goes stale.
func (f *ReferenceFrame) SetTransformToParent(t *spatialmath.RigidTransform) {
	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	f.transformToParent.Set(t)
	f.tree.version.Inc()
}

// Update refreshes the frame: a movable frame first asks its updater for a new transform to
// parent, then the transform to root is recomposed along the path from the root and every frame
// on that path is stamped fresh.
func (f *ReferenceFrame) Update() error {
	var next *spatialmath.RigidTransform
	if f.updater != nil {
		// The updater runs outside the lock, it may be slow or call back into the tree.
		next = f.TransformToParent()
		if err := f.updater.UpdateTransformToParent(next); err != nil {
			return errors.Wrapf(err, "updating transform of frame %q", f.name)
		}
	}

	toParent := next
	if toParent == nil {
		toParent = f.TransformToParent()
	}
	if err := f.tree.checkOrthonormality(f, toParent); err != nil {
		return err
	}

	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	if next != nil {
		f.transformToParent.Set(next)
	}
	f.composeLocked(f.tree.version.Inc())
	return nil
}

// composeLocked rebuilds the transform to root of every frame on the path, root first, and stamps
// them with version. Callers hold tree.mu.
func (f *ReferenceFrame) composeLocked(version int64) {
	acc := spatialmath.NewRigidTransform()
	for _, id := range f.path {
		node := f.tree.frames[id]
		acc.Multiply(node.transformToParent)
		node.transformToRoot.Set(acc)
		node.inverseTransformToRoot.SetInverse(acc)
		node.version = version
	}
}

// refreshLocked recomposes the cached transforms only if the stamp is stale. Callers hold tree.mu.
func (f *ReferenceFrame) refreshLocked() {
	if current := f.tree.version.Load(); f.version != current {
		f.composeLocked(current)
	}
}

// refresh runs Update when the cached stamp is stale, so a movable frame asks its updater for a
// new pose before it is read.
func (f *ReferenceFrame) refresh() error {
	if f.IsFresh() {
		return nil
	}
	return f.Update()
}

// IsFresh reports whether the cached transform to root matches the current tree version.
func (f *ReferenceFrame) IsFresh() bool {
	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	return f.version == f.tree.version.Load()
}

// refreshOrWarn is refresh for the reads that cannot return an error. A failed update leaves the
// last transform to parent in place.
func (f *ReferenceFrame) refreshOrWarn() {
	if err := f.refresh(); err != nil {
		f.tree.logger.Warnw("failed to update frame, using its last transform to parent",
			"tree", f.tree.name,
			"frame", f.name,
			"error", err,
		)
	}
}

// TransformToRoot returns the transform that re-expresses coordinates given in this frame in the
// coordinates of its root. A stale frame is updated first, which runs its updater if it has one.
// Update errors are logged; use TransformToFrame to receive them.
func (f *ReferenceFrame) TransformToRoot() *spatialmath.RigidTransform {
	f.refreshOrWarn()
	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	f.refreshLocked()
	return f.transformToRoot.Clone()
}

// InverseTransformToRoot returns the inverse of TransformToRoot, with the same staleness rule.
func (f *ReferenceFrame) InverseTransformToRoot() *spatialmath.RigidTransform {
	f.refreshOrWarn()
	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	f.refreshLocked()
	return f.inverseTransformToRoot.Clone()
}

// TransformToFrame returns the transform that re-expresses coordinates given in this frame in the
// coordinates of other: inverse(other to root) * (this to root). Both frames must share a root.
// Stale frames are updated first and an update error is returned.
func (f *ReferenceFrame) TransformToFrame(other *ReferenceFrame) (*spatialmath.RigidTransform, error) {
	if err := f.VerifySameRoot(other); err != nil {
		return nil, err
	}
	if err := f.refresh(); err != nil {
		return nil, err
	}
	if err := other.refresh(); err != nil {
		return nil, err
	}
	// updating other bumps the version again, so both are recomposed at one version under the lock
	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	f.refreshLocked()
	other.refreshLocked()
	return spatialmath.Compose(other.inverseTransformToRoot, f.transformToRoot), nil
}

// VerifySameRoot returns an error unless both frames hang from the same root of the same tree.
func (f *ReferenceFrame) VerifySameRoot(other *ReferenceFrame) error {
	if f == nil {
		return NewFrameMissingError()
	}
	if other == nil {
		return NewParentFrameMissingError()
	}
	root, otherRoot := f.RootFrame(), other.RootFrame()
	if root != otherRoot {
		return NewFramesHaveDifferentRootsError(f.name, root.name, other.name, otherRoot.name)
	}
	return nil
}

// CheckFramesMatch returns an error unless other is this very frame. Frames are compared by
// identity, never by name, and a nil frame matches nothing.
func (f *ReferenceFrame) CheckFramesMatch(other *ReferenceFrame) error {
	if f == nil || f != other {
		return NewFrameMismatchError(frameName(f), frameName(other))
	}
	return nil
}

func frameName(f *ReferenceFrame) string {
	if f == nil {
		return "<nil>"
	}
	return f.name
}

func (f *ReferenceFrame) String() string {
	return frameName(f)
}
