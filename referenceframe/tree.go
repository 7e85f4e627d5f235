package referenceframe

import (
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"go.viam.com/frametree/logging"
	"go.viam.com/frametree/spatialmath"
)

// World is the string "world", but made into an exported constant.
const World = "world"

// FrameID is the index of a frame within the tree that owns it.
type FrameID int

const noParent FrameID = -1

// Tree owns a set of reference frames connected to each other by parent links, allowing for
// transformations between any two frames that share a root. Every tree holds a world frame,
// created with the tree, plus any number of additional roots.
//
// A tree carries a version counter. Every write to any frame's transform bumps it, and a frame's
// cached transform to its root is valid only while its stamp matches the counter. A Tree is safe
// for concurrent use.
type Tree struct {
	id     uuid.UUID
	name   string
	logger logging.Logger

	orthonormalityTolerance float64
	strictOrthonormality    bool

	version atomic.Int64

	mu     sync.Mutex
	frames []*ReferenceFrame
	world  *ReferenceFrame
}

// TreeOption configures a Tree.
type TreeOption func(*Tree)

// WithLogger sets the logger the tree reports to.
func WithLogger(logger logging.Logger) TreeOption {
	return func(t *Tree) {
		t.logger = logger
	}
}

// WithOrthonormalityCheck makes every Update verify that the updated frame's transform to its
// parent is orthonormal within tolerance, logging a warning when it is not.
func WithOrthonormalityCheck(tolerance float64) TreeOption {
	return func(t *Tree) {
		t.orthonormalityTolerance = tolerance
	}
}

// WithStrictOrthonormality turns a failed orthonormality check into an Update error. It has no
// effect without WithOrthonormalityCheck.
func WithStrictOrthonormality() TreeOption {
	return func(t *Tree) {
		t.strictOrthonormality = true
	}
}

// NewTree creates a tree containing only its world frame.
func NewTree(name string, opts ...TreeOption) *Tree {
	t := &Tree{
		id:     uuid.New(),
		name:   name,
		logger: logging.Global().Sublogger("tree"),
	}
	for _, opt := range opts {
		opt(t)
	}
	// Stamps start at zero, so begin the counter above them.
	t.version.Store(1)
	t.world = t.addFrame(World, noParent, nil, frameOptions{})
	t.world.isWorld = true
	t.logger.Debugw("created frame tree", "tree", t.name, "id", t.id.String())
	return t
}

// Name returns the name of the tree.
func (t *Tree) Name() string {
	return t.name
}

// ID returns the unique identifier of the tree.
func (t *Tree) ID() uuid.UUID {
	return t.id
}

// World returns the world frame of the tree.
func (t *Tree) World() *ReferenceFrame {
	return t.world
}

// Version returns the current value of the tree's version counter.
func (t *Tree) Version() int64 {
	return t.version.Load()
}

// NewRootFrame creates a parent-less frame with an identity transform to parent. Frames under it
// share no transform with frames under the world or any other root.
func (t *Tree) NewRootFrame(name string) *ReferenceFrame {
	return t.addFrame(name, noParent, nil, frameOptions{})
}

// NewFrame creates a frame under parent. A nil transformToParent means identity. The transform
// is copied.
func (t *Tree) NewFrame(
	name string,
	parent *ReferenceFrame,
	transformToParent *spatialmath.RigidTransform,
	opts ...FrameOption,
) (*ReferenceFrame, error) {
	if parent == nil {
		return nil, NewParentFrameMissingError()
	}
	if parent.tree != t {
		return nil, NewForeignParentError(parent.name, t.name)
	}
	var options frameOptions
	for _, opt := range opts {
		opt(&options)
	}
	return t.addFrame(name, parent.id, transformToParent, options), nil
}

// NewMovableFrame creates a frame under parent whose transform to parent is produced by updater
// on every Update.
func (t *Tree) NewMovableFrame(name string, parent *ReferenceFrame, updater TransformUpdater) (*ReferenceFrame, error) {
	return t.NewFrame(name, parent, nil, WithUpdater(updater))
}

func (t *Tree) addFrame(
	name string,
	parent FrameID,
	transformToParent *spatialmath.RigidTransform,
	options frameOptions,
) *ReferenceFrame {
	toParent := spatialmath.NewRigidTransform()
	if transformToParent != nil {
		toParent.Set(transformToParent)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	f := &ReferenceFrame{
		tree:                   t,
		id:                     FrameID(len(t.frames)),
		name:                   name,
		parent:                 parent,
		transformToParent:      toParent,
		transformToRoot:        spatialmath.NewRigidTransform(),
		inverseTransformToRoot: spatialmath.NewRigidTransform(),
		isBodyCentered:         options.bodyCentered,
		updater:                options.updater,
	}
	if parent == noParent {
		f.path = []FrameID{f.id}
	} else {
		parentPath := t.frames[parent].path
		f.path = make([]FrameID, len(parentPath), len(parentPath)+1)
		copy(f.path, parentPath)
		f.path = append(f.path, f.id)
	}
	t.frames = append(t.frames, f)
	return f
}

func (t *Tree) frameByID(id FrameID) *ReferenceFrame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frames[id]
}

// Frames returns every frame in creation order. Parents always precede their children.
func (t *Tree) Frames() []*ReferenceFrame {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*ReferenceFrame, len(t.frames))
	copy(out, t.frames)
	return out
}

// FrameNames returns the names of every frame in creation order.
func (t *Tree) FrameNames() []string {
	return lo.Map(t.Frames(), func(f *ReferenceFrame, _ int) string {
		return f.name
	})
}

// Frame returns the first frame created with the given name, or nil.
func (t *Tree) Frame(name string) *ReferenceFrame {
	f, ok := lo.Find(t.Frames(), func(f *ReferenceFrame) bool {
		return f.name == name
	})
	if !ok {
		return nil
	}
	return f
}

// Roots returns every parent-less frame, the world first.
func (t *Tree) Roots() []*ReferenceFrame {
	return lo.Filter(t.Frames(), func(f *ReferenceFrame, _ int) bool {
		return f.IsRoot()
	})
}

// Children returns the frames whose parent is f.
func (t *Tree) Children(f *ReferenceFrame) []*ReferenceFrame {
	return lo.Filter(t.Frames(), func(c *ReferenceFrame, _ int) bool {
		return c.parent == f.id && c.tree == f.tree
	})
}

// UpdateAll updates every frame in creation order, so every parent is updated before its
// children. Errors are collected and the remaining frames are still updated.
func (t *Tree) UpdateAll() error {
	var errs error
	for _, f := range t.Frames() {
		errs = multierr.Append(errs, f.Update())
	}
	return errs
}

// checkOrthonormality reports a frame whose transform to parent has drifted from a rotation.
func (t *Tree) checkOrthonormality(f *ReferenceFrame, toParent *spatialmath.RigidTransform) error {
	if t.orthonormalityTolerance <= 0 || toParent.IsOrthonormal(t.orthonormalityTolerance) {
		return nil
	}
	t.logger.Warnw("frame transform is not orthonormal",
		"tree", t.name,
		"frame", f.name,
		"tolerance", t.orthonormalityTolerance,
		"determinant", toParent.Determinant(),
	)
	if t.strictOrthonormality {
		return NewNotOrthonormalError(f.name, t.orthonormalityTolerance)
	}
	return nil
}
