package referenceframe

import (
	"math/rand"
	"sync"

	"go.viam.com/frametree/spatialmath"
)

// TransformUpdater computes a fresh transform to parent for a movable frame. The transform passed
// in holds the previous value and is overwritten in place.
type TransformUpdater interface {
	UpdateTransformToParent(transformToParent *spatialmath.RigidTransform) error
}

// UpdaterFunc adapts a plain function to a TransformUpdater.
type UpdaterFunc func(transformToParent *spatialmath.RigidTransform) error

// UpdateTransformToParent calls fn.
func (fn UpdaterFunc) UpdateTransformToParent(transformToParent *spatialmath.RigidTransform) error {
	return fn(transformToParent)
}

type randomlyChangingUpdater struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomlyChangingUpdater returns an updater that moves its frame to a new random pose on every
// update.
func NewRandomlyChangingUpdater(rng *rand.Rand) TransformUpdater {
	return &randomlyChangingUpdater{rng: rng}
}

func (u *randomlyChangingUpdater) UpdateTransformToParent(transformToParent *spatialmath.RigidTransform) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	transformToParent.Set(spatialmath.RandomRigidTransform(u.rng))
	return nil
}

// NewRandomUnchangingFrame creates a static frame under parent whose pose is drawn at random once,
// at construction.
func NewRandomUnchangingFrame(tree *Tree, name string, parent *ReferenceFrame, rng *rand.Rand) (*ReferenceFrame, error) {
	return tree.NewFrame(name, parent, spatialmath.RandomRigidTransform(rng))
}

// NewRandomlyChangingFrame creates a frame under parent that takes a new random pose on every
// Update.
func NewRandomlyChangingFrame(tree *Tree, name string, parent *ReferenceFrame, rng *rand.Rand) (*ReferenceFrame, error) {
	return tree.NewMovableFrame(name, parent, NewRandomlyChangingUpdater(rng))
}
