package referenceframe

import (
	"fmt"

	"go.viam.com/frametree/spatialmath"
)

// PoseInFrame is a data structure that packages a pose with the frame in which it was observed.
// The pose maps coordinates of the posed body into coordinates of that frame.
type PoseInFrame struct {
	name  string
	frame *ReferenceFrame
	pose  *spatialmath.RigidTransform
}

// NewPoseInFrame creates a pose in the given frame. The pose is copied.
func NewPoseInFrame(name string, frame *ReferenceFrame, pose *spatialmath.RigidTransform) *PoseInFrame {
	return &PoseInFrame{name: name, frame: frame, pose: pose.Clone()}
}

// Name returns the name of the posed body.
func (pF *PoseInFrame) Name() string {
	return pF.name
}

// Frame returns the frame in which the pose was observed.
func (pF *PoseInFrame) Frame() *ReferenceFrame {
	return pF.frame
}

// Pose returns a copy of the pose.
func (pF *PoseInFrame) Pose() *spatialmath.RigidTransform {
	return pF.pose.Clone()
}

// ChangeFrame re-expresses the pose relative to target and rebinds it to target.
func (pF *PoseInFrame) ChangeFrame(target *ReferenceFrame) error {
	t, err := pF.frame.TransformToFrame(target)
	if err != nil {
		return err
	}
	pF.pose = spatialmath.Compose(t, pF.pose)
	pF.frame = target
	return nil
}

// AlmostEqual reports whether both poses are in the same frame and agree within epsilon.
func (pF *PoseInFrame) AlmostEqual(other *PoseInFrame, epsilon float64) bool {
	return pF.frame == other.frame && pF.pose.EpsilonEquals(other.pose, epsilon)
}

func (pF *PoseInFrame) String() string {
	return fmt.Sprintf("%s in %s: %s", pF.name, pF.frame, pF.pose)
}
