package referenceframe

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/frametree/utils"
)

// Tuple is implemented by FramePoint and FrameVector.
type Tuple interface {
	tuple() *FrameTuple
}

// FrameTuple is a named triple of coordinates expressed in a reference frame. Arithmetic between
// tuples is only defined when both are expressed in the very same frame.
type FrameTuple struct {
	name  string
	frame *ReferenceFrame
	vec   r3.Vector
}

func (ft *FrameTuple) tuple() *FrameTuple {
	return ft
}

// Name returns the name of the tuple.
func (ft *FrameTuple) Name() string {
	return ft.name
}

// Frame returns the frame the coordinates are expressed in.
func (ft *FrameTuple) Frame() *ReferenceFrame {
	return ft.frame
}

// Vector returns the coordinates.
func (ft *FrameTuple) Vector() r3.Vector {
	return ft.vec
}

// X returns the x coordinate.
func (ft *FrameTuple) X() float64 {
	return ft.vec.X
}

// Y returns the y coordinate.
func (ft *FrameTuple) Y() float64 {
	return ft.vec.Y
}

// Z returns the z coordinate.
func (ft *FrameTuple) Z() float64 {
	return ft.vec.Z
}

// Set overwrites the coordinates without changing the frame.
func (ft *FrameTuple) Set(x, y, z float64) {
	ft.vec = r3.Vector{X: x, Y: y, Z: z}
}

// Length returns the Euclidean norm.
func (ft *FrameTuple) Length() float64 {
	return ft.vec.Norm()
}

// Scale multiplies every coordinate by s.
func (ft *FrameTuple) Scale(s float64) {
	ft.vec = ft.vec.Mul(s)
}

// CheckFramesMatch returns an error unless other is expressed in the same frame as ft.
func (ft *FrameTuple) CheckFramesMatch(other Tuple) error {
	return ft.frame.CheckFramesMatch(other.tuple().frame)
}

// Add adds other to ft in place.
func (ft *FrameTuple) Add(other Tuple) error {
	if err := ft.CheckFramesMatch(other); err != nil {
		return err
	}
	ft.vec = ft.vec.Add(other.tuple().vec)
	return nil
}

// Sub subtracts other from ft in place.
func (ft *FrameTuple) Sub(other Tuple) error {
	if err := ft.CheckFramesMatch(other); err != nil {
		return err
	}
	ft.vec = ft.vec.Sub(other.tuple().vec)
	return nil
}

// Dot returns the dot product of ft and other.
func (ft *FrameTuple) Dot(other Tuple) (float64, error) {
	if err := ft.CheckFramesMatch(other); err != nil {
		return 0, err
	}
	return ft.vec.Dot(other.tuple().vec), nil
}

func (ft *FrameTuple) String() string {
	return fmt.Sprintf("%s in %s: (%v, %v, %v)", ft.name, frameName(ft.frame), ft.vec.X, ft.vec.Y, ft.vec.Z)
}

func vectorFromSlice(s []float64) (r3.Vector, error) {
	if len(s) != 3 {
		return r3.Vector{}, NewTupleLengthError(len(s))
	}
	return r3.Vector{X: s[0], Y: s[1], Z: s[2]}, nil
}

// FramePoint is a position expressed in a reference frame. Changing its frame applies both the
// rotation and the translation between the frames.
type FramePoint struct {
	FrameTuple
}

// NewFramePoint creates a point from three coordinates.
func NewFramePoint(name string, frame *ReferenceFrame, x, y, z float64) *FramePoint {
	return NewFramePointFromVector(name, frame, r3.Vector{X: x, Y: y, Z: z})
}

// NewFramePointFromArray creates a point from a fixed-size array.
func NewFramePointFromArray(name string, frame *ReferenceFrame, xyz [3]float64) *FramePoint {
	return NewFramePoint(name, frame, xyz[0], xyz[1], xyz[2])
}

// NewFramePointFromVector creates a point from a vector.
func NewFramePointFromVector(name string, frame *ReferenceFrame, vec r3.Vector) *FramePoint {
	return &FramePoint{FrameTuple{name: name, frame: frame, vec: vec}}
}

// NewFramePointFromSlice creates a point from a slice, which must hold exactly 3 values.
func NewFramePointFromSlice(name string, frame *ReferenceFrame, xyz []float64) (*FramePoint, error) {
	vec, err := vectorFromSlice(xyz)
	if err != nil {
		return nil, err
	}
	return NewFramePointFromVector(name, frame, vec), nil
}

// ChangeFrame re-expresses the point in target's coordinates and rebinds it to target.
func (fp *FramePoint) ChangeFrame(target *ReferenceFrame) error {
	t, err := fp.frame.TransformToFrame(target)
	if err != nil {
		return err
	}
	fp.vec = t.TransformPoint(fp.vec)
	fp.frame = target
	return nil
}

// DistanceTo returns the Euclidean distance between two points in the same frame.
func (fp *FramePoint) DistanceTo(other *FramePoint) (float64, error) {
	if err := fp.CheckFramesMatch(other); err != nil {
		return 0, err
	}
	return fp.vec.Distance(other.vec), nil
}

// FrameVector is a direction expressed in a reference frame. Changing its frame applies only the
// rotation between the frames.
type FrameVector struct {
	FrameTuple
}

// NewFrameVector creates a vector from three coordinates.
func NewFrameVector(name string, frame *ReferenceFrame, x, y, z float64) *FrameVector {
	return NewFrameVectorFromVector(name, frame, r3.Vector{X: x, Y: y, Z: z})
}

// NewFrameVectorFromArray creates a vector from a fixed-size array.
func NewFrameVectorFromArray(name string, frame *ReferenceFrame, xyz [3]float64) *FrameVector {
	return NewFrameVector(name, frame, xyz[0], xyz[1], xyz[2])
}

// NewFrameVectorFromVector creates a vector from an r3.Vector.
func NewFrameVectorFromVector(name string, frame *ReferenceFrame, vec r3.Vector) *FrameVector {
	return &FrameVector{FrameTuple{name: name, frame: frame, vec: vec}}
}

// NewFrameVectorFromSlice creates a vector from a slice, which must hold exactly 3 values.
func NewFrameVectorFromSlice(name string, frame *ReferenceFrame, xyz []float64) (*FrameVector, error) {
	vec, err := vectorFromSlice(xyz)
	if err != nil {
		return nil, err
	}
	return NewFrameVectorFromVector(name, frame, vec), nil
}

// ChangeFrame re-expresses the vector in target's coordinates and rebinds it to target.
func (fv *FrameVector) ChangeFrame(target *ReferenceFrame) error {
	t, err := fv.frame.TransformToFrame(target)
	if err != nil {
		return err
	}
	fv.vec = t.TransformVector(fv.vec)
	fv.frame = target
	return nil
}

// Cross returns fv x other as a new vector in the same frame.
func (fv *FrameVector) Cross(other *FrameVector) (*FrameVector, error) {
	if err := fv.CheckFramesMatch(other); err != nil {
		return nil, err
	}
	return NewFrameVectorFromVector(fv.name, fv.frame, fv.vec.Cross(other.vec)), nil
}

// AngleBetween returns the angle in radians between two vectors in the same frame.
func (fv *FrameVector) AngleBetween(other *FrameVector) (float64, error) {
	dot, err := fv.Dot(other)
	if err != nil {
		return 0, err
	}
	cos := dot / (fv.Length() * other.Length())
	return math.Acos(utils.Clamp(cos, -1, 1)), nil
}

// Normalize scales the vector to unit length. A zero vector is left unchanged.
func (fv *FrameVector) Normalize() {
	if n := fv.Length(); n > 0 {
		fv.Scale(1 / n)
	}
}
