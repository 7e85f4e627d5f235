package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// An axis angle names a unit axis through the origin and a right-handed rotation about it.
// R4AA keeps the angle and the axis apart; R3AA folds the angle into the axis length.
// https://en.wikipedia.org/wiki/Axis%E2%80%93angle_representation

// R4AA is an angle in radians about the axis (RX, RY, RZ).
type R4AA struct {
	Theta float64 `json:"th"`
	RX    float64 `json:"x"`
	RY    float64 `json:"y"`
	RZ    float64 `json:"z"`
}

// R3AA represents an R3 axis angle: the axis scaled by the angle.
type R3AA struct {
	RX float64 `json:"x"`
	RY float64 `json:"y"`
	RZ float64 `json:"z"`
}

// NewR4AA creates a zero rotation about the Z axis.
func NewR4AA() *R4AA {
	return &R4AA{Theta: 0, RX: 0, RY: 0, RZ: 1}
}

// AxisAngles returns r4 itself.
func (r4 *R4AA) AxisAngles() *R4AA {
	return r4
}

// Quaternion converts to a unit quaternion.
func (r4 *R4AA) Quaternion() quat.Number {
	return r4.ToQuat()
}

// EulerAngles converts through a rotation matrix.
func (r4 *R4AA) EulerAngles() *EulerAngles {
	return r4.transform().EulerAngles()
}

// RotationMatrix applies the Rodrigues formula.
func (r4 *R4AA) RotationMatrix() *RotationMatrix {
	return r4.transform().RotationMatrix()
}

func (r4 *R4AA) transform() *RigidTransform {
	t := NewRigidTransform()
	t.SetAxisAngle(r4)
	return t
}

// ToR3 converts an R4 angle axis to R3.
func (r4 *R4AA) ToR3() r3.Vector {
	return r3.Vector{X: r4.RX * r4.Theta, Y: r4.RY * r4.Theta, Z: r4.RZ * r4.Theta}
}

// ToQuat converts an R4 axis angle to a unit quaternion. A degenerate axis yields the identity.
// See: https://www.euclideanspace.com/maths/geometry/rotations/conversions/angleToQuaternion/index.htm
func (r4 *R4AA) ToQuat() quat.Number {
	norm := r4.norm()
	if norm < axisMagnitudeEpsilon {
		return quat.Number{Real: 1}
	}
	sinA, cosA := math.Sincos(r4.Theta / 2)

	// Get the unit-sphere components
	ax := r4.RX / norm * sinA
	ay := r4.RY / norm * sinA
	az := r4.RZ / norm * sinA
	return quat.Number{Real: cosA, Imag: ax, Jmag: ay, Kmag: az}
}

func (r4 *R4AA) norm() float64 {
	return math.Sqrt(r4.RX*r4.RX + r4.RY*r4.RY + r4.RZ*r4.RZ)
}

// Normalize scales the x, y, and z components of a R4 axis angle to be on the unit sphere. A zero
// axis is replaced by the Z axis, which describes the same (zero) rotation.
func (r4 *R4AA) Normalize() {
	norm := r4.norm()
	if norm == 0.0 { // prevent division by 0
		r4.RX, r4.RY, r4.RZ = 0, 0, 1
		r4.Theta = 0
		return
	}
	r4.RX /= norm
	r4.RY /= norm
	r4.RZ /= norm
}

// fixOrientation flips the axis so that the angle is non-negative.
func (r4 *R4AA) fixOrientation() {
	if r4.Theta < 0.0 {
		r4.Theta *= -1.
		r4.RX *= -1.
		r4.RY *= -1.
		r4.RZ *= -1.
	}
}

// AxisAngleAlmostEqual reports whether a and b describe the same rotation to within epsilon,
// treating (theta, axis) and (-theta, -axis) as equal, and ignoring the axis of zero rotations.
func AxisAngleAlmostEqual(a, b *R4AA, epsilon float64) bool {
	a1, b1 := *a, *b
	a1.Normalize()
	b1.Normalize()
	a1.fixOrientation()
	b1.fixOrientation()
	if math.Abs(a1.Theta) < epsilon && math.Abs(b1.Theta) < epsilon {
		return true
	}
	return math.Abs(a1.Theta-b1.Theta) < epsilon &&
		math.Abs(a1.RX-b1.RX) < epsilon &&
		math.Abs(a1.RY-b1.RY) < epsilon &&
		math.Abs(a1.RZ-b1.RZ) < epsilon
}

// R3ToR4 converts an R3 angle axis to R4.
func R3ToR4(aa r3.Vector) *R4AA {
	theta := aa.Norm()
	if theta == 0 {
		return NewR4AA()
	}
	return &R4AA{theta, aa.X / theta, aa.Y / theta, aa.Z / theta}
}

// QuatToR4AA converts a quat to an R4 axis angle in the same way the C++ Eigen library does.
// https://eigen.tuxfamily.org/dox/AngleAxis_8h_source.html
func QuatToR4AA(q quat.Number) *R4AA {
	denom := imagNorm(q)

	angle := 2 * math.Atan2(denom, math.Abs(q.Real))
	if q.Real < 0 {
		angle *= -1
	}

	if denom < 1e-6 {
		return &R4AA{angle, 1, 0, 0}
	}
	return &R4AA{angle, q.Imag / denom, q.Jmag / denom, q.Kmag / denom}
}

// QuatToR3AA converts a quat to an R3 axis angle in the same way the C++ Eigen library does.
// https://eigen.tuxfamily.org/dox/AngleAxis_8h_source.html
func QuatToR3AA(q quat.Number) r3.Vector {
	return QuatToR4AA(q).ToR3()
}
