// Package spatialmath defines spatial mathematical operations: rigid body transforms and the
// orientation representations they convert to and from.
package spatialmath

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/frametree/utils"
)

const (
	// defaultTransformEpsilon is the tolerance used by Equals.
	defaultTransformEpsilon = 1e-10
	// defaultAxisAngleEpsilon is the tolerance used by AxisAngles.
	defaultAxisAngleEpsilon = 1e-12
	// axisMagnitudeEpsilon guards against normalizing a degenerate rotation axis.
	axisMagnitudeEpsilon = 1e-5
)

// ErrNotHomogeneousPoint is returned when a homogeneous vector whose final element is not 1 is
// transformed as a point.
var ErrNotHomogeneousPoint = errors.New("final element of homogeneous vector must be 1")

// RigidTransform is a 4x4 homogeneous rigid body transformation. The top left 3x3 block is an
// orthonormal rotation matrix, the top right 3x1 block is a translation:
//
//	T = | m00 m01 m02 m03 |
//	    | m10 m11 m12 m13 |
//	    | m20 m21 m22 m23 |
//	    |  0   0   0   1  |
//
// The zero value is not a valid transform; use NewRigidTransform.
type RigidTransform struct {
	mat00, mat01, mat02, mat03 float64
	mat10, mat11, mat12, mat13 float64
	mat20, mat21, mat22, mat23 float64
}

// NewRigidTransform returns an identity transform.
func NewRigidTransform() *RigidTransform {
	t := &RigidTransform{}
	t.SetIdentity()
	return t
}

// NewRigidTransformFromMat4 creates a transform from the top three rows of a homogeneous matrix.
func NewRigidTransformFromMat4(m mgl64.Mat4) *RigidTransform {
	t := &RigidTransform{}
	t.SetMat4(m)
	return t
}

// NewRigidTransformFromRotationMatrix creates a transform from a rotation matrix and translation.
func NewRigidTransformFromRotationMatrix(rm *RotationMatrix, translation r3.Vector) *RigidTransform {
	t := &RigidTransform{}
	t.SetRotationMatrixAndTranslation(rm, translation)
	return t
}

// NewRigidTransformFromQuaternion creates a transform from a quaternion and translation.
func NewRigidTransformFromQuaternion(q quat.Number, translation r3.Vector) *RigidTransform {
	t := &RigidTransform{}
	t.SetQuaternionAndTranslation(q, translation)
	return t
}

// NewRigidTransformFromAxisAngle creates a transform from an axis angle and translation.
func NewRigidTransformFromAxisAngle(aa *R4AA, translation r3.Vector) *RigidTransform {
	t := &RigidTransform{}
	t.SetAxisAngleAndTranslation(aa, translation)
	return t
}

// NewRigidTransformFromOrientation creates a transform from any Orientation and a translation.
func NewRigidTransformFromOrientation(o Orientation, translation r3.Vector) *RigidTransform {
	return NewRigidTransformFromRotationMatrix(o.RotationMatrix(), translation)
}

// NewRigidTransformFromTranslation creates a transform with identity rotation.
func NewRigidTransformFromTranslation(translation r3.Vector) *RigidTransform {
	t := &RigidTransform{}
	t.SetTranslationAndIdentityRotation(translation)
	return t
}

// RandomRigidTransform returns a transform with a uniformly distributed rotation and a translation
// with every component in [-1, 1).
func RandomRigidTransform(r *rand.Rand) *RigidTransform {
	// Shoemake's method for a uniform unit quaternion.
	u1, u2, u3 := r.Float64(), r.Float64(), r.Float64()
	q := quat.Number{
		Real: math.Sqrt(u1) * math.Cos(2*math.Pi*u3),
		Imag: math.Sqrt(1-u1) * math.Sin(2*math.Pi*u2),
		Jmag: math.Sqrt(1-u1) * math.Cos(2*math.Pi*u2),
		Kmag: math.Sqrt(u1) * math.Sin(2*math.Pi*u3),
	}
	translation := r3.Vector{
		X: utils.SampleRandomFloat(-1, 1, r),
		Y: utils.SampleRandomFloat(-1, 1, r),
		Z: utils.SampleRandomFloat(-1, 1, r),
	}
	return NewRigidTransformFromQuaternion(q, translation)
}

// Clone returns a copy of the transform.
func (t *RigidTransform) Clone() *RigidTransform {
	c := *t
	return &c
}

// SetIdentity sets the rotation to identity and the translation to zero.
func (t *RigidTransform) SetIdentity() {
	t.SetRotationToIdentity()
	t.ZeroTranslation()
}

// Set copies every element of other into t.
func (t *RigidTransform) Set(other *RigidTransform) {
	*t = *other
}

// SetMat4 sets t from the top three rows of a homogeneous matrix. The bottom row is ignored.
func (t *RigidTransform) SetMat4(m mgl64.Mat4) {
	t.mat00, t.mat01, t.mat02, t.mat03 = m.At(0, 0), m.At(0, 1), m.At(0, 2), m.At(0, 3)
	t.mat10, t.mat11, t.mat12, t.mat13 = m.At(1, 0), m.At(1, 1), m.At(1, 2), m.At(1, 3)
	t.mat20, t.mat21, t.mat22, t.mat23 = m.At(2, 0), m.At(2, 1), m.At(2, 2), m.At(2, 3)
}

// SetMat4Transpose sets t from a homogeneous matrix that is stored transposed, i.e. whose
// translation occupies the bottom row.
func (t *RigidTransform) SetMat4Transpose(m mgl64.Mat4) {
	t.SetMat4(m.Transpose())
}

// SetDense sets t from a 4x4 or 3x4 gonum matrix.
func (t *RigidTransform) SetDense(m *mat.Dense) error {
	rows, cols := m.Dims()
	if (rows != 3 && rows != 4) || cols != 4 {
		return errors.Errorf("cannot build a rigid transform from a %dx%d matrix, need 4x4 or 3x4", rows, cols)
	}
	t.mat00, t.mat01, t.mat02, t.mat03 = m.At(0, 0), m.At(0, 1), m.At(0, 2), m.At(0, 3)
	t.mat10, t.mat11, t.mat12, t.mat13 = m.At(1, 0), m.At(1, 1), m.At(1, 2), m.At(1, 3)
	t.mat20, t.mat21, t.mat22, t.mat23 = m.At(2, 0), m.At(2, 1), m.At(2, 2), m.At(2, 3)
	return nil
}

// SetRotationMatrixAndTranslation overwrites both the rotation and the translation.
func (t *RigidTransform) SetRotationMatrixAndTranslation(rm *RotationMatrix, translation r3.Vector) {
	t.SetRotationMatrix(rm)
	t.SetTranslation(translation)
}

// SetMat3AndTranslation overwrites both the rotation and the translation.
func (t *RigidTransform) SetMat3AndTranslation(m mgl64.Mat3, translation r3.Vector) {
	t.SetMat3(m)
	t.SetTranslation(translation)
}

// SetQuaternionAndTranslation overwrites both the rotation and the translation.
func (t *RigidTransform) SetQuaternionAndTranslation(q quat.Number, translation r3.Vector) {
	t.SetQuaternion(q)
	t.SetTranslation(translation)
}

// SetAxisAngleAndTranslation overwrites both the rotation and the translation.
func (t *RigidTransform) SetAxisAngleAndTranslation(aa *R4AA, translation r3.Vector) {
	t.SetAxisAngle(aa)
	t.SetTranslation(translation)
}

// SetTranslation sets the translational part of the transform.
func (t *RigidTransform) SetTranslation(v r3.Vector) {
	t.mat03, t.mat13, t.mat23 = v.X, v.Y, v.Z
}

// ZeroTranslation sets the translational part of the transform to zero.
func (t *RigidTransform) ZeroTranslation() {
	t.SetTranslation(r3.Vector{})
}

// SetTranslationAndIdentityRotation sets the translation and resets the rotation to identity.
func (t *RigidTransform) SetTranslationAndIdentityRotation(v r3.Vector) {
	t.SetTranslation(v)
	t.SetRotationToIdentity()
}

// SetRotationToIdentity resets the rotation without touching the translation.
func (t *RigidTransform) SetRotationToIdentity() {
	t.mat00, t.mat01, t.mat02 = 1, 0, 0
	t.mat10, t.mat11, t.mat12 = 0, 1, 0
	t.mat20, t.mat21, t.mat22 = 0, 0, 1
}

// SetRotationMatrix sets the rotational part of the transform.
func (t *RigidTransform) SetRotationMatrix(rm *RotationMatrix) {
	t.mat00, t.mat01, t.mat02 = rm.mat[0], rm.mat[1], rm.mat[2]
	t.mat10, t.mat11, t.mat12 = rm.mat[3], rm.mat[4], rm.mat[5]
	t.mat20, t.mat21, t.mat22 = rm.mat[6], rm.mat[7], rm.mat[8]
}

// SetMat3 sets the rotational part of the transform.
func (t *RigidTransform) SetMat3(m mgl64.Mat3) {
	t.mat00, t.mat01, t.mat02 = m.At(0, 0), m.At(0, 1), m.At(0, 2)
	t.mat10, t.mat11, t.mat12 = m.At(1, 0), m.At(1, 1), m.At(1, 2)
	t.mat20, t.mat21, t.mat22 = m.At(2, 0), m.At(2, 1), m.At(2, 2)
}

// SetQuaternion sets the rotational part of the transform from a unit quaternion.
func (t *RigidTransform) SetQuaternion(q quat.Number) {
	qw, qx, qy, qz := q.Real, q.Imag, q.Jmag, q.Kmag
	yy2 := 2 * qy * qy
	zz2 := 2 * qz * qz
	xx2 := 2 * qx * qx
	xy2 := 2 * qx * qy
	wz2 := 2 * qw * qz
	xz2 := 2 * qx * qz
	wy2 := 2 * qw * qy
	yz2 := 2 * qy * qz
	wx2 := 2 * qw * qx

	t.mat00 = 1 - yy2 - zz2
	t.mat01 = xy2 - wz2
	t.mat02 = xz2 + wy2
	t.mat10 = xy2 + wz2
	t.mat11 = 1 - xx2 - zz2
	t.mat12 = yz2 - wx2
	t.mat20 = xz2 - wy2
	t.mat21 = yz2 + wx2
	t.mat22 = 1 - xx2 - yy2
}

// SetAxisAngle sets the rotational part of the transform using Rodrigues' formula. The axis need
// not be normalized; an axis with near zero magnitude produces the identity rotation.
func (t *RigidTransform) SetAxisAngle(aa *R4AA) {
	t.setAxisAngle(aa.RX, aa.RY, aa.RZ, aa.Theta)
}

func (t *RigidTransform) setAxisAngle(x, y, z, theta float64) {
	mag := math.Sqrt(x*x + y*y + z*z)
	if utils.AlmostZero(mag, axisMagnitudeEpsilon) {
		t.SetRotationToIdentity()
		return
	}
	mag = 1 / mag
	ax, ay, az := x*mag, y*mag, z*mag

	sinTheta, cosTheta := math.Sincos(theta)
	c := 1 - cosTheta

	xz := ax * az
	xy := ax * ay
	yz := ay * az

	t.mat00 = c*ax*ax + cosTheta
	t.mat01 = c*xy - sinTheta*az
	t.mat02 = c*xz + sinTheta*ay

	t.mat10 = c*xy + sinTheta*az
	t.mat11 = c*ay*ay + cosTheta
	t.mat12 = c*yz - sinTheta*ax

	t.mat20 = c*xz - sinTheta*ay
	t.mat21 = c*yz + sinTheta*ax
	t.mat22 = c*az*az + cosTheta
}

// SetEulerXYZ sets the rotational part of the transform from rotations about the fixed X, Y and Z
// axes, applied in that order. The translation is left untouched.
func (t *RigidTransform) SetEulerXYZ(ea *EulerAngles) {
	sina, cosa := math.Sincos(ea.Roll)
	sinb, cosb := math.Sincos(ea.Pitch)
	sinc, cosc := math.Sincos(ea.Yaw)

	t.mat00 = cosb * cosc
	t.mat01 = -(cosa * sinc) + (sina * sinb * cosc)
	t.mat02 = (sina * sinc) + (cosa * sinb * cosc)
	t.mat10 = cosb * sinc
	t.mat11 = (cosa * cosc) + (sina * sinb * sinc)
	t.mat12 = -(sina * cosc) + (cosa * sinb * sinc)
	t.mat20 = -sinb
	t.mat21 = sina * cosb
	t.mat22 = cosa * cosb
}

// RotX sets t to a pure rotation of angle radians about the X axis.
func (t *RigidTransform) RotX(angle float64) {
	s, c := math.Sincos(angle)
	*t = RigidTransform{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
	}
}

// RotY sets t to a pure rotation of angle radians about the Y axis.
func (t *RigidTransform) RotY(angle float64) {
	s, c := math.Sincos(angle)
	*t = RigidTransform{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
	}
}

// RotZ sets t to a pure rotation of angle radians about the Z axis.
func (t *RigidTransform) RotZ(angle float64) {
	s, c := math.Sincos(angle)
	*t = RigidTransform{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
	}
}

// ApplyRotationX post-multiplies t by a rotation about X.
func (t *RigidTransform) ApplyRotationX(angle float64) {
	var r RigidTransform
	r.RotX(angle)
	t.Multiply(&r)
}

// ApplyRotationY post-multiplies t by a rotation about Y.
func (t *RigidTransform) ApplyRotationY(angle float64) {
	var r RigidTransform
	r.RotY(angle)
	t.Multiply(&r)
}

// ApplyRotationZ post-multiplies t by a rotation about Z.
func (t *RigidTransform) ApplyRotationZ(angle float64) {
	var r RigidTransform
	r.RotZ(angle)
	t.Multiply(&r)
}

// ApplyTranslation post-multiplies t by a pure translation, i.e. the translation is expressed in
// t's rotated frame.
func (t *RigidTransform) ApplyTranslation(v r3.Vector) {
	t.SetTranslation(t.TransformPoint(v))
}

// Translation returns the translational part of the transform.
func (t *RigidTransform) Translation() r3.Vector {
	return r3.Vector{X: t.mat03, Y: t.mat13, Z: t.mat23}
}

// Point is an alias of Translation.
func (t *RigidTransform) Point() r3.Vector {
	return t.Translation()
}

// RotationMatrix returns a copy of the rotational part of the transform.
func (t *RigidTransform) RotationMatrix() *RotationMatrix {
	return &RotationMatrix{[9]float64{
		t.mat00, t.mat01, t.mat02,
		t.mat10, t.mat11, t.mat12,
		t.mat20, t.mat21, t.mat22,
	}}
}

// Mat3 returns the rotational part of the transform as an mgl64 matrix.
func (t *RigidTransform) Mat3() mgl64.Mat3 {
	// mgl64 matrices are column major.
	return mgl64.Mat3FromRows(
		mgl64.Vec3{t.mat00, t.mat01, t.mat02},
		mgl64.Vec3{t.mat10, t.mat11, t.mat12},
		mgl64.Vec3{t.mat20, t.mat21, t.mat22},
	)
}

// Mat4 returns the full homogeneous matrix.
func (t *RigidTransform) Mat4() mgl64.Mat4 {
	return mgl64.Mat4FromRows(
		mgl64.Vec4{t.mat00, t.mat01, t.mat02, t.mat03},
		mgl64.Vec4{t.mat10, t.mat11, t.mat12, t.mat13},
		mgl64.Vec4{t.mat20, t.mat21, t.mat22, t.mat23},
		mgl64.Vec4{0, 0, 0, 1},
	)
}

// Dense returns the full homogeneous matrix as a 4x4 gonum matrix.
func (t *RigidTransform) Dense() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		t.mat00, t.mat01, t.mat02, t.mat03,
		t.mat10, t.mat11, t.mat12, t.mat13,
		t.mat20, t.mat21, t.mat22, t.mat23,
		0, 0, 0, 1,
	})
}

// Quaternion returns the rotation as a normalized unit quaternion. The branch is chosen on the
// dominant element among the trace and the diagonal to stay well conditioned.
func (t *RigidTransform) Quaternion() quat.Number {
	var x, y, z, w float64
	trace := t.mat00 + t.mat11 + t.mat22

	switch {
	case trace > 0:
		val := math.Sqrt(trace+1) * 2
		x = (t.mat21 - t.mat12) / val
		y = (t.mat02 - t.mat20) / val
		z = (t.mat10 - t.mat01) / val
		w = 0.25 * val
	case t.mat00 >= t.mat11 && t.mat00 >= t.mat22:
		val := math.Sqrt(math.Max(0, 1+t.mat00-t.mat11-t.mat22)) * 2
		x = 0.25 * val
		y = (t.mat01 + t.mat10) / val
		z = (t.mat02 + t.mat20) / val
		w = (t.mat21 - t.mat12) / val
	case t.mat11 >= t.mat22:
		val := math.Sqrt(math.Max(0, 1+t.mat11-t.mat00-t.mat22)) * 2
		x = (t.mat01 + t.mat10) / val
		y = 0.25 * val
		z = (t.mat12 + t.mat21) / val
		w = (t.mat02 - t.mat20) / val
	default:
		val := math.Sqrt(math.Max(0, 1+t.mat22-t.mat00-t.mat11)) * 2
		x = (t.mat02 + t.mat20) / val
		y = (t.mat12 + t.mat21) / val
		z = 0.25 * val
		w = (t.mat10 - t.mat01) / val
	}

	return Normalize(quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z})
}

// AxisAngles returns the rotation as an axis angle.
func (t *RigidTransform) AxisAngles() *R4AA {
	return t.AxisAnglesEpsilon(defaultAxisAngleEpsilon)
}

// AxisAnglesEpsilon returns the rotation as an axis angle. epsilon gates the degenerate cases:
// when the skew symmetric part of the rotation vanishes the rotation is either the identity or
// a half turn, and the axis of a half turn is recovered from the diagonal of (R+I)/2.
func (t *RigidTransform) AxisAnglesEpsilon(epsilon float64) *R4AA {
	aa := &R4AA{
		RX: t.mat21 - t.mat12,
		RY: t.mat02 - t.mat20,
		RZ: t.mat10 - t.mat01,
	}
	mag := aa.RX*aa.RX + aa.RY*aa.RY + aa.RZ*aa.RZ

	if mag > epsilon {
		mag = math.Sqrt(mag)
		sin := 0.5 * mag
		cos := 0.5 * (t.mat00 + t.mat11 + t.mat22 - 1)
		aa.Theta = math.Atan2(sin, cos)

		invMag := 1 / mag
		aa.RX *= invMag
		aa.RY *= invMag
		aa.RZ *= invMag
		return aa
	}

	if t.IsRotationMatrixEpsilonIdentity(10 * epsilon) {
		return &R4AA{Theta: 0, RX: 1, RY: 0, RZ: 0}
	}

	aa.Theta = math.Pi
	xx := (t.mat00 + 1) / 2
	yy := (t.mat11 + 1) / 2
	zz := (t.mat22 + 1) / 2
	xy := (t.mat01 + t.mat10) / 4
	xz := (t.mat02 + t.mat20) / 4
	yz := (t.mat12 + t.mat21) / 4
	cos45 := math.Cos(math.Pi / 4)

	switch {
	case xx > yy && xx > zz:
		// mat00 is the largest diagonal term
		if xx < epsilon {
			aa.RX, aa.RY, aa.RZ = 0, cos45, cos45
		} else {
			aa.RX = math.Sqrt(xx)
			aa.RY = xy / aa.RX
			aa.RZ = xz / aa.RX
		}
	case yy > zz:
		// mat11 is the largest diagonal term
		if yy < epsilon {
			aa.RX, aa.RY, aa.RZ = cos45, 0, cos45
		} else {
			aa.RY = math.Sqrt(yy)
			aa.RX = xy / aa.RY
			aa.RZ = yz / aa.RY
		}
	default:
		// mat22 is the largest diagonal term
		if zz < epsilon {
			aa.RX, aa.RY, aa.RZ = cos45, cos45, 0
		} else {
			aa.RZ = math.Sqrt(zz)
			aa.RX = xz / aa.RZ
			aa.RY = yz / aa.RZ
		}
	}
	return aa
}

// EulerAngles returns the rotation as fixed X-Y-Z angles. The decomposition is only unique for
// pitch strictly inside (-pi/2, pi/2).
func (t *RigidTransform) EulerAngles() *EulerAngles {
	return &EulerAngles{
		Roll:  math.Atan2(t.mat21, t.mat22),
		Pitch: math.Atan2(-t.mat20, math.Sqrt(t.mat21*t.mat21+t.mat22*t.mat22)),
		Yaw:   math.Atan2(t.mat10, t.mat00),
	}
}

// Multiply sets t = t * other: other is applied first, then t.
func (t *RigidTransform) Multiply(other *RigidTransform) {
	t.SetMultiply(t, other)
}

// SetMultiply sets t = t1 * t2. Either argument may alias t.
func (t *RigidTransform) SetMultiply(t1, t2 *RigidTransform) {
	tmp00 := t1.mat00*t2.mat00 + t1.mat01*t2.mat10 + t1.mat02*t2.mat20
	tmp01 := t1.mat00*t2.mat01 + t1.mat01*t2.mat11 + t1.mat02*t2.mat21
	tmp02 := t1.mat00*t2.mat02 + t1.mat01*t2.mat12 + t1.mat02*t2.mat22
	tmp03 := t1.mat00*t2.mat03 + t1.mat01*t2.mat13 + t1.mat02*t2.mat23 + t1.mat03

	tmp10 := t1.mat10*t2.mat00 + t1.mat11*t2.mat10 + t1.mat12*t2.mat20
	tmp11 := t1.mat10*t2.mat01 + t1.mat11*t2.mat11 + t1.mat12*t2.mat21
	tmp12 := t1.mat10*t2.mat02 + t1.mat11*t2.mat12 + t1.mat12*t2.mat22
	tmp13 := t1.mat10*t2.mat03 + t1.mat11*t2.mat13 + t1.mat12*t2.mat23 + t1.mat13

	tmp20 := t1.mat20*t2.mat00 + t1.mat21*t2.mat10 + t1.mat22*t2.mat20
	tmp21 := t1.mat20*t2.mat01 + t1.mat21*t2.mat11 + t1.mat22*t2.mat21
	tmp22 := t1.mat20*t2.mat02 + t1.mat21*t2.mat12 + t1.mat22*t2.mat22
	tmp23 := t1.mat20*t2.mat03 + t1.mat21*t2.mat13 + t1.mat22*t2.mat23 + t1.mat23

	*t = RigidTransform{
		tmp00, tmp01, tmp02, tmp03,
		tmp10, tmp11, tmp12, tmp13,
		tmp20, tmp21, tmp22, tmp23,
	}
}

// Compose returns t1 * t2 without modifying either argument.
func Compose(t1, t2 *RigidTransform) *RigidTransform {
	out := &RigidTransform{}
	out.SetMultiply(t1, t2)
	return out
}

// Invert inverts t in place. The rotation block is assumed orthonormal, so its inverse is its
// transpose and the new translation is -R^T * p.
func (t *RigidTransform) Invert() {
	t.InvertRotationButKeepTranslation()

	newX := -(t.mat00*t.mat03 + t.mat01*t.mat13 + t.mat02*t.mat23)
	newY := -(t.mat10*t.mat03 + t.mat11*t.mat13 + t.mat12*t.mat23)
	newZ := -(t.mat20*t.mat03 + t.mat21*t.mat13 + t.mat22*t.mat23)
	t.mat03, t.mat13, t.mat23 = newX, newY, newZ
}

// SetInverse sets t to the inverse of other.
func (t *RigidTransform) SetInverse(other *RigidTransform) {
	t.Set(other)
	t.Invert()
}

// Inverse returns the inverse of t without modifying it.
func (t *RigidTransform) Inverse() *RigidTransform {
	out := t.Clone()
	out.Invert()
	return out
}

// InvertRotationButKeepTranslation transposes the rotation block only.
func (t *RigidTransform) InvertRotationButKeepTranslation() {
	t.mat01, t.mat10 = t.mat10, t.mat01
	t.mat02, t.mat20 = t.mat20, t.mat02
	t.mat12, t.mat21 = t.mat21, t.mat12
}

// TransformPoint returns R*p + t.
func (t *RigidTransform) TransformPoint(p r3.Vector) r3.Vector {
	return r3.Vector{
		X: t.mat00*p.X + t.mat01*p.Y + t.mat02*p.Z + t.mat03,
		Y: t.mat10*p.X + t.mat11*p.Y + t.mat12*p.Z + t.mat13,
		Z: t.mat20*p.X + t.mat21*p.Y + t.mat22*p.Z + t.mat23,
	}
}

// TransformVector returns R*v; the translation does not apply to directions.
func (t *RigidTransform) TransformVector(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: t.mat00*v.X + t.mat01*v.Y + t.mat02*v.Z,
		Y: t.mat10*v.X + t.mat11*v.Y + t.mat12*v.Z,
		Z: t.mat20*v.X + t.mat21*v.Y + t.mat22*v.Z,
	}
}

// TransformPointInPlace overwrites p with R*p + t.
func (t *RigidTransform) TransformPointInPlace(p *r3.Vector) {
	*p = t.TransformPoint(*p)
}

// TransformVectorInPlace overwrites v with R*v.
func (t *RigidTransform) TransformVectorInPlace(v *r3.Vector) {
	*v = t.TransformVector(*v)
}

// TransformHomogeneous transforms a homogeneous point. A final element other than 1 signals a
// direction being used as a point and is rejected.
func (t *RigidTransform) TransformHomogeneous(v mgl64.Vec4) (mgl64.Vec4, error) {
	if v.W() != 1 {
		return v, errors.Wrapf(ErrNotHomogeneousPoint, "got w=%v", v.W())
	}
	p := t.TransformPoint(r3.Vector{X: v.X(), Y: v.Y(), Z: v.Z()})
	return mgl64.Vec4{p.X, p.Y, p.Z, 1}, nil
}

// EpsilonEquals reports whether every element of t is within epsilon of the same element of
// other.
func (t *RigidTransform) EpsilonEquals(other *RigidTransform, epsilon float64) bool {
	a, b := t.elements(), other.elements()
	for i := range a {
		if math.Abs(a[i]-b[i]) > epsilon {
			return false
		}
	}
	return true
}

// Equals is EpsilonEquals with a tolerance of 1e-10.
func (t *RigidTransform) Equals(other *RigidTransform) bool {
	return t.EpsilonEquals(other, defaultTransformEpsilon)
}

func (t *RigidTransform) elements() [12]float64 {
	return [12]float64{
		t.mat00, t.mat01, t.mat02, t.mat03,
		t.mat10, t.mat11, t.mat12, t.mat13,
		t.mat20, t.mat21, t.mat22, t.mat23,
	}
}

// Determinant returns the determinant of the rotation block. It is +1 for a proper rotation.
func (t *RigidTransform) Determinant() float64 {
	return t.mat00*(t.mat11*t.mat22-t.mat12*t.mat21) -
		t.mat01*(t.mat10*t.mat22-t.mat12*t.mat20) +
		t.mat02*(t.mat10*t.mat21-t.mat11*t.mat20)
}

// Normalize re-orthonormalizes the rotation block with Gram-Schmidt on its columns. Callers use
// it to bound drift after long chains of composition; nothing calls it implicitly.
func (t *RigidTransform) Normalize() {
	xdoty := t.mat00*t.mat01 + t.mat10*t.mat11 + t.mat20*t.mat21
	xdotx := t.mat00*t.mat00 + t.mat10*t.mat10 + t.mat20*t.mat20
	tmp := xdoty / xdotx

	t.mat01 -= tmp * t.mat00
	t.mat11 -= tmp * t.mat10
	t.mat21 -= tmp * t.mat20

	zdoty := t.mat02*t.mat01 + t.mat12*t.mat11 + t.mat22*t.mat21
	zdotx := t.mat02*t.mat00 + t.mat12*t.mat10 + t.mat22*t.mat20
	ydoty := t.mat01*t.mat01 + t.mat11*t.mat11 + t.mat21*t.mat21

	tmp = zdotx / xdotx
	tmp1 := zdoty / ydoty

	t.mat02 -= tmp*t.mat00 + tmp1*t.mat01
	t.mat12 -= tmp*t.mat10 + tmp1*t.mat11
	t.mat22 -= tmp*t.mat20 + tmp1*t.mat21

	magX := math.Sqrt(t.mat00*t.mat00 + t.mat10*t.mat10 + t.mat20*t.mat20)
	magY := math.Sqrt(t.mat01*t.mat01 + t.mat11*t.mat11 + t.mat21*t.mat21)
	magZ := math.Sqrt(t.mat02*t.mat02 + t.mat12*t.mat12 + t.mat22*t.mat22)

	t.mat00 /= magX
	t.mat10 /= magX
	t.mat20 /= magX
	t.mat01 /= magY
	t.mat11 /= magY
	t.mat21 /= magY
	t.mat02 /= magZ
	t.mat12 /= magZ
	t.mat22 /= magZ
}

// IsRotationMatrixEpsilonIdentity reports whether the rotation block is the identity to within
// epsilon, judged by its symmetric part and trace.
func (t *RigidTransform) IsRotationMatrixEpsilonIdentity(epsilon float64) bool {
	return math.Abs(t.mat01+t.mat10) < epsilon &&
		math.Abs(t.mat02+t.mat20) < epsilon &&
		math.Abs(t.mat12+t.mat21) < epsilon &&
		math.Abs(t.mat00+t.mat11+t.mat22-3) < epsilon
}

// IsRotationMatrixSingular reports whether the rotation block is symmetric to within epsilon,
// which is the case for the identity and for half turns.
func (t *RigidTransform) IsRotationMatrixSingular(epsilon float64) bool {
	return math.Abs(t.mat01-t.mat10) < epsilon &&
		math.Abs(t.mat02-t.mat20) < epsilon &&
		math.Abs(t.mat12-t.mat21) < epsilon
}

// IsOrthonormal reports whether R^T R is the identity and det(R) is +1, both to within tolerance.
func (t *RigidTransform) IsOrthonormal(tolerance float64) bool {
	cols := [3]r3.Vector{
		{X: t.mat00, Y: t.mat10, Z: t.mat20},
		{X: t.mat01, Y: t.mat11, Z: t.mat21},
		{X: t.mat02, Y: t.mat12, Z: t.mat22},
	}
	for i := range cols {
		for j := range cols {
			want := 0.
			if i == j {
				want = 1
			}
			if math.Abs(cols[i].Dot(cols[j])-want) > tolerance {
				return false
			}
		}
	}
	return math.Abs(t.Determinant()-1) <= tolerance
}

// TranslationDifference returns the translation of t2 minus the translation of t1.
func TranslationDifference(t1, t2 *RigidTransform) r3.Vector {
	return t2.Translation().Sub(t1.Translation())
}

// Interpolate returns a transform partway between from and to: the rotation is spherically
// interpolated and the translation linearly. by=0 yields from and by=1 yields to.
func Interpolate(from, to *RigidTransform, by float64) *RigidTransform {
	q := slerp(from.Quaternion(), to.Quaternion(), by)
	tr := from.Translation().Add(to.Translation().Sub(from.Translation()).Mul(by))
	return NewRigidTransformFromQuaternion(q, tr)
}

// String returns a printable version of the transform.
func (t *RigidTransform) String() string {
	return fmt.Sprintf(
		"[%.6g %.6g %.6g %.6g; %.6g %.6g %.6g %.6g; %.6g %.6g %.6g %.6g]",
		t.mat00, t.mat01, t.mat02, t.mat03,
		t.mat10, t.mat11, t.mat12, t.mat13,
		t.mat20, t.mat21, t.mat22, t.mat23,
	)
}
