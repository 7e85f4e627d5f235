package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// DualQuaternion represents a rigid transform as a unit dual quaternion: the real part holds the
// rotation, the dual part holds half the translation multiplied onto the rotation.
type DualQuaternion struct {
	dualquat.Number
}

// NewDualQuaternion returns a pointer to a new DualQuaternion object whose Quaternion is an identity Quaternion.
// Since the real part of a qual quaternion should be a unit quaternion, not all zeroes, this should be used
// instead of &DualQuaternion{}.
func NewDualQuaternion() *DualQuaternion {
	return &DualQuaternion{dualquat.Number{
		Real: quat.Number{Real: 1},
		Dual: quat.Number{},
	}}
}

// NewDualQuaternionFromTransform converts a rigid transform into dual quaternion form.
func NewDualQuaternionFromTransform(t *RigidTransform) *DualQuaternion {
	q := NewDualQuaternion()
	q.Real = t.Quaternion()
	q.SetTranslation(t.Translation())
	return q
}

// SetTranslation correctly sets the translation quaternion against the rotation.
func (q *DualQuaternion) SetTranslation(pt r3.Vector) {
	q.Dual = quat.Mul(quat.Number{Real: 0, Imag: pt.X / 2, Jmag: pt.Y / 2, Kmag: pt.Z / 2}, q.Real)
}

// Translation returns the translation encoded by the dual quaternion.
func (q *DualQuaternion) Translation() r3.Vector {
	tQuat := dualquat.Mul(q.Number, dualquat.Conj(q.Number)).Dual
	return r3.Vector{X: tQuat.Imag, Y: tQuat.Jmag, Z: tQuat.Kmag}
}

// Transform converts the dual quaternion back into a rigid transform.
func (q *DualQuaternion) Transform() *RigidTransform {
	return NewRigidTransformFromQuaternion(q.Real, q.Translation())
}

// Compose returns the product q * other: other is applied first, then q.
func (q *DualQuaternion) Compose(other *DualQuaternion) *DualQuaternion {
	return &DualQuaternion{dualquat.Mul(q.Number, other.Number)}
}

// Invert returns the inverse of a unit dual quaternion, which is its quaternion conjugate.
func (q *DualQuaternion) Invert() *DualQuaternion {
	return &DualQuaternion{dualquat.ConjQuat(q.Number)}
}

// TransformPoint applies the dual quaternion to a point.
func (q *DualQuaternion) TransformPoint(p r3.Vector) r3.Vector {
	pt := dualquat.Number{Real: quat.Number{Real: 1}, Dual: quat.Number{Imag: p.X, Jmag: p.Y, Kmag: p.Z}}
	out := dualquat.Mul(dualquat.Mul(q.Number, pt), dualquat.Conj(q.Number))
	return r3.Vector{X: out.Dual.Imag, Y: out.Dual.Jmag, Z: out.Dual.Kmag}
}
