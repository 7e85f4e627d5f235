package spatialmath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

func TestIdentityTransform(t *testing.T) {
	id := NewRigidTransform()
	p := r3.Vector{X: 1, Y: -2, Z: 3}
	test.That(t, id.TransformPoint(p), test.ShouldResemble, p)
	test.That(t, id.TransformVector(p), test.ShouldResemble, p)
	test.That(t, id.Determinant(), test.ShouldEqual, 1.)
	test.That(t, id.IsOrthonormal(1e-12), test.ShouldBeTrue)
	test.That(t, id.IsRotationMatrixEpsilonIdentity(1e-12), test.ShouldBeTrue)

	q := id.Quaternion()
	test.That(t, QuaternionAlmostEqual(q, quat.Number{Real: 1}, 1e-12), test.ShouldBeTrue)

	aa := id.AxisAngles()
	test.That(t, aa.Theta, test.ShouldEqual, 0.)
	test.That(t, aa.RX, test.ShouldEqual, 1.)
}

func TestTranslationSetters(t *testing.T) {
	tr := NewRigidTransform()
	tr.RotZ(math.Pi / 2)
	tr.SetTranslation(r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, tr.Translation(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, tr.Point(), test.ShouldResemble, tr.Translation())

	tr.ApplyTranslation(r3.Vector{X: 1})
	test.That(t, tr.Translation().X, test.ShouldAlmostEqual, 1)
	test.That(t, tr.Translation().Y, test.ShouldAlmostEqual, 3)

	tr.ZeroTranslation()
	test.That(t, tr.Translation(), test.ShouldResemble, r3.Vector{})
	test.That(t, tr.IsRotationMatrixEpsilonIdentity(1e-9), test.ShouldBeFalse)

	tr.SetTranslationAndIdentityRotation(r3.Vector{Z: 5})
	test.That(t, tr.Equals(NewRigidTransformFromTranslation(r3.Vector{Z: 5})), test.ShouldBeTrue)
}

func TestElementaryRotations(t *testing.T) {
	tr := NewRigidTransform()
	tr.RotZ(math.Pi / 2)
	v := tr.TransformVector(r3.Vector{X: 1})
	test.That(t, v.X, test.ShouldAlmostEqual, 0)
	test.That(t, v.Y, test.ShouldAlmostEqual, 1)

	tr.RotX(math.Pi / 2)
	v = tr.TransformVector(r3.Vector{Y: 1})
	test.That(t, v.Z, test.ShouldAlmostEqual, 1)

	tr.RotY(math.Pi / 2)
	v = tr.TransformVector(r3.Vector{Z: 1})
	test.That(t, v.X, test.ShouldAlmostEqual, 1)

	// post-multiplied rotations leave the translation alone
	tr = NewRigidTransformFromTranslation(r3.Vector{X: 1})
	tr.ApplyRotationZ(math.Pi / 2)
	test.That(t, tr.Translation(), test.ShouldResemble, r3.Vector{X: 1})
	v = tr.TransformVector(r3.Vector{X: 1})
	test.That(t, v.Y, test.ShouldAlmostEqual, 1)
	tr.ApplyRotationX(math.Pi)
	v = tr.TransformVector(r3.Vector{Y: 1})
	test.That(t, v.X, test.ShouldAlmostEqual, 1)
	tr.ApplyRotationY(math.Pi / 2)
	test.That(t, tr.IsOrthonormal(1e-12), test.ShouldBeTrue)
	test.That(t, tr.Translation(), test.ShouldResemble, r3.Vector{X: 1})
}

func TestRotationSetters(t *testing.T) {
	//nolint:gosec
	r := rand.New(rand.NewSource(4))
	want := RandomRigidTransform(r)
	offset := r3.Vector{X: 4, Y: -1, Z: 2}

	// the rotation-only setters keep whatever translation is already there
	tr := NewRigidTransformFromTranslation(offset)
	tr.SetQuaternion(want.Quaternion())
	test.That(t, tr.Translation(), test.ShouldResemble, offset)
	test.That(t, OrientationAlmostEqualEps(tr, want, 1e-9), test.ShouldBeTrue)

	tr.SetRotationToIdentity()
	test.That(t, tr.IsRotationMatrixEpsilonIdentity(0), test.ShouldBeTrue)
	tr.SetAxisAngle(want.AxisAngles())
	test.That(t, OrientationAlmostEqualEps(tr, want, 1e-9), test.ShouldBeTrue)
	tr.SetRotationToIdentity()
	tr.SetRotationMatrix(want.RotationMatrix())
	test.That(t, OrientationAlmostEqualEps(tr, want, 1e-12), test.ShouldBeTrue)
	tr.SetRotationToIdentity()
	tr.SetMat3(want.Mat3())
	test.That(t, OrientationAlmostEqualEps(tr, want, 1e-12), test.ShouldBeTrue)
	test.That(t, tr.Translation(), test.ShouldResemble, offset)

	// the combined setters overwrite both parts
	for _, set := range []func(*RigidTransform){
		func(tr *RigidTransform) { tr.SetQuaternionAndTranslation(want.Quaternion(), want.Translation()) },
		func(tr *RigidTransform) { tr.SetAxisAngleAndTranslation(want.AxisAngles(), want.Translation()) },
		func(tr *RigidTransform) { tr.SetRotationMatrixAndTranslation(want.RotationMatrix(), want.Translation()) },
		func(tr *RigidTransform) { tr.SetMat4(want.Mat4()) },
	} {
		tr := NewRigidTransformFromTranslation(offset)
		tr.RotY(0.3)
		set(tr)
		test.That(t, tr.EpsilonEquals(want, 1e-9), test.ShouldBeTrue)
	}

	// an axis too short to normalize means no rotation
	tr = NewRigidTransformFromTranslation(offset)
	tr.RotZ(1)
	tr.SetAxisAngle(&R4AA{Theta: 1, RX: 1e-6})
	test.That(t, tr.IsRotationMatrixEpsilonIdentity(0), test.ShouldBeTrue)

	aa := want.AxisAnglesEpsilon(1e-12)
	test.That(t, AxisAngleAlmostEqual(aa, want.AxisAngles(), 1e-12), test.ShouldBeTrue)
}

func TestQuaternionRoundTrip(t *testing.T) {
	//nolint:gosec
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		tr := RandomRigidTransform(r)
		test.That(t, tr.IsOrthonormal(1e-9), test.ShouldBeTrue)
		back := NewRigidTransformFromQuaternion(tr.Quaternion(), tr.Translation())
		test.That(t, back.EpsilonEquals(tr, 1e-9), test.ShouldBeTrue)
	}

	t.Run("half turn with zero diagonal", func(t *testing.T) {
		tr := NewRigidTransformFromAxisAngle(&R4AA{Theta: math.Pi, RX: 1, RY: 1, RZ: 0}, r3.Vector{})
		q := tr.Quaternion()
		want := quat.Number{Imag: math.Sqrt2 / 2, Jmag: math.Sqrt2 / 2}
		test.That(t, QuaternionAlmostEqual(q, want, 1e-9), test.ShouldBeTrue)
		test.That(t, NewRigidTransformFromQuaternion(q, r3.Vector{}).EpsilonEquals(tr, 1e-9), test.ShouldBeTrue)
	})

	t.Run("every half turn about an axis", func(t *testing.T) {
		for _, axis := range []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}, {X: 1, Y: 1, Z: 1}, {Y: 1, Z: -1}} {
			tr := NewRigidTransformFromAxisAngle(&R4AA{Theta: math.Pi, RX: axis.X, RY: axis.Y, RZ: axis.Z}, r3.Vector{})
			back := NewRigidTransformFromQuaternion(tr.Quaternion(), r3.Vector{})
			test.That(t, back.EpsilonEquals(tr, 1e-9), test.ShouldBeTrue)
		}
	})

	t.Run("near identity", func(t *testing.T) {
		tr := NewRigidTransformFromAxisAngle(&R4AA{Theta: 1e-8, RX: 0, RY: 1, RZ: 0}, r3.Vector{})
		back := NewRigidTransformFromQuaternion(tr.Quaternion(), r3.Vector{})
		test.That(t, back.EpsilonEquals(tr, 1e-12), test.ShouldBeTrue)
	})
}

func TestAxisAngleRoundTrip(t *testing.T) {
	//nolint:gosec
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		aa := &R4AA{
			Theta: 0.05 + r.Float64()*3,
			RX:    r.Float64()*2 - 1,
			RY:    r.Float64()*2 - 1,
			RZ:    r.Float64()*2 - 1,
		}
		aa.Normalize()
		got := NewRigidTransformFromAxisAngle(aa, r3.Vector{}).AxisAngles()
		test.That(t, AxisAngleAlmostEqual(aa, got, 1e-6), test.ShouldBeTrue)
	}

	t.Run("half turn", func(t *testing.T) {
		got := NewRigidTransformFromAxisAngle(&R4AA{Theta: math.Pi, RZ: 1}, r3.Vector{}).AxisAngles()
		test.That(t, got.Theta, test.ShouldAlmostEqual, math.Pi)
		test.That(t, math.Abs(got.RZ), test.ShouldAlmostEqual, 1)
		test.That(t, got.RX, test.ShouldAlmostEqual, 0)
		test.That(t, got.RY, test.ShouldAlmostEqual, 0)

		diag := &R4AA{Theta: math.Pi, RX: 1, RY: 1}
		diag.Normalize()
		got = NewRigidTransformFromAxisAngle(diag, r3.Vector{}).AxisAngles()
		test.That(t, AxisAngleAlmostEqual(diag, got, 1e-6), test.ShouldBeTrue)
	})

	t.Run("degenerate axis is identity", func(t *testing.T) {
		tr := NewRigidTransformFromAxisAngle(&R4AA{Theta: 1, RX: 1e-7}, r3.Vector{X: 2})
		test.That(t, tr.IsRotationMatrixEpsilonIdentity(1e-12), test.ShouldBeTrue)
		test.That(t, tr.Translation().X, test.ShouldEqual, 2.)
	})
}

func TestEulerRoundTrip(t *testing.T) {
	ea := &EulerAngles{Roll: 0.3, Pitch: -0.7, Yaw: 2.1}
	tr := NewRigidTransform()
	tr.SetEulerXYZ(ea)
	got := tr.EulerAngles()
	test.That(t, got.Roll, test.ShouldAlmostEqual, ea.Roll)
	test.That(t, got.Pitch, test.ShouldAlmostEqual, ea.Pitch)
	test.That(t, got.Yaw, test.ShouldAlmostEqual, ea.Yaw)

	// fixed XYZ is Rz * Ry * Rx
	rx, ry, rz := NewRigidTransform(), NewRigidTransform(), NewRigidTransform()
	rx.RotX(ea.Roll)
	ry.RotY(ea.Pitch)
	rz.RotZ(ea.Yaw)
	test.That(t, Compose(rz, Compose(ry, rx)).EpsilonEquals(tr, 1e-12), test.ShouldBeTrue)
}

func TestComposeAndInvert(t *testing.T) {
	//nolint:gosec
	r := rand.New(rand.NewSource(3))
	id := NewRigidTransform()
	for i := 0; i < 100; i++ {
		t1 := RandomRigidTransform(r)
		t2 := RandomRigidTransform(r)
		p := r3.Vector{X: r.Float64(), Y: r.Float64(), Z: r.Float64()}

		composed := Compose(t1, t2)
		want := t1.TransformPoint(t2.TransformPoint(p))
		got := composed.TransformPoint(p)
		test.That(t, got.Sub(want).Norm(), test.ShouldBeLessThan, 1e-12)

		test.That(t, Compose(t1, t1.Inverse()).EpsilonEquals(id, 1e-12), test.ShouldBeTrue)
		test.That(t, Compose(t1.Inverse(), t1).EpsilonEquals(id, 1e-12), test.ShouldBeTrue)

		inPlace := t1.Clone()
		inPlace.Multiply(t2)
		test.That(t, inPlace.Equals(composed), test.ShouldBeTrue)

		inv := NewRigidTransform()
		inv.SetInverse(t1)
		test.That(t, inv.Equals(t1.Inverse()), test.ShouldBeTrue)
	}
}

func TestSetMultiplyAliasing(t *testing.T) {
	//nolint:gosec
	r := rand.New(rand.NewSource(4))
	t1 := RandomRigidTransform(r)
	t2 := RandomRigidTransform(r)
	want := Compose(t1, t2)

	a := t1.Clone()
	a.SetMultiply(a, t2)
	test.That(t, a.Equals(want), test.ShouldBeTrue)

	b := t2.Clone()
	b.SetMultiply(t1, b)
	test.That(t, b.Equals(want), test.ShouldBeTrue)
}

func TestInvertRotationButKeepTranslation(t *testing.T) {
	tr := NewRigidTransform()
	tr.RotZ(0.4)
	tr.SetTranslation(r3.Vector{X: 1, Y: 2, Z: 3})
	tr.InvertRotationButKeepTranslation()
	test.That(t, tr.Translation(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	want := NewRigidTransform()
	want.RotZ(-0.4)
	want.SetTranslation(r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, tr.EpsilonEquals(want, 1e-12), test.ShouldBeTrue)
}

func TestMatrixConversions(t *testing.T) {
	//nolint:gosec
	r := rand.New(rand.NewSource(5))
	tr := RandomRigidTransform(r)

	test.That(t, NewRigidTransformFromMat4(tr.Mat4()).Equals(tr), test.ShouldBeTrue)

	fromT := &RigidTransform{}
	fromT.SetMat4Transpose(tr.Mat4().Transpose())
	test.That(t, fromT.Equals(tr), test.ShouldBeTrue)

	m3 := NewRigidTransform()
	m3.SetMat3AndTranslation(tr.Mat3(), tr.Translation())
	test.That(t, m3.Equals(tr), test.ShouldBeTrue)

	rm := NewRigidTransformFromRotationMatrix(tr.RotationMatrix(), tr.Translation())
	test.That(t, rm.Equals(tr), test.ShouldBeTrue)

	dense := &RigidTransform{}
	err := dense.SetDense(tr.Dense())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dense.Equals(tr), test.ShouldBeTrue)

	err = dense.SetDense(mat.NewDense(3, 4, make([]float64, 12)))
	test.That(t, err, test.ShouldBeNil)
	err = dense.SetDense(mat.NewDense(2, 4, make([]float64, 8)))
	test.That(t, err, test.ShouldNotBeNil)
	err = dense.SetDense(mat.NewDense(4, 3, make([]float64, 12)))
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, tr.Mat4().At(3, 3), test.ShouldEqual, 1.)
	test.That(t, tr.Mat4().At(0, 3), test.ShouldEqual, tr.Translation().X)
}

func TestTransformHomogeneous(t *testing.T) {
	tr := NewRigidTransformFromTranslation(r3.Vector{X: 1, Y: 2, Z: 3})
	out, err := tr.TransformHomogeneous(mgl64.Vec4{1, 1, 1, 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldResemble, mgl64.Vec4{2, 3, 4, 1})

	_, err = tr.TransformHomogeneous(mgl64.Vec4{1, 1, 1, 0})
	test.That(t, errors.Is(err, ErrNotHomogeneousPoint), test.ShouldBeTrue)
}

func TestInPlaceTransforms(t *testing.T) {
	tr := NewRigidTransform()
	tr.RotZ(math.Pi)
	tr.SetTranslation(r3.Vector{Z: 1})

	p := r3.Vector{X: 1}
	tr.TransformPointInPlace(&p)
	test.That(t, p.X, test.ShouldAlmostEqual, -1)
	test.That(t, p.Z, test.ShouldAlmostEqual, 1)

	v := r3.Vector{X: 1}
	tr.TransformVectorInPlace(&v)
	test.That(t, v.X, test.ShouldAlmostEqual, -1)
	test.That(t, v.Z, test.ShouldAlmostEqual, 0)
}

func TestNormalizeRestoresOrthonormality(t *testing.T) {
	//nolint:gosec
	r := rand.New(rand.NewSource(6))
	tr := RandomRigidTransform(r)
	drifted := tr.Mat4()
	drifted.Set(0, 0, drifted.At(0, 0)+1e-3)
	drifted.Set(1, 2, drifted.At(1, 2)-2e-3)
	bad := NewRigidTransformFromMat4(drifted)
	test.That(t, bad.IsOrthonormal(1e-6), test.ShouldBeFalse)

	bad.Normalize()
	test.That(t, bad.IsOrthonormal(1e-12), test.ShouldBeTrue)
	test.That(t, bad.Determinant(), test.ShouldAlmostEqual, 1)
	test.That(t, bad.Translation(), test.ShouldResemble, tr.Translation())
	test.That(t, bad.EpsilonEquals(tr, 1e-2), test.ShouldBeTrue)
}

func TestEpsilonEquals(t *testing.T) {
	a := NewRigidTransformFromTranslation(r3.Vector{X: 1})
	b := NewRigidTransformFromTranslation(r3.Vector{X: 1 + 1e-6})
	test.That(t, a.EpsilonEquals(b, 1e-5), test.ShouldBeTrue)
	test.That(t, a.EpsilonEquals(b, 1e-7), test.ShouldBeFalse)
	test.That(t, a.Equals(b), test.ShouldBeFalse)
	test.That(t, a.Equals(a.Clone()), test.ShouldBeTrue)
}

func TestSingularRotation(t *testing.T) {
	tr := NewRigidTransform()
	test.That(t, tr.IsRotationMatrixSingular(1e-12), test.ShouldBeTrue)
	tr.RotX(math.Pi)
	test.That(t, tr.IsRotationMatrixSingular(1e-12), test.ShouldBeTrue)
	tr.RotX(0.5)
	test.That(t, tr.IsRotationMatrixSingular(1e-12), test.ShouldBeFalse)
}

func TestInterpolate(t *testing.T) {
	from := NewRigidTransform()
	to := NewRigidTransform()
	to.RotZ(math.Pi / 2)
	to.SetTranslation(r3.Vector{X: 2})

	test.That(t, Interpolate(from, to, 0).EpsilonEquals(from, 1e-9), test.ShouldBeTrue)
	test.That(t, Interpolate(from, to, 1).EpsilonEquals(to, 1e-9), test.ShouldBeTrue)

	mid := Interpolate(from, to, 0.5)
	test.That(t, mid.Translation().X, test.ShouldAlmostEqual, 1)
	aa := mid.AxisAngles()
	test.That(t, aa.Theta, test.ShouldAlmostEqual, math.Pi/4)
	test.That(t, aa.RZ, test.ShouldAlmostEqual, 1)
	test.That(t, TranslationDifference(from, to), test.ShouldResemble, r3.Vector{X: 2})
}

func TestTransformString(t *testing.T) {
	tr := NewRigidTransformFromTranslation(r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, tr.String(), test.ShouldEqual, "[1 0 0 1; 0 1 0 2; 0 0 1 3]")
}
