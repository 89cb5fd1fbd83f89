package geometry

import (
	"math"
	"testing"
)

func vectorsClose(a, b Vector3) bool {
	return a.Sub(b).Length() < 1e-9
}

func TestIdentityApply(t *testing.T) {
	p := NewVector3(1, 2, 3)
	if got := Identity().Apply(p); got != p {
		t.Errorf("Identity failed: expected %v, got %v", p, got)
	}
}

func TestFrameRotation(t *testing.T) {
	// Z stays up, X turns to global Y: a 90 degree rotation about Z
	frame := Frame(NewVector3(10, 0, 0), NewVector3(0, 0, 1), NewVector3(0, 1, 0))

	got := frame.Apply(NewVector3(1, 0, 0))
	expected := NewVector3(10, 1, 0)
	if !vectorsClose(got, expected) {
		t.Errorf("Frame failed: expected %v, got %v", expected, got)
	}

	if d := frame.Determinant(); math.Abs(d-1) > 1e-12 {
		t.Errorf("Frame should be a rotation, determinant %v", d)
	}
}

func TestFrameDefaults(t *testing.T) {
	frame := Frame(Vector3{}, Vector3{}, Vector3{})
	if !vectorsClose(frame.X, NewVector3(1, 0, 0)) || !vectorsClose(frame.Z, NewVector3(0, 0, 1)) {
		t.Errorf("Frame defaults failed: %+v", frame)
	}

	// Reference direction parallel to the axis
	frame = Frame(Vector3{}, NewVector3(1, 0, 0), NewVector3(2, 0, 0))
	if math.Abs(frame.X.Dot(frame.Z)) > 1e-12 {
		t.Errorf("Frame axes should be orthogonal: %+v", frame)
	}
}

func TestTransformMul(t *testing.T) {
	move := Translation(NewVector3(0, 0, 5))
	scale := Scaling(2)

	// scale first, then move
	combined := move.Mul(scale)
	got := combined.Apply(NewVector3(1, 1, 1))
	expected := NewVector3(2, 2, 7)
	if !vectorsClose(got, expected) {
		t.Errorf("Mul failed: expected %v, got %v", expected, got)
	}
}

func TestMirrorDeterminant(t *testing.T) {
	mirror := Identity()
	mirror.X = NewVector3(-1, 0, 0)
	if mirror.Determinant() >= 0 {
		t.Errorf("mirror should have a negative determinant")
	}
}
